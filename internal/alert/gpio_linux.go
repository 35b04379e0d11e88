//go:build linux

package alert

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// DefaultChip is the GPIO chip the buzzer line lives on.
const DefaultChip = "gpiochip0"

// GPIOOutput drives a buzzer through the Linux GPIO character device.
type GPIOOutput struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewGPIOOutput requests pin (BCM numbering) on chipName as an output, low.
func NewGPIOOutput(chipName string, pin int) (*GPIOOutput, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request buzzer pin %d: %w", pin, err)
	}

	return &GPIOOutput{chip: chip, line: line}, nil
}

// SetValue sets the line: 1 = buzzer on, 0 = off.
func (g *GPIOOutput) SetValue(v int) error {
	return g.line.SetValue(v)
}

// Close releases the line.
// Reconfigures it as input with pull-down (matching Pi boot defaults) before
// closing so the buzzer stays silent across reboots.
func (g *GPIOOutput) Close() error {
	var errs []error

	if g.line != nil {
		if err := g.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure buzzer pin: %w", err))
		}
		if err := g.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close buzzer pin: %w", err))
		}
	}
	if g.chip != nil {
		if err := g.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
