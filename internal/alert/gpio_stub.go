//go:build !linux

package alert

import "errors"

// DefaultChip is the GPIO chip the buzzer line lives on.
const DefaultChip = "gpiochip0"

// GPIOOutput is not available on non-Linux platforms.
type GPIOOutput struct{}

// NewGPIOOutput returns an error on non-Linux platforms.
func NewGPIOOutput(chipName string, pin int) (*GPIOOutput, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetValue is not implemented on non-Linux platforms.
func (g *GPIOOutput) SetValue(v int) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (g *GPIOOutput) Close() error {
	return nil
}
