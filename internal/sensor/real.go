package sensor

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// RealReader reads labels from an actual serial port.
type RealReader struct {
	port  serial.Port
	lines *lineReader
}

// NewRealReader opens the serial device at portName.
func NewRealReader(portName string, baud int, readTimeout time.Duration) (*RealReader, error) {
	p, err := serial.Open(portName, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}

	if readTimeout > 0 {
		if err := p.SetReadTimeout(readTimeout); err != nil {
			p.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", portName, err)
		}
	}

	return &RealReader{port: p, lines: newLineReader(p)}, nil
}

// ReadLine returns the next label from the device.
func (r *RealReader) ReadLine() (string, error) {
	line, err := r.lines.ReadLine()
	if err != nil {
		return "", fmt.Errorf("read serial: %w", err)
	}
	return line, nil
}

// Close releases the serial port.
func (r *RealReader) Close() error {
	return r.port.Close()
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
