// Package sensor reads newline-terminated state labels from the focus sensor.
// The real implementation uses a serial port.
// The fake implementation allows testing without hardware.
package sensor

import (
	"bytes"
	"strings"
)

// Reader reads state labels from the device.
type Reader interface {
	// ReadLine blocks until the next newline-terminated token is available
	// and returns it decoded and trimmed. An empty string with a nil error
	// means the read timed out without a complete line.
	ReadLine() (string, error)

	// Close releases the device.
	Close() error
}

// Defaults matching the device firmware.
const (
	DefaultPort = "/dev/ttyACM0"
	DefaultBaud = 9600
)

// decodeToken drops bytes that are not valid UTF-8 and trims whitespace.
func decodeToken(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), ""))
}

// port is the subset of a serial port used by lineReader.
// A read timeout is reported as (0, nil).
type port interface {
	Read(p []byte) (int, error)
}

// maxLabelLen bounds a single label. Bytes beyond it without a newline are
// noise and are discarded up to the next newline.
const maxLabelLen = 1024

// lineReader splits a byte stream into lines. A partial line is kept across
// timeouts until its newline arrives.
type lineReader struct {
	src      port
	pending  []byte
	chunk    []byte
	overflow bool
}

func newLineReader(src port) *lineReader {
	return &lineReader{src: src, chunk: make([]byte, 256)}
}

func (l *lineReader) ReadLine() (string, error) {
	for {
		if i := bytes.IndexByte(l.pending, '\n'); i >= 0 {
			line := l.pending[:i]
			l.pending = l.pending[i+1:]
			if l.overflow || len(line) > maxLabelLen {
				l.overflow = false
				continue
			}
			return decodeToken(line), nil
		}
		if len(l.pending) > maxLabelLen {
			l.pending = l.pending[:0]
			l.overflow = true
		}

		n, err := l.src.Read(l.chunk)
		if n > 0 {
			l.pending = append(l.pending, l.chunk[:n]...)
			continue
		}
		if err != nil {
			return "", err
		}
		// Timeout
		return "", nil
	}
}
