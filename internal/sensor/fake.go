package sensor

import (
	"errors"
	"sync"
)

// ErrClosed is returned by FakeReader after Close.
var ErrClosed = errors.New("sensor: reader closed")

// Line is one scripted result for FakeReader.
type Line struct {
	Text string
	Err  error
}

// FakeReader is a test double that returns scripted lines.
// Once the script is exhausted ReadLine blocks until Close is called.
type FakeReader struct {
	mu     sync.Mutex
	lines  []Line
	index  int
	closed chan struct{}
	once   sync.Once

	// Reads counts calls to ReadLine that returned a scripted line.
	Reads int
}

// NewFakeReader creates a FakeReader that yields the given texts in order.
func NewFakeReader(texts ...string) *FakeReader {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Line{Text: t}
	}
	return NewFakeReaderLines(lines)
}

// NewFakeReaderLines creates a FakeReader with full control over errors.
func NewFakeReaderLines(lines []Line) *FakeReader {
	return &FakeReader{lines: lines, closed: make(chan struct{})}
}

// ReadLine returns the next scripted line.
func (f *FakeReader) ReadLine() (string, error) {
	f.mu.Lock()
	if f.index < len(f.lines) {
		l := f.lines[f.index]
		f.index++
		f.Reads++
		f.mu.Unlock()
		return l.Text, l.Err
	}
	f.mu.Unlock()

	<-f.closed
	return "", ErrClosed
}

// Close unblocks pending reads.
func (f *FakeReader) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

// Closed reports whether Close was called.
func (f *FakeReader) Closed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

// Exhausted reports whether every scripted line has been returned.
func (f *FakeReader) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index >= len(f.lines)
}
