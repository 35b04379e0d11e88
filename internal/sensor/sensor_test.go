package sensor

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

// scriptedPort returns one chunk per Read call. An empty chunk simulates a
// read timeout; after the script it returns io.EOF.
type scriptedPort struct {
	chunks [][]byte
	i      int
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if p.i >= len(p.chunks) {
		return 0, io.EOF
	}
	c := p.chunks[p.i]
	p.i++
	return copy(b, c), nil
}

func TestLineReaderSplitsLines(t *testing.T) {
	lr := newLineReader(&scriptedPort{chunks: [][]byte{
		[]byte("FOCUS\r\nWARN"),
		[]byte("ING\r\n"),
	}})

	for _, want := range []string{"FOCUS", "WARNING"} {
		got, err := lr.ReadLine()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}

	if _, err := lr.ReadLine(); err != io.EOF {
		t.Errorf("expected io.EOF at end, got %v", err)
	}
}

func TestLineReaderKeepsPartialAcrossTimeout(t *testing.T) {
	lr := newLineReader(&scriptedPort{chunks: [][]byte{
		[]byte("SHORT "),
		{},
		[]byte("BREAK\n"),
	}})

	got, err := lr.ReadLine()
	if err != nil || got != "" {
		t.Fatalf("timeout: got (%q, %v), want (\"\", nil)", got, err)
	}

	got, err = lr.ReadLine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SHORT BREAK" {
		t.Errorf("got %q, want SHORT BREAK", got)
	}
}

func TestLineReaderDropsInvalidBytes(t *testing.T) {
	lr := newLineReader(&scriptedPort{chunks: [][]byte{
		{0xff, 'D', 'I', 'S', 0xfe, 'T', 'R', 'A', 'C', 'T', 'E', 'D', '\n'},
	}})

	got, err := lr.ReadLine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "DISTRACTED" {
		t.Errorf("got %q, want DISTRACTED", got)
	}
}

func TestLineReaderEmptyLine(t *testing.T) {
	lr := newLineReader(&scriptedPort{chunks: [][]byte{[]byte("\r\n  \n")}})

	for i := 0; i < 2; i++ {
		got, err := lr.ReadLine()
		if err != nil {
			t.Fatalf("line %d: unexpected error: %v", i, err)
		}
		if got != "" {
			t.Errorf("line %d: got %q, want empty", i, got)
		}
	}
}

func TestLineReaderDiscardsRunawayLine(t *testing.T) {
	var chunks [][]byte
	for i := 0; i < 12; i++ {
		chunks = append(chunks, bytes.Repeat([]byte{'x'}, 250))
	}
	chunks = append(chunks, []byte("xx\nFOCUS\n"))
	lr := newLineReader(&scriptedPort{chunks: chunks})

	got, err := lr.ReadLine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "FOCUS" {
		t.Errorf("got %q, want FOCUS", got)
	}
	if len(lr.pending) != 0 {
		t.Errorf("pending: got %d bytes, want 0", len(lr.pending))
	}
}

func TestOpenWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	fake := NewFakeReader("FOCUS")
	open := func() (Reader, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("device busy")
		}
		return fake, nil
	}

	var slept []time.Duration
	sleep := func(d time.Duration) { slept = append(slept, d) }

	r, err := OpenWithRetry(open, 10, 2*time.Second, 500*time.Millisecond, sleep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != fake {
		t.Error("expected the opened reader to be returned")
	}
	if calls != 3 {
		t.Errorf("open calls: got %d, want 3", calls)
	}
	want := []time.Duration{2 * time.Second, 2 * time.Second, 500 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("sleeps: got %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d: got %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestOpenWithRetryGivesUp(t *testing.T) {
	calls := 0
	openErr := errors.New("no such device")
	open := func() (Reader, error) {
		calls++
		return nil, openErr
	}

	sleeps := 0
	_, err := OpenWithRetry(open, 4, time.Second, time.Second, func(time.Duration) { sleeps++ })
	if err == nil {
		t.Fatal("expected error after all attempts fail")
	}
	if !errors.Is(err, openErr) {
		t.Errorf("expected wrapped open error, got %v", err)
	}
	if calls != 4 {
		t.Errorf("open calls: got %d, want 4", calls)
	}
	if sleeps != 3 {
		t.Errorf("sleeps: got %d, want 3", sleeps)
	}
}

func TestFakeReaderScript(t *testing.T) {
	readErr := errors.New("framing error")
	f := NewFakeReaderLines([]Line{{Text: "FOCUS"}, {Err: readErr}})

	got, err := f.ReadLine()
	if err != nil || got != "FOCUS" {
		t.Errorf("line 0: got (%q, %v)", got, err)
	}
	if _, err := f.ReadLine(); err != readErr {
		t.Errorf("line 1: expected scripted error, got %v", err)
	}
	if !f.Exhausted() {
		t.Error("expected reader to be exhausted")
	}
}

func TestFakeReaderBlocksUntilClose(t *testing.T) {
	f := NewFakeReader()

	done := make(chan error, 1)
	go func() {
		_, err := f.ReadLine()
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("ReadLine returned before Close")
	case <-time.After(20 * time.Millisecond):
	}

	f.Close()
	select {
	case err := <-done:
		if err != ErrClosed {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("ReadLine did not unblock after Close")
	}
	if !f.Closed() {
		t.Error("expected Closed() to be true")
	}
}
