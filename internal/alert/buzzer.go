package alert

import (
	"sync/atomic"
	"time"
)

// Output drives a single digital output line.
type Output interface {
	SetValue(v int) error
	Close() error
}

// Beep pattern for the distraction alert (triple beep, like the device).
const (
	beepCount = 3
	beepOn    = 70 * time.Millisecond
	beepOff   = 90 * time.Millisecond
)

// BuzzerSink beeps an active buzzer wired to an output line.
type BuzzerSink struct {
	out   Output
	busy  atomic.Bool
	sleep func(time.Duration)
	done  func()
}

// NewBuzzerSink creates a sink driving out.
func NewBuzzerSink(out Output) *BuzzerSink {
	return &BuzzerSink{out: out, sleep: time.Sleep}
}

// Name implements Sink.
func (b *BuzzerSink) Name() string { return "buzzer" }

// Fire plays the beep pattern in the background. A pattern already playing
// is not interrupted and the new alert is dropped.
func (b *BuzzerSink) Fire(string) error {
	if !b.busy.CompareAndSwap(false, true) {
		return nil
	}
	go b.play()
	return nil
}

func (b *BuzzerSink) play() {
	defer func() {
		b.out.SetValue(0)
		b.busy.Store(false)
		if b.done != nil {
			b.done()
		}
	}()
	for i := 0; i < beepCount; i++ {
		if err := b.out.SetValue(1); err != nil {
			return
		}
		b.sleep(beepOn)
		if err := b.out.SetValue(0); err != nil {
			return
		}
		b.sleep(beepOff)
	}
}

// Close releases the output line.
func (b *BuzzerSink) Close() error {
	return b.out.Close()
}
