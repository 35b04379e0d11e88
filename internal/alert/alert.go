// Package alert fires local side effects (sound, desktop notification, buzzer)
// when the user has been away too long. Every sink is fire-and-forget:
// failures are logged and otherwise ignored.
package alert

import "log"

// Title is used as the notification title.
const Title = "Focus Assistant"

// DefaultMessage is shown when the distraction alert fires.
const DefaultMessage = "Away for more than 5 minutes, time to return!"

// Notifier fires an alert. Implementations must not block for long.
type Notifier interface {
	Notify(message string)
}

// Sink is a single alert side effect.
type Sink interface {
	Name() string
	Fire(message string) error
}

// Dispatcher fans an alert out to every sink.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher creates a Dispatcher. Nil sinks are skipped.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

// Notify fires every sink, logging and ignoring errors.
func (d *Dispatcher) Notify(message string) {
	for _, s := range d.sinks {
		if err := s.Fire(message); err != nil {
			log.Printf("alert: %s failed: %v", s.Name(), err)
		}
	}
}

// Sinks returns the names of the configured sinks.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, len(d.sinks))
	for i, s := range d.sinks {
		names[i] = s.Name()
	}
	return names
}
