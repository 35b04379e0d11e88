// Package logic contains pure business logic for focus state tracking.
// This package has NO external dependencies (no serial, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State is a label reported by the sensor device. The device is the source of
// truth, so the set is open: unknown labels are kept as-is.
type State string

const (
	StateFocus      State = "FOCUS"
	StateShortBreak State = "SHORT BREAK"
	StateWarning    State = "WARNING"
	StateDistracted State = "DISTRACTED"
)

// TimestampLayout is the wall-clock layout used for log records.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultSecondsPerRow is the device sampling period (about 5 samples/sec).
const DefaultSecondsPerRow = 0.2

// Record is one timestamped state label as stored in the log.
type Record struct {
	Time  time.Time
	State State
}

// NewRecord stamps state with now, truncated to second granularity.
func NewRecord(state State, now time.Time) Record {
	return Record{Time: now.Truncate(time.Second), State: state}
}

// Timestamp returns the record time formatted for the log.
func (r Record) Timestamp() string {
	return r.Time.Format(TimestampLayout)
}

// EventType represents a kind of transition event.
type EventType string

const EventStateChanged EventType = "STATE_CHANGED"

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	From      State
	To        State
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Records   int
}
