package logic

import "time"

// Detector tracks the current label and reports transitions between labels.
// The first label observed only establishes a baseline.
type Detector struct {
	current       State
	baselined     bool
	startTime     time.Time
	records       int
	transitions   map[State]int
	lastHeartbeat time.Time
}

// NewDetector creates a new transition detector.
// The startTime is used for calculating uptime in heartbeat events.
func NewDetector(startTime time.Time) *Detector {
	return &Detector{
		startTime:     startTime,
		lastHeartbeat: startTime,
		transitions:   make(map[State]int),
	}
}

// Process takes a new label and returns the transition it causes, if any.
// Empty labels are ignored.
func (d *Detector) Process(state State, now time.Time) *Event {
	if state == "" {
		return nil
	}
	d.records++

	if !d.baselined {
		d.current = state
		d.baselined = true
		return nil
	}

	if state == d.current {
		return nil
	}

	event := &Event{
		Timestamp: now,
		Type:      EventStateChanged,
		From:      d.current,
		To:        state,
	}
	d.current = state
	d.transitions[state]++
	return event
}

// IsBaselined returns whether the detector has seen at least one label.
func (d *Detector) IsBaselined() bool {
	return d.baselined
}

// CurrentState returns the most recent label, or "" before baseline.
func (d *Detector) CurrentState() State {
	return d.current
}

// Records returns how many labels have been processed.
func (d *Detector) Records() int {
	return d.records
}

// TransitionsSnapshot returns a copy of the per-target transition counts.
func (d *Detector) TransitionsSnapshot() map[State]int {
	out := make(map[State]int, len(d.transitions))
	for k, v := range d.transitions {
		out[k] = v
	}
	return out
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if not yet baselined, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !d.baselined {
		return nil
	}

	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Records:   d.records,
	}
}
