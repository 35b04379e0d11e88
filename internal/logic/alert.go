package logic

import "time"

// DefaultAlertGap is the minimum time between two alerts.
const DefaultAlertGap = 30 * time.Second

// AlertPolicy decides when a label should trigger an alert. It is owned by
// the ingestion loop and is not safe for concurrent use.
type AlertPolicy struct {
	trigger   State
	minGap    time.Duration
	lastAlert time.Time
	fired     bool
	count     int
}

// NewAlertPolicy creates a policy that fires on trigger at most once per minGap.
func NewAlertPolicy(trigger State, minGap time.Duration) *AlertPolicy {
	return &AlertPolicy{trigger: trigger, minGap: minGap}
}

// Check reports whether an alert should fire for state at now, and records
// the alert time when it does. Only an exact match of the trigger label counts.
func (p *AlertPolicy) Check(state State, now time.Time) bool {
	if state != p.trigger {
		return false
	}
	if p.fired && now.Sub(p.lastAlert) < p.minGap {
		return false
	}
	p.lastAlert = now
	p.fired = true
	p.count++
	return true
}

// LastAlert returns the time of the last alert and whether one has fired.
func (p *AlertPolicy) LastAlert() (time.Time, bool) {
	return p.lastAlert, p.fired
}

// Count returns the number of alerts fired.
func (p *AlertPolicy) Count() int {
	return p.count
}
