// Package status provides a thread-safe view of the ingestion loop's live
// state. The loop writes it; HTTP handlers and MQTT heartbeats read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/focus-sensor/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	SerialPort    string
	Baud          int
	LogPath       string
	HTTPAddr      string
	Broker        string
	AlertGapMs    int64
	HeartbeatMs   int64
	SecondsPerRow float64
	AlertSinks    []string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	RunID         string
	State         logic.State
	LastRecord    time.Time
	Records       int
	Transitions   map[logic.State]int
	Alerts        int
	LastAlert     time.Time
	LastError     string
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given run ID, start time and config.
func NewTracker(runID string, startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			RunID:     runID,
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Record notes an accepted record. transitions is copied.
func (t *Tracker) Record(rec logic.Record, records int, transitions map[logic.State]int) {
	cp := make(map[logic.State]int, len(transitions))
	for k, v := range transitions {
		cp[k] = v
	}

	t.mu.Lock()
	t.snap.State = rec.State
	t.snap.LastRecord = rec.Time
	t.snap.Records = records
	t.snap.Transitions = cp
	t.mu.Unlock()
}

// AlertFired notes a fired alert.
func (t *Tracker) AlertFired(at time.Time, count int) {
	t.mu.Lock()
	t.snap.LastAlert = at
	t.snap.Alerts = count
	t.mu.Unlock()
}

// SetError records the most recent per-record error ("" clears it).
func (t *Tracker) SetError(msg string) {
	t.mu.Lock()
	t.snap.LastError = msg
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
