package status

import (
	"encoding/json"
	"sort"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string           `json:"event,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	RunID         string           `json:"run_id"`
	State         string           `json:"state"`
	LastRecord    string           `json:"last_record,omitempty"`
	Records       int              `json:"records"`
	Transitions   []TransitionJSON `json:"transitions"`
	Alerts        int              `json:"alerts"`
	LastAlert     string           `json:"last_alert,omitempty"`
	LastError     string           `json:"last_error,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     string           `json:"start_time"`
	Timestamp     string           `json:"timestamp"`
	MQTT          MQTTStatus       `json:"mqtt"`
	Config        ConfigJSON       `json:"config"`
}

// TransitionJSON is the number of transitions into one state.
type TransitionJSON struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SerialPort    string   `json:"serial_port"`
	Baud          int      `json:"baud"`
	LogPath       string   `json:"log_path"`
	HTTPAddr      string   `json:"http_addr"`
	AlertGapMs    int64    `json:"alert_gap_ms"`
	HeartbeatMs   int64    `json:"heartbeat_ms"`
	SecondsPerRow float64  `json:"seconds_per_row"`
	AlertSinks    []string `json:"alert_sinks"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	transitions := make([]TransitionJSON, 0, len(snap.Transitions))
	for s, n := range snap.Transitions {
		transitions = append(transitions, TransitionJSON{State: string(s), Count: n})
	}
	sort.Slice(transitions, func(i, j int) bool { return transitions[i].State < transitions[j].State })

	sinks := snap.Config.AlertSinks
	if sinks == nil {
		sinks = []string{}
	}

	return StatusInner{
		RunID:         snap.RunID,
		State:         state,
		LastRecord:    formatTime(snap.LastRecord),
		Records:       snap.Records,
		Transitions:   transitions,
		Alerts:        snap.Alerts,
		LastAlert:     formatTime(snap.LastAlert),
		LastError:     snap.LastError,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     formatTime(snap.StartTime),
		Timestamp:     formatTime(snap.Now),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			SerialPort:    snap.Config.SerialPort,
			Baud:          snap.Config.Baud,
			LogPath:       snap.Config.LogPath,
			HTTPAddr:      snap.Config.HTTPAddr,
			AlertGapMs:    snap.Config.AlertGapMs,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			SecondsPerRow: snap.Config.SecondsPerRow,
			AlertSinks:    sinks,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
