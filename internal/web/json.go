package web

import (
	"encoding/json"

	"github.com/sweeney/focus-sensor/internal/logic"
)

// StatsJSON is the JSON representation of the aggregated log.
type StatsJSON struct {
	FocusMin         float64 `json:"focus_min"`
	WarningMin       float64 `json:"warning_min"`
	ShortBreakMin    float64 `json:"short_break_min"`
	AwayMin          float64 `json:"away_min"`
	DistractedEvents int     `json:"distracted_events"`
	Rows             int     `json:"rows"`
	DistractedMin    float64 `json:"distracted_min"`
}

// NewStatsJSON converts a summary to its wire form.
func NewStatsJSON(s logic.Summary) StatsJSON {
	return StatsJSON{
		FocusMin:         s.FocusMin,
		WarningMin:       s.WarningMin,
		ShortBreakMin:    s.ShortBreakMin,
		AwayMin:          s.AwayMin,
		DistractedEvents: s.DistractedEvents,
		Rows:             s.Rows,
		DistractedMin:    s.DistractedMin,
	}
}

func formatStats(s logic.Summary) []byte {
	data, _ := json.Marshal(NewStatsJSON(s))
	return data
}
