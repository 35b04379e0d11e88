package logic

import "math"

// Tally holds raw per-label row counts read from the log.
type Tally struct {
	Counts map[State]int
	Rows   int
}

// NewTally returns an empty tally.
func NewTally() Tally {
	return Tally{Counts: make(map[State]int)}
}

// Add counts one row with the given label.
func (t *Tally) Add(state State) {
	if t.Counts == nil {
		t.Counts = make(map[State]int)
	}
	t.Counts[state]++
	t.Rows++
}

// Count returns the number of rows with exactly the given label.
func (t Tally) Count(state State) int {
	return t.Counts[state]
}

// Summary is the aggregated view of a Tally in minutes.
type Summary struct {
	FocusMin         float64
	WarningMin       float64
	ShortBreakMin    float64
	DistractedMin    float64
	AwayMin          float64
	DistractedEvents int
	Rows             int
}

// Summarize converts counts to minutes using a fixed sampling period.
// Away is the sum of the warning, short break and distracted time.
func (t Tally) Summarize(secondsPerRow float64) Summary {
	if t.Rows == 0 {
		return Summary{}
	}

	focus := float64(t.Count(StateFocus)) * secondsPerRow
	warning := float64(t.Count(StateWarning)) * secondsPerRow
	shortBreak := float64(t.Count(StateShortBreak)) * secondsPerRow
	distracted := float64(t.Count(StateDistracted)) * secondsPerRow
	away := warning + shortBreak + distracted

	return Summary{
		FocusMin:         minutes(focus),
		WarningMin:       minutes(warning),
		ShortBreakMin:    minutes(shortBreak),
		DistractedMin:    minutes(distracted),
		AwayMin:          minutes(away),
		DistractedEvents: t.Count(StateDistracted),
		Rows:             t.Rows,
	}
}

// minutes converts seconds to minutes rounded to one decimal, halves to even.
func minutes(sec float64) float64 {
	return math.RoundToEven(sec/60*10) / 10
}
