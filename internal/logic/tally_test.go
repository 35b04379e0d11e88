package logic

import (
	"math"
	"testing"
)

func tallyOf(counts map[State]int) Tally {
	t := NewTally()
	for s, n := range counts {
		for i := 0; i < n; i++ {
			t.Add(s)
		}
	}
	return t
}

func TestSummarizeEmpty(t *testing.T) {
	got := NewTally().Summarize(DefaultSecondsPerRow)
	if got != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", got)
	}

	var zero Tally
	if zero.Summarize(DefaultSecondsPerRow) != (Summary{}) {
		t.Error("zero-value tally should summarize to zero")
	}
}

func TestSummarizeSmallSample(t *testing.T) {
	tl := tallyOf(map[State]int{StateFocus: 10, StateDistracted: 3, StateWarning: 2})
	got := tl.Summarize(DefaultSecondsPerRow)

	if got.FocusMin != 0.0 {
		t.Errorf("FocusMin: got %v, want 0.0", got.FocusMin)
	}
	if got.WarningMin != 0.0 {
		t.Errorf("WarningMin: got %v, want 0.0", got.WarningMin)
	}
	if got.AwayMin != 0.0 {
		t.Errorf("AwayMin: got %v, want 0.0", got.AwayMin)
	}
	if got.DistractedEvents != 3 {
		t.Errorf("DistractedEvents: got %d, want 3", got.DistractedEvents)
	}
	if got.Rows != 15 {
		t.Errorf("Rows: got %d, want 15", got.Rows)
	}
}

func TestSummarizeMinutes(t *testing.T) {
	// 300 rows * 0.2s = 60s = 1.0 min; 450 rows = 1.5 min; 1000 rows = 3.3 min
	tl := tallyOf(map[State]int{
		StateFocus:      1000,
		StateShortBreak: 300,
		StateWarning:    450,
		StateDistracted: 300,
	})
	got := tl.Summarize(DefaultSecondsPerRow)

	want := Summary{
		FocusMin:         3.3,
		WarningMin:       1.5,
		ShortBreakMin:    1.0,
		DistractedMin:    1.0,
		AwayMin:          3.5,
		DistractedEvents: 300,
		Rows:             2050,
	}
	if got != want {
		t.Errorf("Summarize:\n got  %+v\n want %+v", got, want)
	}
}

func TestSummarizeUnknownLabelsCountAsRowsOnly(t *testing.T) {
	tl := tallyOf(map[State]int{StateFocus: 300, "CALIBRATING": 600})
	got := tl.Summarize(DefaultSecondsPerRow)

	if got.Rows != 900 {
		t.Errorf("Rows: got %d, want 900", got.Rows)
	}
	if got.AwayMin != 0 {
		t.Errorf("AwayMin: got %v, want 0", got.AwayMin)
	}
	if got.FocusMin != 1.0 {
		t.Errorf("FocusMin: got %v, want 1.0", got.FocusMin)
	}
}

func TestAwayIsSumOfAwayCategories(t *testing.T) {
	for _, counts := range []map[State]int{
		{StateWarning: 300, StateShortBreak: 600, StateDistracted: 900},
		{StateWarning: 3000},
		{StateShortBreak: 1500, StateDistracted: 1500, StateFocus: 10},
	} {
		got := tallyOf(counts).Summarize(DefaultSecondsPerRow)
		sum := got.WarningMin + got.ShortBreakMin + got.DistractedMin
		if math.Abs(got.AwayMin-sum) > 1e-9 {
			t.Errorf("counts %v: AwayMin %v != %v", counts, got.AwayMin, sum)
		}
	}
}

func TestSummarizeCustomSecondsPerRow(t *testing.T) {
	tl := tallyOf(map[State]int{StateFocus: 60})
	got := tl.Summarize(1.0)
	if got.FocusMin != 1.0 {
		t.Errorf("FocusMin: got %v, want 1.0", got.FocusMin)
	}
}

func TestSummarizeRoundsHalfToEven(t *testing.T) {
	// 75 rows = 15s = 0.25 min; 225 rows = 45s = 0.75 min
	got := tallyOf(map[State]int{StateShortBreak: 75, StateWarning: 225}).Summarize(DefaultSecondsPerRow)
	if got.ShortBreakMin != 0.2 {
		t.Errorf("ShortBreakMin: got %v, want 0.2", got.ShortBreakMin)
	}
	if got.WarningMin != 0.8 {
		t.Errorf("WarningMin: got %v, want 0.8", got.WarningMin)
	}
	if got.AwayMin != 1.0 {
		t.Errorf("AwayMin: got %v, want 1.0", got.AwayMin)
	}
}
