package logic

import (
	"testing"
	"time"
)

func TestAlertFiresOnFirstDistracted(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewAlertPolicy(StateDistracted, DefaultAlertGap)

	if !p.Check(StateDistracted, now) {
		t.Error("expected first DISTRACTED to fire")
	}
	last, fired := p.LastAlert()
	if !fired || !last.Equal(now) {
		t.Errorf("LastAlert: got (%v, %v), want (%v, true)", last, fired, now)
	}
}

func TestAlertIgnoresOtherLabels(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewAlertPolicy(StateDistracted, DefaultAlertGap)

	for _, s := range []State{StateFocus, StateWarning, StateShortBreak, "distracted", "DISTRACTED "} {
		if p.Check(s, now) {
			t.Errorf("label %q should not fire", s)
		}
	}
	if _, fired := p.LastAlert(); fired {
		t.Error("no alert should have been recorded")
	}
}

func TestAlertDebounceGap(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		want int
	}{
		{"under gap", 29 * time.Second, 1},
		{"just under gap", 30*time.Second - time.Millisecond, 1},
		{"exactly gap", 30 * time.Second, 2},
		{"over gap", 45 * time.Second, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
			p := NewAlertPolicy(StateDistracted, DefaultAlertGap)

			p.Check(StateDistracted, now)
			p.Check(StateDistracted, now.Add(tt.gap))

			if p.Count() != tt.want {
				t.Errorf("Count: got %d, want %d", p.Count(), tt.want)
			}
		})
	}
}

func TestAlertGapMeasuredFromLastFired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewAlertPolicy(StateDistracted, DefaultAlertGap)

	// A continuous run of DISTRACTED at 5 Hz for 65s fires at 0s, 30s, 60s.
	for i := 0; i <= 325; i++ {
		p.Check(StateDistracted, now.Add(time.Duration(i)*200*time.Millisecond))
	}
	if p.Count() != 3 {
		t.Errorf("Count: got %d, want 3", p.Count())
	}
	last, _ := p.LastAlert()
	if !last.Equal(now.Add(60 * time.Second)) {
		t.Errorf("LastAlert: got %v, want %v", last, now.Add(60*time.Second))
	}
}
