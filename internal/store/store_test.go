package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/focus-sensor/internal/logic"
)

func at(sec int) time.Time {
	return time.Date(2026, 10, 18, 9, 0, sec, 0, time.Local)
}

func TestMarshalUnmarshalRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  logic.Record
		line string
	}{
		{
			name: "focus",
			rec:  logic.Record{Time: at(5), State: logic.StateFocus},
			line: "2026-10-18 09:00:05,FOCUS",
		},
		{
			name: "label with space",
			rec:  logic.Record{Time: at(59), State: logic.StateShortBreak},
			line: "2026-10-18 09:00:59,SHORT BREAK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.line, MarshalRecord(tt.rec))

			got, err := UnmarshalRecord(tt.line, time.Local)
			require.NoError(t, err)
			assert.True(t, tt.rec.Time.Equal(got.Time))
			assert.Equal(t, tt.rec.State, got.State)
		})
	}
}

func TestUnmarshalRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "empty", line: ""},
		{name: "truncated timestamp", line: "2026-10-18 09:0"},
		{name: "truncated mid timestamp with comma", line: "2026-10-18 09:0,FOCUS"},
		{name: "empty state", line: "2026-10-18 09:00:00,"},
		{name: "too many fields", line: "2026-10-18 09:00:00,FOCUS,extra"},
		{name: "header", line: Header},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRecord(tt.line, time.Local)
			assert.Error(t, err)
		})
	}
}

func TestUnmarshalRecordCRLF(t *testing.T) {
	got, err := UnmarshalRecord("2026-10-18 09:00:00,WARNING\r", time.Local)
	require.NoError(t, err)
	assert.Equal(t, logic.StateWarning, got.State)
}

func TestOpenAppenderWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus_log.csv")

	a, err := OpenAppender(path)
	require.NoError(t, err)
	require.NoError(t, a.Append(logic.Record{Time: at(0), State: logic.StateFocus}))
	require.NoError(t, a.Close())

	a, err = OpenAppender(path)
	require.NoError(t, err)
	require.NoError(t, a.Append(logic.Record{Time: at(1), State: logic.StateWarning}))
	require.NoError(t, a.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"timestamp,state\n2026-10-18 09:00:00,FOCUS\n2026-10-18 09:00:01,WARNING\n",
		string(data))
}

func TestOpenAppenderCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "log.csv")

	a, err := OpenAppender(path)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, path, a.Path())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenAppenderKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	existing := "timestamp,state\r\n2026-10-18 08:00:00,FOCUS\r\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	a, err := OpenAppender(path)
	require.NoError(t, err)
	require.NoError(t, a.Append(logic.Record{Time: at(0), State: logic.StateDistracted}))
	require.NoError(t, a.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), existing))

	tally, err := ReadTally(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tally.Rows)
}

func TestAppendAfterClose(t *testing.T) {
	a, err := OpenAppender(filepath.Join(t.TempDir(), "log.csv"))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	assert.Error(t, a.Append(logic.Record{Time: at(0), State: logic.StateFocus}))
}

func TestReadTallyMissingFile(t *testing.T) {
	tally, err := ReadTally(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, tally.Rows)
}

func TestReadSummaryMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, logic.Summary{}, ReadSummary(filepath.Join(dir, "missing.csv"), logic.DefaultSecondsPerRow))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.Equal(t, logic.Summary{}, ReadSummary(empty, logic.DefaultSecondsPerRow))

	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte(Header+"\n"), 0o644))
	assert.Equal(t, logic.Summary{}, ReadSummary(headerOnly, logic.DefaultSecondsPerRow))
}

func TestReadTallyCountsAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	a, err := OpenAppender(path)
	require.NoError(t, err)

	labels := make([]logic.State, 0, 15)
	for i := 0; i < 10; i++ {
		labels = append(labels, logic.StateFocus)
	}
	labels = append(labels, logic.StateDistracted, logic.StateDistracted, logic.StateDistracted, logic.StateWarning, logic.StateWarning)
	for i, l := range labels {
		require.NoError(t, a.Append(logic.Record{Time: at(i), State: l}))
	}
	require.NoError(t, a.Close())

	tally, err := ReadTally(path)
	require.NoError(t, err)
	assert.Equal(t, 15, tally.Rows)
	assert.Equal(t, 3, tally.Count(logic.StateDistracted))

	sum := ReadSummary(path, logic.DefaultSecondsPerRow)
	assert.Equal(t, logic.Summary{DistractedEvents: 3, Rows: 15}, sum)
}

func TestReadTallyTruncatedTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	content := Header + "\n" +
		"2026-10-18 09:00:00,FOCUS\n" +
		"2026-10-18 09:00:00,DISTRACTED\n" +
		"2026-10-18 09:0"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tally, err := ReadTally(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tally.Rows)
	assert.Equal(t, 1, tally.Count(logic.StateDistracted))
}

func TestReadTallyTornLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	content := Header + "\n" +
		"2026-10-18 09:00:00,FOCUS\n" +
		"2026-10-18 09:00:01,DISTRAC"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tally, err := ReadTally(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Rows)
	assert.Equal(t, map[logic.State]int{logic.StateFocus: 1}, tally.Counts)
}

func TestReadSummarySkipsOverlongRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	a, err := OpenAppender(path)
	require.NoError(t, err)

	for i := 0; i < 600; i++ {
		require.NoError(t, a.Append(logic.Record{Time: at(0), State: logic.StateFocus}))
	}
	noise := logic.State(strings.Repeat("x", 70000))
	require.NoError(t, a.Append(logic.Record{Time: at(1), State: noise}))
	for i := 0; i < 300; i++ {
		require.NoError(t, a.Append(logic.Record{Time: at(2), State: logic.StateDistracted}))
	}
	require.NoError(t, a.Close())

	sum := ReadSummary(path, logic.DefaultSecondsPerRow)
	assert.Equal(t, 900, sum.Rows)
	assert.Equal(t, 300, sum.DistractedEvents)
	assert.Equal(t, 2.0, sum.FocusMin)
	assert.Equal(t, 1.0, sum.DistractedMin)
}

func TestScanTallyOverlongFirstLine(t *testing.T) {
	input := strings.Repeat("y", MaxLineLen*2) + "\n" + "2026-10-18 09:00:00,WARNING\n"
	tally, err := ScanTally(strings.NewReader(input), time.Local)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Rows)
	assert.Equal(t, 1, tally.Count(logic.StateWarning))
}

func TestScanTallyWithoutHeader(t *testing.T) {
	tally, err := ScanTally(strings.NewReader("2026-10-18 09:00:00,FOCUS\n"), time.Local)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Rows)
}

func TestScanTallyGarbage(t *testing.T) {
	tally, err := ScanTally(strings.NewReader("\x00\x01garbage\n,,,\n\n"), time.Local)
	require.NoError(t, err)
	assert.Equal(t, 0, tally.Rows)
}
