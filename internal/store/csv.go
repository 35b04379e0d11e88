// Package store persists state records to an append-only CSV log and reads
// them back for aggregation.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/focus-sensor/internal/logic"
)

// Header is the first line of every log file.
const Header = "timestamp,state"

// MarshalRecord serializes a Record to a CSV line (without newline).
// Labels are written bare; the device never emits commas.
func MarshalRecord(r logic.Record) string {
	return fmt.Sprintf("%s,%s", r.Timestamp(), r.State)
}

// UnmarshalRecord parses a CSV line into a Record. Timestamps are read in
// loc, which should match the zone the writer used.
func UnmarshalRecord(line string, loc *time.Location) (logic.Record, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return logic.Record{}, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}

	ts, err := time.ParseInLocation(logic.TimestampLayout, fields[0], loc)
	if err != nil {
		return logic.Record{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	if fields[1] == "" {
		return logic.Record{}, fmt.Errorf("empty state")
	}

	return logic.Record{Time: ts, State: logic.State(fields[1])}, nil
}
