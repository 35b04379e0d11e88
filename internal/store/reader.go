package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sweeney/focus-sensor/internal/logic"
)

// ErrNotFound is returned when the log file does not exist.
var ErrNotFound = errors.New("log not found")

// MaxLineLen bounds a log row. Longer rows are skipped whole.
const MaxLineLen = 4096

// ScanTally counts valid records from r. The header line, malformed rows,
// rows longer than MaxLineLen and a last line without its newline (still
// being written) are skipped.
func ScanTally(r io.Reader, loc *time.Location) (logic.Tally, error) {
	tally := logic.NewTally()

	br := bufio.NewReaderSize(r, MaxLineLen)
	first := true
	overlong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			overlong = true
			continue
		}
		if errors.Is(err, io.EOF) {
			return tally, nil
		}
		if err != nil {
			return tally, fmt.Errorf("scan log: %w", err)
		}
		if overlong {
			overlong = false
			first = false
			continue
		}

		line := strings.TrimSuffix(string(chunk[:len(chunk)-1]), "\r")
		if first {
			first = false
			if line == Header {
				continue
			}
		}
		rec, err := UnmarshalRecord(line, loc)
		if err != nil {
			continue
		}
		tally.Add(rec.State)
	}
}

// ReadTally reads the whole log at path and counts records per label.
// A missing file returns ErrNotFound.
func ReadTally(path string) (logic.Tally, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return logic.NewTally(), ErrNotFound
		}
		return logic.NewTally(), fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	return ScanTally(f, time.Local)
}

// ReadSummary reads the log fresh and summarizes it. Any failure to read the
// file yields a zeroed summary; the log is never treated as fatal by readers.
func ReadSummary(path string, secondsPerRow float64) logic.Summary {
	tally, err := ReadTally(path)
	if err != nil {
		return logic.Summary{}
	}
	return tally.Summarize(secondsPerRow)
}
