package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sweeney/focus-sensor/internal/logic"
)

// Appender writes records to the log.
type Appender interface {
	// Append writes one record and forces it to durable storage.
	Append(r logic.Record) error

	// Close closes the underlying file.
	Close() error
}

// FileAppender appends records to a CSV file on disk.
type FileAppender struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// OpenAppender opens path for appending, creating it (and its directory)
// with a header row if it does not exist or is empty. An existing file is
// never truncated.
func OpenAppender(path string) (*FileAppender, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat log: %w", err)
	}

	if info.Size() == 0 {
		if _, err := f.WriteString(Header + "\n"); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sync header: %w", err)
		}
	}

	return &FileAppender{path: path, f: f}, nil
}

// Path returns the log file path.
func (a *FileAppender) Path() string {
	return a.path
}

// Append writes one record and syncs it, so a crash loses at most the
// record being written.
func (a *FileAppender) Append(r logic.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.f == nil {
		return fmt.Errorf("append: log closed")
	}
	if _, err := a.f.WriteString(MarshalRecord(r) + "\n"); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	if err := a.f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Close closes the log file. It is safe to call more than once.
func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.f == nil {
		return nil
	}
	err := a.f.Close()
	a.f = nil
	return err
}
