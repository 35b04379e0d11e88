package sensor

import (
	"fmt"
	"log"
	"time"
)

// OpenFunc opens a Reader.
type OpenFunc func() (Reader, error)

// OpenWithRetry calls open up to attempts times, sleeping delay between
// failures. After a successful open it sleeps settle, since the device
// resets when the port is opened.
func OpenWithRetry(open OpenFunc, attempts int, delay, settle time.Duration, sleep func(time.Duration)) (Reader, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		r, err := open()
		if err == nil {
			if settle > 0 {
				sleep(settle)
			}
			return r, nil
		}
		lastErr = err
		log.Printf("serial: open failed (%d/%d): %v", i+1, attempts, err)
		if i < attempts-1 {
			sleep(delay)
		}
	}
	return nil, fmt.Errorf("could not open serial port after %d attempts: %w", attempts, lastErr)
}
