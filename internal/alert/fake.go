package alert

import "sync"

// FakeNotifier records alerts for test assertions.
type FakeNotifier struct {
	mu       sync.Mutex
	Messages []string
}

// NewFakeNotifier creates a FakeNotifier.
func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

// Notify records the message.
func (f *FakeNotifier) Notify(message string) {
	f.mu.Lock()
	f.Messages = append(f.Messages, message)
	f.mu.Unlock()
}

// Count returns the number of recorded alerts.
func (f *FakeNotifier) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Messages)
}
