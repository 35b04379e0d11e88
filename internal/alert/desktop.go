package alert

import "github.com/gen2brain/beeep"

// DesktopSink shows a desktop notification.
type DesktopSink struct {
	Title string

	notify func(title, message string) error
}

// NewDesktopSink creates a sink that uses the platform notification service.
func NewDesktopSink(title string) *DesktopSink {
	if title == "" {
		title = Title
	}
	return &DesktopSink{
		Title: title,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Name implements Sink.
func (d *DesktopSink) Name() string { return "desktop" }

// Fire sends the notification in the background.
func (d *DesktopSink) Fire(message string) error {
	go d.notify(d.Title, message)
	return nil
}
