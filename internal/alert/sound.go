package alert

import (
	"fmt"
	"os"
	"os/exec"
)

// DefaultPlayer is the command used to play the alert sound.
const DefaultPlayer = "aplay"

// SoundSink plays a wav file with an external player.
type SoundSink struct {
	Player string
	Path   string

	// start launches the command; replaced in tests.
	start func(name string, args ...string) error
}

// NewSoundSink returns a sink for path, or nil if the file does not exist.
func NewSoundSink(player, path string) *SoundSink {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if player == "" {
		player = DefaultPlayer
	}
	return &SoundSink{Player: player, Path: path, start: startDetached}
}

// Name implements Sink.
func (s *SoundSink) Name() string { return "sound" }

// Fire starts the player without waiting for playback to finish.
func (s *SoundSink) Fire(string) error {
	return s.start(s.Player, s.Path)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}
