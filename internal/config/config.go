// Package config holds the daemon settings and their YAML overlay.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/focus-sensor/internal/alert"
	"github.com/sweeney/focus-sensor/internal/logic"
	"github.com/sweeney/focus-sensor/internal/mqtt"
	"github.com/sweeney/focus-sensor/internal/sensor"
)

// Config is the full set of daemon settings.
type Config struct {
	SerialPort      string
	Baud            int
	LogPath         string
	SoundPath       string
	Player          string
	AlertGap        time.Duration
	DistractedLabel logic.State
	HTTPAddr        string
	SecondsPerRow   float64
	Broker          string
	ClientID        string
	Heartbeat       time.Duration
	Desktop         bool
	BuzzerChip      string
	BuzzerPin       int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		SerialPort:      sensor.DefaultPort,
		Baud:            sensor.DefaultBaud,
		LogPath:         "focus_log.csv",
		SoundPath:       "/home/pi/alert.wav",
		Player:          alert.DefaultPlayer,
		AlertGap:        logic.DefaultAlertGap,
		DistractedLabel: logic.StateDistracted,
		HTTPAddr:        ":8080",
		SecondsPerRow:   logic.DefaultSecondsPerRow,
		ClientID:        mqtt.DefaultClientID,
		Heartbeat:       15 * time.Minute,
		Desktop:         true,
		BuzzerChip:      alert.DefaultChip,
		BuzzerPin:       -1,
	}
}

type yamlConfig struct {
	SerialPort      string   `yaml:"serial_port"`
	Baud            int      `yaml:"baud"`
	LogPath         string   `yaml:"log_path"`
	SoundPath       *string  `yaml:"sound_path"`
	Player          string   `yaml:"player"`
	AlertGapSeconds *int     `yaml:"alert_gap_seconds"`
	DistractedLabel string   `yaml:"distracted_label"`
	HTTPAddr        string   `yaml:"http_addr"`
	SecondsPerRow   float64  `yaml:"seconds_per_row"`
	Broker          string   `yaml:"broker"`
	ClientID        string   `yaml:"client_id"`
	Heartbeat       string   `yaml:"heartbeat"`
	Desktop         *bool    `yaml:"desktop"`
	Buzzer          *yamlPin `yaml:"buzzer"`
}

type yamlPin struct {
	Chip string `yaml:"chip"`
	Pin  *int   `yaml:"pin"`
}

// LoadFile overlays the YAML file at path onto the defaults.
// Keys absent from the file keep their default value.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config file %s not found", path)
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	if err := applyYamlConfig(&cfg, fileData); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyYamlConfig(cfg *Config, fileData yamlConfig) error {
	if fileData.SerialPort != "" {
		cfg.SerialPort = fileData.SerialPort
	}
	if fileData.Baud > 0 {
		cfg.Baud = fileData.Baud
	}
	if fileData.LogPath != "" {
		cfg.LogPath = fileData.LogPath
	}
	if fileData.SoundPath != nil {
		cfg.SoundPath = *fileData.SoundPath
	}
	if fileData.Player != "" {
		cfg.Player = fileData.Player
	}
	if fileData.AlertGapSeconds != nil {
		if *fileData.AlertGapSeconds < 0 {
			return fmt.Errorf("alert_gap_seconds must not be negative, got %d", *fileData.AlertGapSeconds)
		}
		cfg.AlertGap = time.Duration(*fileData.AlertGapSeconds) * time.Second
	}
	if fileData.DistractedLabel != "" {
		cfg.DistractedLabel = logic.State(fileData.DistractedLabel)
	}
	if fileData.HTTPAddr != "" {
		cfg.HTTPAddr = fileData.HTTPAddr
	}
	if fileData.SecondsPerRow > 0 {
		cfg.SecondsPerRow = fileData.SecondsPerRow
	}
	if fileData.Broker != "" {
		cfg.Broker = fileData.Broker
	}
	if fileData.ClientID != "" {
		cfg.ClientID = fileData.ClientID
	}
	if fileData.Heartbeat != "" {
		d, err := time.ParseDuration(fileData.Heartbeat)
		if err != nil {
			return fmt.Errorf("parse heartbeat: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("heartbeat must not be negative, got %s", d)
		}
		cfg.Heartbeat = d
	}
	if fileData.Desktop != nil {
		cfg.Desktop = *fileData.Desktop
	}
	if fileData.Buzzer != nil {
		if fileData.Buzzer.Chip != "" {
			cfg.BuzzerChip = fileData.Buzzer.Chip
		}
		if fileData.Buzzer.Pin != nil {
			cfg.BuzzerPin = *fileData.Buzzer.Pin
		}
	}
	return nil
}

// Validate reports settings the daemon cannot run with.
func (c Config) Validate() error {
	if c.SerialPort == "" {
		return errors.New("serial port must be set")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.LogPath == "" {
		return errors.New("log path must be set")
	}
	if c.SecondsPerRow <= 0 {
		return fmt.Errorf("seconds per row must be positive, got %v", c.SecondsPerRow)
	}
	if c.AlertGap < 0 {
		return fmt.Errorf("alert gap must not be negative, got %s", c.AlertGap)
	}
	if c.Heartbeat < 0 {
		return fmt.Errorf("heartbeat must not be negative, got %s", c.Heartbeat)
	}
	return nil
}
