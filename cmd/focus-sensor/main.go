// Command focus-sensor logs focus labels from a serial sensor, raises alerts
// when the user is distracted and serves the aggregated log over HTTP.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/focus-sensor/internal/config"
	"github.com/sweeney/focus-sensor/internal/logic"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// options holds raw flag values. Only flags the user actually set are
// applied on top of the config file.
type options struct {
	configPath string
	flags      config.Config
	label      string
}

func newRootCmd() *cobra.Command {
	root, _ := newCommand()
	return root
}

// newCommand builds the command tree and returns the options its flags bind to.
func newCommand() (*cobra.Command, *options) {
	o := &options{flags: config.Default()}
	def := config.Default()

	root := &cobra.Command{
		Use:   "focus-sensor",
		Short: "Log focus states from a serial sensor and serve stats over HTTP",
		Long: `focus-sensor reads state labels (FOCUS, SHORT BREAK, WARNING, DISTRACTED)
from a serial sensor, appends them to a CSV log, alerts when the user is
distracted and serves aggregated totals over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "YAML config file")
	pf.StringVar(&o.flags.LogPath, "log", def.LogPath, "CSV log file")
	pf.Float64Var(&o.flags.SecondsPerRow, "seconds-per-row", def.SecondsPerRow, "Seconds represented by one log row")

	f := root.Flags()
	f.StringVar(&o.flags.SerialPort, "port", def.SerialPort, "Serial device")
	f.IntVar(&o.flags.Baud, "baud", def.Baud, "Serial baud rate")
	f.StringVar(&o.flags.SoundPath, "sound", def.SoundPath, "WAV file played on alert (missing file disables sound)")
	f.StringVar(&o.flags.Player, "player", def.Player, "Command used to play the alert sound")
	f.DurationVar(&o.flags.AlertGap, "alert-gap", def.AlertGap, "Minimum time between alerts")
	f.StringVar(&o.label, "label", string(def.DistractedLabel), "Label that triggers an alert")
	f.StringVar(&o.flags.HTTPAddr, "http", def.HTTPAddr, "HTTP address (empty to disable)")
	f.StringVar(&o.flags.Broker, "broker", def.Broker, "MQTT broker address (empty to disable)")
	f.StringVar(&o.flags.ClientID, "client-id", def.ClientID, "MQTT client ID")
	f.DurationVar(&o.flags.Heartbeat, "heartbeat", def.Heartbeat, "Heartbeat interval (0 to disable)")
	f.BoolVar(&o.flags.Desktop, "desktop", def.Desktop, "Show a desktop notification on alert")
	f.StringVar(&o.flags.BuzzerChip, "buzzer-chip", def.BuzzerChip, "GPIO chip for the buzzer")
	f.IntVar(&o.flags.BuzzerPin, "buzzer-pin", def.BuzzerPin, "GPIO line for the buzzer (-1 to disable)")

	root.AddCommand(newPortsCmd())
	root.AddCommand(newStatsCmd(o))
	root.AddCommand(newWatchCmd(o))

	return root, o
}

// resolve builds the effective config: defaults, then the config file, then
// flags that were set on the command line.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		fileCfg, err := config.LoadFile(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = fileCfg
	}

	overrides := map[string]func(){
		"log":             func() { cfg.LogPath = o.flags.LogPath },
		"seconds-per-row": func() { cfg.SecondsPerRow = o.flags.SecondsPerRow },
		"port":            func() { cfg.SerialPort = o.flags.SerialPort },
		"baud":            func() { cfg.Baud = o.flags.Baud },
		"sound":           func() { cfg.SoundPath = o.flags.SoundPath },
		"player":          func() { cfg.Player = o.flags.Player },
		"alert-gap":       func() { cfg.AlertGap = o.flags.AlertGap },
		"label":           func() { cfg.DistractedLabel = logic.State(o.label) },
		"http":            func() { cfg.HTTPAddr = o.flags.HTTPAddr },
		"broker":          func() { cfg.Broker = o.flags.Broker },
		"client-id":       func() { cfg.ClientID = o.flags.ClientID },
		"heartbeat":       func() { cfg.Heartbeat = o.flags.Heartbeat },
		"desktop":         func() { cfg.Desktop = o.flags.Desktop },
		"buzzer-chip":     func() { cfg.BuzzerChip = o.flags.BuzzerChip },
		"buzzer-pin":      func() { cfg.BuzzerPin = o.flags.BuzzerPin },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Serial open policy: the device may still be enumerating at boot, and it
// resets when the port is opened.
const (
	openAttempts    = 10
	openRetryDelay  = 2 * time.Second
	openSettleDelay = 2 * time.Second
	readTimeout     = time.Second
	errorPause      = time.Second
)
