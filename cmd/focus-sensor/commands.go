package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sweeney/focus-sensor/internal/follow"
	"github.com/sweeney/focus-sensor/internal/logic"
	"github.com/sweeney/focus-sensor/internal/sensor"
	"github.com/sweeney/focus-sensor/internal/store"
	"github.com/sweeney/focus-sensor/internal/web"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := sensor.ListPorts()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, "no serial ports found")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}

func newStatsCmd(o *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print totals computed from the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			summary := store.ReadSummary(cfg.LogPath, cfg.SecondsPerRow)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the same JSON as GET /stats")
	return cmd
}

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a totals line every time the log changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			f, err := follow.New(cfg.LogPath, follow.DefaultDebounce)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			report := func() {
				printLine(out, store.ReadSummary(cfg.LogPath, cfg.SecondsPerRow))
			}
			report()
			return f.Run(ctx, report)
		},
	}
}

func printJSON(w io.Writer, s logic.Summary) error {
	data, err := json.MarshalIndent(web.NewStatsJSON(s), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printSummary(w io.Writer, s logic.Summary) {
	fmt.Fprintf(w, "Focused:      %.1f min\n", s.FocusMin)
	fmt.Fprintf(w, "Short break:  %.1f min\n", s.ShortBreakMin)
	fmt.Fprintf(w, "Warning:      %.1f min\n", s.WarningMin)
	fmt.Fprintf(w, "Distracted:   %.1f min (%d rows)\n", s.DistractedMin, s.DistractedEvents)
	fmt.Fprintf(w, "Away total:   %.1f min\n", s.AwayMin)
	fmt.Fprintf(w, "Rows logged:  %d\n", s.Rows)
}

func printLine(w io.Writer, s logic.Summary) {
	fmt.Fprintf(w, "rows=%d focus=%.1f short_break=%.1f warning=%.1f away=%.1f distracted_events=%d\n",
		s.Rows, s.FocusMin, s.ShortBreakMin, s.WarningMin, s.AwayMin, s.DistractedEvents)
}
