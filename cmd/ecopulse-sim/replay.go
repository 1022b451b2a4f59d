package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"ecopulse-sim/internal/logging"
	"ecopulse-sim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a reading log file",
	Long:  "replay validates readings from a JSONL log, recomputes their health and feeds them to STDOUT and the configured sinks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := logging.New(cfg.Log.Level, cfg.Log.Format)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		writer, cleanup, err := newWriters(ctx, cfg, consoleWriter(cfg, stdoutIsTerminal()), replayPrintOnly, "")
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := sim.ReplayLogFile(ctx, replayInput, writer, replaySpeed)
		log.Info("replay finished", "input", replayInput, "readings", n)
		return err
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to reading log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (0 writes everything at once)")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print readings to STDOUT only, skipping configured sinks")
	replayCmd.MarkFlagRequired("input")
}
