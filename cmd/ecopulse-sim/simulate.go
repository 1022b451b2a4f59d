package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ecopulse-sim/internal/admin"
	"ecopulse-sim/internal/logging"
	"ecopulse-sim/internal/prefs"
	"ecopulse-sim/internal/sensor"
	"ecopulse-sim/internal/sim"
)

var (
	simPrintOnly bool
	simTUI       bool
	simTick      time.Duration
	simSeed      int64
	simLogFile   string
	simLogOutput string
	simNoAdmin   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time environmental simulator",
	Long:  "simulate generates a snapshot every tick, derives planet health and fans readings out to the console, sinks and the admin server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("tick") {
			cfg.TickInterval = simTick
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = simSeed
		}
		if simNoAdmin {
			cfg.Admin.Enabled = false
		}

		log, closeLog, err := simulateLogger(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		env := prefs.OSEnvironment{}
		store, err := prefs.Open(cfg.PreferencesPath)
		if err != nil {
			return err
		}
		// A failing admin server cancels gctx and ends the run; the
		// preferences watcher is optional and only logs.
		bg, gctx := errgroup.WithContext(ctx)
		defer func() {
			stop()
			bg.Wait()
		}()
		bg.Go(func() error {
			if err := prefs.Watch(gctx, store, log); err != nil {
				log.Warn("preferences watch disabled", "path", store.Path(), "err", err)
			}
			return nil
		})

		var console sim.ReadingWriter
		if simTUI {
			tui := sim.NewTUIWriter(cfg.StationID, store.Get(), env, store.Set)
			defer tui.Close()
			console = tui
		} else {
			console = consoleWriter(cfg, stdoutIsTerminal())
		}

		writer, cleanup, err := newWriters(ctx, cfg, console, simPrintOnly, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()
		if ps, ok := writer.(interface{ SetPreferences(prefs.Preferences) }); ok {
			store.OnChange(ps.SetPreferences)
		}

		simulator := sim.NewSimulator(cfg.StationID, sensor.NewSeededGenerator(cfg.Seed), writer, cfg.TickInterval)

		if cfg.Admin.Enabled {
			srv := admin.NewServer(simulator, store, env)
			as, _ := writer.(sim.AdminStatusWriter)
			bg.Go(func() error {
				if as != nil {
					as.SetAdminStatus(true)
				}
				err := srv.Start(gctx, cfg.Admin.Addr)
				if as != nil {
					as.SetAdminStatus(false)
				}
				if err != nil {
					log.Error("admin server failed", "addr", cfg.Admin.Addr, "err", err)
					return fmt.Errorf("admin server %s: %w", cfg.Admin.Addr, err)
				}
				return nil
			})
		}

		h := simulator.Start(gctx)
		<-gctx.Done()
		err = h.Stop()
		st := simulator.Stats()
		log.Info("simulation stopped", "ticks", st.Ticks, "write_errors", st.WriteErrors)
		stop()
		if gerr := bg.Wait(); gerr != nil && err == nil {
			err = gerr
		}
		return err
	},
}

// simulateLogger keeps slog output away from the terminal while the TUI owns it.
func simulateLogger(level, format string) (*slog.Logger, func(), error) {
	noop := func() {}
	if simLogOutput != "" {
		f, err := os.OpenFile(simLogOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, err
		}
		return logging.NewWithWriter(f, level, format), func() { f.Close() }, nil
	}
	if simTUI {
		return logging.Discard(), noop, nil
	}
	return logging.New(level, format), noop, nil
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print readings to STDOUT only, skipping configured sinks")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render readings in an interactive terminal dashboard")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 3*time.Second, "Generation tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (0 seeds from the clock)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export readings (JSONL)")
	simulateCmd.Flags().StringVar(&simLogOutput, "log-output", "", "Write diagnostic logs to this file instead of STDERR")
	simulateCmd.Flags().BoolVar(&simNoAdmin, "no-admin", false, "Disable the admin HTTP server")
}
