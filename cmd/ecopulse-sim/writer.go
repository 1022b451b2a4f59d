package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"ecopulse-sim/internal/config"
	"ecopulse-sim/internal/logging"
	"ecopulse-sim/internal/sim"
)

// consoleWriter prints colour output on a terminal and JSON lines otherwise.
func consoleWriter(cfg *config.Config, isTTY bool) sim.ReadingWriter {
	if isTTY {
		return sim.NewColorStdoutWriter(cfg.StationID, cfg.TickInterval)
	}
	return sim.NewJSONStdoutWriter()
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// newWriters combines the console writer with the configured sinks and an
// optional JSONL log. printOnly skips external sinks. The cleanup function
// closes everything that was opened.
func newWriters(ctx context.Context, cfg *config.Config, console sim.ReadingWriter, printOnly bool, logFile string) (sim.ReadingWriter, func(), error) {
	log := logging.FromContext(ctx)
	ws := []sim.ReadingWriter{console}
	var closers []io.Closer
	cleanup := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Warn("close writer", "err", err)
			}
		}
	}
	add := func(w sim.ReadingWriter) {
		ws = append(ws, w)
		if c, ok := w.(io.Closer); ok {
			closers = append(closers, c)
		}
	}
	fail := func(err error) (sim.ReadingWriter, func(), error) {
		cleanup()
		return nil, nil, err
	}

	if !printOnly {
		sinks := cfg.Sinks
		if sinks.Greptime.Endpoint != "" {
			w, err := sim.NewGreptimeDBWriter(sinks.Greptime.Endpoint, sinks.Greptime.Database, sinks.Greptime.Table)
			if err != nil {
				return fail(err)
			}
			log.Info("greptime sink enabled", "endpoint", sinks.Greptime.Endpoint, "table", sinks.Greptime.Table)
			add(w)
		}
		if sinks.Postgres.DSN != "" {
			w, err := sim.NewPostgresWriter(ctx, sinks.Postgres.DSN, sinks.Postgres.Table)
			if err != nil {
				return fail(err)
			}
			log.Info("postgres sink enabled", "table", sinks.Postgres.Table)
			add(w)
		}
		if sinks.NATS.URL != "" {
			w, err := sim.NewNATSWriter(sinks.NATS.URL, sinks.NATS.Subject, cfg.StationID)
			if err != nil {
				return fail(err)
			}
			log.Info("nats sink enabled", "url", sinks.NATS.URL, "subject", sinks.NATS.Subject)
			add(w)
		}
	}

	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile)
		if err != nil {
			return fail(fmt.Errorf("create log file: %w", err))
		}
		add(fw)
	}

	if len(ws) == 1 {
		return console, cleanup, nil
	}
	return sim.NewMultiWriter(ws...), cleanup, nil
}
