package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ecopulse-sim/internal/config"
	"ecopulse-sim/internal/sensor"
	"ecopulse-sim/internal/sim"
)

func TestConsoleWriter(t *testing.T) {
	cfg := config.Default()
	if _, ok := consoleWriter(cfg, false).(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter when not a terminal")
	}
	if _, ok := consoleWriter(cfg, true).(*sim.ColorStdoutWriter); !ok {
		t.Fatalf("expected *sim.ColorStdoutWriter on a terminal")
	}
}

func TestNewWritersPrintOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Sinks.Postgres.DSN = "postgres://unreachable.invalid/db"
	cfg.Sinks.NATS.URL = "nats://unreachable.invalid:4222"
	console := sim.NewJSONStdoutWriter()
	w, cleanup, err := newWriters(context.Background(), cfg, console, true, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if w != sim.ReadingWriter(console) {
		t.Fatalf("expected console writer only, got %T", w)
	}
}

func TestNewWritersNoSinksConfigured(t *testing.T) {
	console := sim.NewJSONStdoutWriter()
	w, cleanup, err := newWriters(context.Background(), config.Default(), console, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.jsonl")
	silent := sim.NewMultiWriter()
	w, cleanup, err := newWriters(context.Background(), config.Default(), silent, true, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if w == sim.ReadingWriter(silent) {
		t.Fatalf("expected the log file to be combined with the console")
	}
	if err := w.Write(sim.NewReading("st", sensor.Initial(), time.Now())); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cleanup()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
}

func TestNewWritersBadLogFile(t *testing.T) {
	_, _, err := newWriters(context.Background(), config.Default(), sim.NewJSONStdoutWriter(), true, filepath.Join(t.TempDir(), "missing", "x.jsonl"))
	if err == nil {
		t.Fatalf("expected error for unwritable log file")
	}
}
