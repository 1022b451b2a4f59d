package main

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPrefsCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")

	out, err := run(t, "prefs", "get", "--file", path)
	if err != nil {
		t.Fatalf("prefs get: %v", err)
	}
	if !strings.Contains(out, "language: system") {
		t.Fatalf("expected defaults, got %q", out)
	}

	out, err = run(t, "prefs", "set", "--file", path, "--language", "ar", "--theme", "dark")
	if err != nil {
		t.Fatalf("prefs set: %v", err)
	}
	if !strings.Contains(out, "rtl: true") || !strings.Contains(out, "theme: dark") {
		t.Fatalf("unexpected output %q", out)
	}
	b, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(b), "language: ar") {
		t.Fatalf("preferences not persisted: %q %v", b, err)
	}

	if _, err := run(t, "prefs", "set", "--file", path, "--theme", "sepia"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestDashboardCommand(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "g-uid")
	t.Setenv("POSTGRES_DATASOURCE_UID", "p-uid")
	dir := t.TempDir()
	out, err := run(t, "dashboard", "--out", dir)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out, filepath.Join(dir, "grafana-dashboard.json")) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestReplayCommand(t *testing.T) {
	if _, err := run(t, "replay", "--input", filepath.Join(t.TempDir(), "missing.jsonl"), "--print-only"); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestSimulateStopsWhenAdminCannotBind(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ecopulse.yaml")
	cfg := fmt.Sprintf("tick_interval: 50ms\npreferences_path: %s\nadmin:\n  enabled: true\n  addr: %q\n",
		filepath.Join(dir, "preferences.yaml"), ln.Addr().String())
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Cleanup(func() { configPath = "" })

	done := make(chan error, 1)
	go func() {
		_, err := run(t, "simulate", "--print-only", "--config", cfgPath)
		done <- err
	}()
	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "admin server") {
			t.Fatalf("expected admin bind error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("simulate kept running after the admin server failed")
	}
}
