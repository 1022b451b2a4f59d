package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderMissingEnv(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "")
	t.Setenv("POSTGRES_DATASOURCE_UID", "")
	if _, err := Render(t.TempDir(), Options{}); err == nil {
		t.Fatalf("expected error for missing env vars")
	}
}

func TestRenderSuccess(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATASOURCE_UID", "uid1")
	t.Setenv("POSTGRES_DATASOURCE_UID", "uid2")

	dir := t.TempDir()
	written, err := Render(dir, Options{StationID: "reef-7", GreptimeTable: "eco"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 dashboards, got %v", written)
	}

	b, err := os.ReadFile(filepath.Join(dir, "grafana-dashboard.json"))
	if err != nil {
		t.Fatalf("read dashboard: %v", err)
	}
	if !json.Valid(b) {
		t.Fatalf("greptime dashboard is not valid JSON")
	}
	s := string(b)
	if !strings.Contains(s, "uid1") || !strings.Contains(s, "FROM eco ") || !strings.Contains(s, "reef-7") {
		t.Fatalf("greptime dashboard not rendered: %s", s)
	}

	b, err = os.ReadFile(filepath.Join(dir, "grafana-dashboard-postgres.json"))
	if err != nil {
		t.Fatalf("read postgres dashboard: %v", err)
	}
	if !json.Valid(b) || !strings.Contains(string(b), "uid2") || !strings.Contains(string(b), "FROM sensor_readings") {
		t.Fatalf("postgres dashboard not rendered")
	}
}
