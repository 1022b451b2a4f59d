package sim

import (
	"context"
	"errors"
	"testing"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
)

type mockGreptimeClient struct {
	table *table.Table
	calls int
	err   error
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	m.calls++
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, m.err
}

func TestGreptimeWriterBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, table: "sensor_readings"}
	r := sampleReading()
	if err := w.WriteBatch([]Reading{r, r}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.calls != 1 || m.table == nil {
		t.Fatalf("expected one write with a table, got %d", m.calls)
	}
	rows := m.table.GetRows()
	if len(rows.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows.Rows))
	}
	if rows.Schema[0].ColumnName != "station_id" || rows.Schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("first column should be the station tag: %+v", rows.Schema[0])
	}
	vals := rows.Rows[0].Values
	if got := vals[0].GetStringValue(); got != "st-1" {
		t.Fatalf("station_id = %s", got)
	}
	if got := vals[2].GetI64Value(); got != 75 {
		t.Fatalf("air_quality = %d, want 75", got)
	}
	if got := vals[6].GetF64Value(); got != 7.2 {
		t.Fatalf("water_ph = %v, want 7.2", got)
	}
	if got := vals[11].GetStringValue(); got != "good" {
		t.Fatalf("overall_status = %s, want good", got)
	}
}

func TestGreptimeWriterEmptyAndError(t *testing.T) {
	m := &mockGreptimeClient{err: errors.New("unavailable")}
	w := &GreptimeDBWriter{client: m, table: "sensor_readings"}
	if err := w.WriteBatch(nil); err != nil || m.calls != 0 {
		t.Fatalf("empty batch should be a no-op")
	}
	if err := w.Write(sampleReading()); err == nil {
		t.Fatalf("expected client error to surface")
	}
}

func TestSplitEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		host string
		port int
	}{
		{"localhost:4001", "localhost", 4001},
		{"db.internal", "db.internal", defaultGreptimePort},
		{"10.0.0.5:5001", "10.0.0.5", 5001},
	}
	for _, c := range cases {
		host, port, err := splitEndpoint(c.in)
		if err != nil || host != c.host || port != c.port {
			t.Errorf("splitEndpoint(%q) = %s %d %v", c.in, host, port, err)
		}
	}
	if _, _, err := splitEndpoint("db:abc"); err == nil {
		t.Errorf("expected error for non-numeric port")
	}
}
