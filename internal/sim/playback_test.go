package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ecopulse-sim/internal/health"
	"ecopulse-sim/internal/sensor"
)

func encodeReadings(t *testing.T, rows ...Reading) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestReplayLog(t *testing.T) {
	rows := []Reading{
		NewReading("st", sensor.Initial(), time.Unix(0, 0)),
		NewReading("st", sensor.Snapshot{AirQuality: 50, AirCO2: 400, AirPM25: 10, WaterPurity: 60, WaterPH: 7, WaterTurbidity: 2, SoilMoisture: 40, Biodiversity: 55}, time.Unix(1, 0)),
	}
	cw := &collectWriter{}
	n, err := ReplayLog(context.Background(), encodeReadings(t, rows...), cw, 0)
	if err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if n != 2 || cw.len() != 2 {
		t.Fatalf("expected 2 rows, got n=%d written=%d", n, cw.len())
	}
	if cw.rows[1].PlanetHealth != 51 || cw.rows[1].Overall != health.StatusModerate {
		t.Fatalf("unexpected assessment: %+v", cw.rows[1].Assessment)
	}
}

func TestReplayLogRecomputesHealth(t *testing.T) {
	r := NewReading("st", sensor.Initial(), time.Unix(0, 0))
	r.PlanetHealth = 3
	r.Overall = health.StatusCritical
	cw := &collectWriter{}
	if _, err := ReplayLog(context.Background(), encodeReadings(t, r), cw, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if got := cw.rows[0]; got.PlanetHealth != 75 || got.Overall != health.StatusGood {
		t.Fatalf("stale assessment kept: %+v", got.Assessment)
	}
}

func TestReplayLogRejectsOutOfRange(t *testing.T) {
	s := sensor.Initial()
	s.WaterPH = 9.9
	r := NewReading("st", s, time.Unix(0, 0))
	_, err := ReplayLog(context.Background(), encodeReadings(t, r), &collectWriter{}, 0)
	if !errors.Is(err, sensor.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestReplayLogBadJSON(t *testing.T) {
	_, err := ReplayLog(context.Background(), strings.NewReader("{not json\n"), &collectWriter{}, 0)
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestReplayLogUsesBatch(t *testing.T) {
	s := &stubWriter{}
	r := sampleReading()
	if _, err := ReplayLog(context.Background(), encodeReadings(t, r, r, r), s, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if s.batches != 1 || s.writes != 0 {
		t.Fatalf("expected a single batch, got %+v", s)
	}
}

type batchSizes struct{ sizes []int }

func (b *batchSizes) Write(Reading) error { return errors.New("unexpected single write") }

func (b *batchSizes) WriteBatch(rows []Reading) error {
	b.sizes = append(b.sizes, len(rows))
	return nil
}

func TestReplayLogFlushesInChunks(t *testing.T) {
	r := sampleReading()
	rows := make([]Reading, 2*replayBatchSize+1)
	for i := range rows {
		rows[i] = r
	}
	bw := &batchSizes{}
	n, err := ReplayLog(context.Background(), encodeReadings(t, rows...), bw, 0)
	if err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if n != len(rows) {
		t.Fatalf("n = %d, want %d", n, len(rows))
	}
	want := []int{replayBatchSize, replayBatchSize, 1}
	if len(bw.sizes) != len(want) {
		t.Fatalf("batches = %v, want %v", bw.sizes, want)
	}
	for i := range want {
		if bw.sizes[i] != want[i] {
			t.Fatalf("batches = %v, want %v", bw.sizes, want)
		}
	}
}

func TestReplayLogSpeed(t *testing.T) {
	rows := []Reading{
		NewReading("st", sensor.Initial(), time.Unix(0, 0)),
		NewReading("st", sensor.Initial(), time.Unix(0, int64(40*time.Millisecond))),
	}
	cw := &collectWriter{}
	start := time.Now()
	if _, err := ReplayLog(context.Background(), encodeReadings(t, rows...), cw, 2); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if el := time.Since(start); el < 15*time.Millisecond {
		t.Fatalf("replay too fast: %s", el)
	}
	if cw.len() != 2 {
		t.Fatalf("expected 2 rows, got %d", cw.len())
	}
}

func TestReplayLogCancelled(t *testing.T) {
	rows := []Reading{
		NewReading("st", sensor.Initial(), time.Unix(0, 0)),
		NewReading("st", sensor.Initial(), time.Unix(3600, 0)),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	n, err := ReplayLog(ctx, encodeReadings(t, rows...), &collectWriter{}, 1)
	if !errors.Is(err, context.DeadlineExceeded) || n != 1 {
		t.Fatalf("expected cancellation after one row, got n=%d err=%v", n, err)
	}
}

func TestReplayLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	if err := os.WriteFile(path, encodeReadings(t, sampleReading()).Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cw := &collectWriter{}
	if n, err := ReplayLogFile(context.Background(), path, cw, 0); err != nil || n != 1 {
		t.Fatalf("ReplayLogFile: n=%d err=%v", n, err)
	}
	if _, err := ReplayLogFile(context.Background(), filepath.Join(t.TempDir(), "none"), cw, 0); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
