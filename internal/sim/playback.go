package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"ecopulse-sim/internal/health"
)

// replayBatchSize caps how many readings are held before a flush when
// replaying as fast as possible.
const replayBatchSize = 500

// ReplayLog replays readings from r to writer. A speed >0 scales the original
// spacing between readings; speed <= 0 writes in batches of replayBatchSize
// when the writer supports it. Snapshots are validated and their health
// recomputed, so edited logs cannot carry stale statuses.
func ReplayLog(ctx context.Context, r io.Reader, writer ReadingWriter, speed float64) (int, error) {
	dec := json.NewDecoder(r)
	var (
		prev  time.Time
		batch []Reading
		n     int
		line  int
	)
	for {
		var row Reading
		line++
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return n, fmt.Errorf("decode reading %d: %w", line, err)
		}
		if err := row.Snapshot.Validate(); err != nil {
			return n, fmt.Errorf("reading %d (%s): %w", line, row.ID, err)
		}
		row.Assessment = health.Assess(row.Snapshot)

		if speed <= 0 {
			batch = append(batch, row)
			if len(batch) == replayBatchSize {
				if err := flushReplay(writer, batch); err != nil {
					return n, err
				}
				n += len(batch)
				batch = nil
			}
			continue
		}
		if !prev.IsZero() {
			diff := time.Duration(float64(row.Timestamp.Sub(prev)) / speed)
			if diff > 0 {
				select {
				case <-time.After(diff):
				case <-ctx.Done():
					return n, ctx.Err()
				}
			}
		}
		if err := writer.Write(row); err != nil {
			return n, err
		}
		prev = row.Timestamp
		n++
	}
	if len(batch) == 0 {
		return n, nil
	}
	if err := flushReplay(writer, batch); err != nil {
		return n, err
	}
	return n + len(batch), nil
}

func flushReplay(writer ReadingWriter, batch []Reading) error {
	if bw, ok := writer.(batchWriter); ok {
		return bw.WriteBatch(batch)
	}
	for _, row := range batch {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// ReplayLogFile opens a file and replays its readings.
func ReplayLogFile(ctx context.Context, path string, writer ReadingWriter, speed float64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReplayLog(ctx, f, writer, speed)
}
