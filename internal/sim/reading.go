package sim

import (
	"time"

	"github.com/google/uuid"

	"ecopulse-sim/internal/health"
	"ecopulse-sim/internal/sensor"
)

// Reading is the row handed to writers and subscribers for every committed snapshot.
type Reading struct {
	StationID string          `json:"station_id"`
	ID        string          `json:"id"`
	Snapshot  sensor.Snapshot `json:"snapshot"`
	health.Assessment
	Timestamp time.Time `json:"ts"`
}

// NewReading derives planet health and statuses for s.
func NewReading(stationID string, s sensor.Snapshot, ts time.Time) Reading {
	return Reading{
		StationID:  stationID,
		ID:         uuid.NewString(),
		Snapshot:   s,
		Assessment: health.Assess(s),
		Timestamp:  ts.UTC(),
	}
}
