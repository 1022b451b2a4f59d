// Planet health aggregation and threshold classification
package health

import (
	"errors"
	"fmt"
	"math"

	"ecopulse-sim/internal/sensor"
)

// Lower bounds (inclusive) of each status bucket.
const (
	ThresholdExcellent = 80.0
	ThresholdGood      = 60.0
	ThresholdModerate  = 40.0
	ThresholdPoor      = 20.0
)

// ErrNonFinite is returned when a NaN or infinite value reaches the classifier.
var ErrNonFinite = errors.New("value is not a finite number")

// PlanetHealth is the rounded mean of the four primary readings.
func PlanetHealth(s sensor.Snapshot) int {
	sum := s.AirQuality + s.WaterPurity + s.SoilMoisture + s.Biodiversity
	return int(math.Round(float64(sum) / 4))
}

// Classify maps a value onto a status bucket. Non-finite input is a caller
// bug and panics; use ClassifyChecked at untrusted boundaries.
func Classify(v float64) Status {
	st, err := ClassifyChecked(v)
	if err != nil {
		panic(fmt.Sprintf("health.Classify: %v", err))
	}
	return st
}

// ClassifyChecked is Classify returning ErrNonFinite instead of panicking.
func ClassifyChecked(v float64) (Status, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	switch {
	case v >= ThresholdExcellent:
		return StatusExcellent, nil
	case v >= ThresholdGood:
		return StatusGood, nil
	case v >= ThresholdModerate:
		return StatusModerate, nil
	case v >= ThresholdPoor:
		return StatusPoor, nil
	default:
		return StatusCritical, nil
	}
}

// Assessment holds planet health and per-reading statuses for one snapshot.
type Assessment struct {
	PlanetHealth int    `json:"planet_health"`
	Overall      Status `json:"overall_status"`
	Air          Status `json:"air_status"`
	Water        Status `json:"water_status"`
	Soil         Status `json:"soil_status"`
	Biodiversity Status `json:"biodiversity_status"`
}

// Assess derives an Assessment from s. It is recomputed per snapshot and
// never cached.
func Assess(s sensor.Snapshot) Assessment {
	ph := PlanetHealth(s)
	return Assessment{
		PlanetHealth: ph,
		Overall:      Classify(float64(ph)),
		Air:          Classify(float64(s.AirQuality)),
		Water:        Classify(float64(s.WaterPurity)),
		Soil:         Classify(float64(s.SoilMoisture)),
		Biodiversity: Classify(float64(s.Biodiversity)),
	}
}
