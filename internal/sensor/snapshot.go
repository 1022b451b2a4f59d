// Sensor snapshot value type and its closed ranges
package sensor

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned by Validate when a field leaves its range.
var ErrOutOfRange = errors.New("sensor value out of range")

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Declared ranges for every snapshot field.
var (
	AirQualityRange     = Range{Min: 50, Max: 95}
	AirCO2Range         = Range{Min: 380, Max: 450}
	AirPM25Range        = Range{Min: 5, Max: 35}
	WaterPurityRange    = Range{Min: 60, Max: 95}
	WaterPHRange        = Range{Min: 6.5, Max: 8.5}
	WaterTurbidityRange = Range{Min: 1, Max: 10}
	SoilMoistureRange   = Range{Min: 40, Max: 85}
	BiodiversityRange   = Range{Min: 55, Max: 90}
)

// Snapshot is one complete set of sensor readings at a point in time.
// It is a value: a new snapshot replaces the previous one as a whole.
type Snapshot struct {
	AirQuality     int     `json:"air_quality" yaml:"air_quality"`
	AirCO2         int     `json:"air_co2" yaml:"air_co2"`
	AirPM25        int     `json:"air_pm25" yaml:"air_pm25"`
	WaterPurity    int     `json:"water_purity" yaml:"water_purity"`
	WaterPH        float64 `json:"water_ph" yaml:"water_ph"`
	WaterTurbidity int     `json:"water_turbidity" yaml:"water_turbidity"`
	SoilMoisture   int     `json:"soil_moisture" yaml:"soil_moisture"`
	Biodiversity   int     `json:"biodiversity" yaml:"biodiversity"`
}

// Initial returns the fixed snapshot shown before the first tick.
func Initial() Snapshot {
	return Snapshot{
		AirQuality:     75,
		AirCO2:         410,
		AirPM25:        15,
		WaterPurity:    82,
		WaterPH:        7.2,
		WaterTurbidity: 3,
		SoilMoisture:   65,
		Biodiversity:   78,
	}
}

type field struct {
	name  string
	value float64
	rng   Range
}

func (s Snapshot) fields() []field {
	return []field{
		{"air_quality", float64(s.AirQuality), AirQualityRange},
		{"air_co2", float64(s.AirCO2), AirCO2Range},
		{"air_pm25", float64(s.AirPM25), AirPM25Range},
		{"water_purity", float64(s.WaterPurity), WaterPurityRange},
		{"water_ph", s.WaterPH, WaterPHRange},
		{"water_turbidity", float64(s.WaterTurbidity), WaterTurbidityRange},
		{"soil_moisture", float64(s.SoilMoisture), SoilMoistureRange},
		{"biodiversity", float64(s.Biodiversity), BiodiversityRange},
	}
}

// Validate checks every field against its declared range. It is meant for
// snapshots coming from outside the generator (replayed logs, API input).
func (s Snapshot) Validate() error {
	var errs []error
	for _, f := range s.fields() {
		if math.IsNaN(f.value) || !f.rng.Contains(f.value) {
			errs = append(errs, fmt.Errorf("%w: %s=%v not in [%v,%v]", ErrOutOfRange, f.name, f.value, f.rng.Min, f.rng.Max))
		}
	}
	return errors.Join(errs...)
}
