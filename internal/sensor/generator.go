package sensor

import (
	"math"
	"math/rand"
	"time"
)

// Generator produces random snapshots within the declared ranges.
// It is not safe for concurrent use; the simulator is its only caller.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a generator drawing from src. A nil src seeds from the clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rnd: rand.New(src)}
}

// NewSeededGenerator is a convenience for NewGenerator(rand.NewSource(seed)).
// A zero seed seeds from the clock.
func NewSeededGenerator(seed int64) *Generator {
	if seed == 0 {
		return NewGenerator(nil)
	}
	return NewGenerator(rand.NewSource(seed))
}

// Tick returns a fresh snapshot.
func (g *Generator) Tick() Snapshot {
	return Snapshot{
		AirQuality:     g.intIn(AirQualityRange),
		AirCO2:         g.intIn(AirCO2Range),
		AirPM25:        g.intIn(AirPM25Range),
		WaterPurity:    g.intIn(WaterPurityRange),
		WaterPH:        g.tenthIn(WaterPHRange),
		WaterTurbidity: g.intIn(WaterTurbidityRange),
		SoilMoisture:   g.intIn(SoilMoistureRange),
		Biodiversity:   g.intIn(BiodiversityRange),
	}
}

// intIn samples an integer uniformly from the closed range.
func (g *Generator) intIn(r Range) int {
	lo, hi := int(r.Min), int(r.Max)
	return lo + g.rnd.Intn(hi-lo+1)
}

// tenthIn samples a value from the range rounded to one decimal.
func (g *Generator) tenthIn(r Range) float64 {
	v := r.Min + g.rnd.Float64()*(r.Max-r.Min)
	return math.Round(v*10) / 10
}
