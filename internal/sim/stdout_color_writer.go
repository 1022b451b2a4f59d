// ColorStdoutWriter prints human-friendly, colorized readings to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"ecopulse-sim/internal/health"
	"ecopulse-sim/internal/sensor"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// statusColor maps a status bucket to an ANSI colour.
func statusColor(s health.Status) string {
	switch s {
	case health.StatusExcellent:
		return colorGreen
	case health.StatusGood:
		return colorCyan
	case health.StatusModerate:
		return colorYellow
	case health.StatusPoor:
		return colorMagenta
	default:
		return colorRed
	}
}

// ColorStdoutWriter prints readings using ANSI colors.
type ColorStdoutWriter struct {
	stationID    string
	tickInterval time.Duration
	out          io.Writer
	once         sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(stationID string, tickInterval time.Duration) *ColorStdoutWriter {
	return &ColorStdoutWriter{stationID: stationID, tickInterval: tickInterval, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	fmt.Fprintln(w.out, "Station:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", w.stationID)
	fmt.Fprintf(tw, "Tick Interval:\t%s\n", w.tickInterval)
	tw.Flush()

	fmt.Fprintln(w.out, "\nSensor Ranges:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Sensor\tMin\tMax\n")
	for _, rng := range []struct {
		name string
		r    sensor.Range
	}{
		{"air quality", sensor.AirQualityRange},
		{"co2 (ppm)", sensor.AirCO2Range},
		{"pm2.5", sensor.AirPM25Range},
		{"water purity", sensor.WaterPurityRange},
		{"ph", sensor.WaterPHRange},
		{"turbidity", sensor.WaterTurbidityRange},
		{"soil moisture", sensor.SoilMoistureRange},
		{"biodiversity", sensor.BiodiversityRange},
	} {
		fmt.Fprintf(tw, "%s\t%g\t%g\n", rng.name, rng.r.Min, rng.r.Max)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single reading in colorized format.
func (w *ColorStdoutWriter) Write(r Reading) error {
	w.once.Do(w.printOverview)

	s := r.Snapshot
	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, r.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%sstation=%s%s ", colorBlue, r.StationID, colorReset)
	fmt.Fprintf(w.out, "%shealth=%d(%s)%s ", statusColor(r.Overall), r.PlanetHealth, r.Overall, colorReset)
	fmt.Fprintf(w.out, "%sair=%d%s co2=%d pm25=%d ", statusColor(r.Air), s.AirQuality, colorReset, s.AirCO2, s.AirPM25)
	fmt.Fprintf(w.out, "%swater=%d%s ph=%.1f turb=%d ", statusColor(r.Water), s.WaterPurity, colorReset, s.WaterPH, s.WaterTurbidity)
	fmt.Fprintf(w.out, "%ssoil=%d%s ", statusColor(r.Soil), s.SoilMoisture, colorReset)
	fmt.Fprintf(w.out, "%sbio=%d%s", statusColor(r.Biodiversity), s.Biodiversity, colorReset)
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple readings.
func (w *ColorStdoutWriter) WriteBatch(rows []Reading) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}
