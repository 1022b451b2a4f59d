package admin

import (
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"ecopulse-sim/internal/logging"
)

func ptr[T any](v T) *T { return &v }

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: ptr(name), Value: ptr(value)}
}

func gauge(name, help string, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{Name: ptr(name), Help: ptr(help), Type: dto.MetricType_GAUGE.Enum(), Metric: metrics}
}

func counter(name, help string, v float64, labels ...*dto.LabelPair) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   ptr(name),
		Help:   ptr(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Label: labels, Counter: &dto.Counter{Value: ptr(v)}}},
	}
}

func gaugeValue(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{Label: labels, Gauge: &dto.Gauge{Value: ptr(v)}}
}

// families renders the current reading and loop counters as metric families.
func (s *Server) families() []*dto.MetricFamily {
	cur := s.src.Current()
	st := s.src.Stats()
	station := label("station", cur.StationID)
	snap := cur.Snapshot
	a := cur.Assessment

	sensor := func(name string, v float64) *dto.Metric {
		return gaugeValue(v, label("sensor", name), station)
	}
	status := func(name string, v int) *dto.Metric {
		return gaugeValue(float64(v), label("reading", name), station)
	}
	running := 0.0
	if st.Running {
		running = 1
	}

	return []*dto.MetricFamily{
		gauge("ecopulse_planet_health", "Aggregate planet health score (0-100).", gaugeValue(float64(a.PlanetHealth), station)),
		gauge("ecopulse_sensor_value", "Latest simulated sensor value.",
			sensor("air_quality", float64(snap.AirQuality)),
			sensor("air_co2", float64(snap.AirCO2)),
			sensor("air_pm25", float64(snap.AirPM25)),
			sensor("water_purity", float64(snap.WaterPurity)),
			sensor("water_ph", snap.WaterPH),
			sensor("water_turbidity", float64(snap.WaterTurbidity)),
			sensor("soil_moisture", float64(snap.SoilMoisture)),
			sensor("biodiversity", float64(snap.Biodiversity)),
		),
		gauge("ecopulse_status", "Status bucket per reading (0=critical .. 4=excellent).",
			status("air", int(a.Air)),
			status("water", int(a.Water)),
			status("soil", int(a.Soil)),
			status("biodiversity", int(a.Biodiversity)),
			status("overall", int(a.Overall)),
		),
		counter("ecopulse_ticks_total", "Snapshots generated since start.", float64(st.Ticks), station),
		counter("ecopulse_write_errors_total", "Writer failures.", float64(st.WriteErrors), station),
		counter("ecopulse_dropped_readings_total", "Readings discarded for slow subscribers.", float64(st.Dropped), station),
		gauge("ecopulse_subscribers", "Active reading subscribers.", gaugeValue(float64(st.Subscribers), station)),
		gauge("ecopulse_websocket_clients", "Connected websocket clients.", gaugeValue(float64(s.hub.Count()), station)),
		gauge("ecopulse_running", "1 while the generation loop is active.", gaugeValue(running, station)),
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range s.families() {
		if err := enc.Encode(mf); err != nil {
			logging.FromContext(r.Context()).Error("encode metrics", "metric", mf.GetName(), "err", err)
			return
		}
	}
}
