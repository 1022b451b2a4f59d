package sim

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

const (
	defaultGreptimePort = 4001
	greptimeTimeout     = 5 * time.Second
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes readings to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client greptimeClient
	table  string
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port").
// The table is created on first write.
func NewGreptimeDBWriter(endpoint, database, tableName string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return &GreptimeDBWriter{client: client, table: tableName}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		// no port given
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	return host, port, nil
}

// Write inserts a single reading.
func (w *GreptimeDBWriter) Write(r Reading) error {
	return w.WriteBatch([]Reading{r})
}

// WriteBatch inserts multiple readings in one request.
func (w *GreptimeDBWriter) WriteBatch(rows []Reading) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := w.newTable()
	if err != nil {
		return err
	}
	for _, r := range rows {
		s := r.Snapshot
		if err := tbl.AddRow(
			r.StationID,
			r.ID,
			int64(s.AirQuality),
			int64(s.AirCO2),
			int64(s.AirPM25),
			int64(s.WaterPurity),
			s.WaterPH,
			int64(s.WaterTurbidity),
			int64(s.SoilMoisture),
			int64(s.Biodiversity),
			int64(r.PlanetHealth),
			r.Overall.String(),
			r.Air.String(),
			r.Water.String(),
			r.Soil.String(),
			r.Biodiversity.String(),
			r.Timestamp,
		); err != nil {
			return fmt.Errorf("greptime row %s: %w", r.ID, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), greptimeTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		return fmt.Errorf("greptime write: %w", err)
	}
	return nil
}

func (w *GreptimeDBWriter) newTable() (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	if err := tbl.AddTagColumn("station_id", types.STRING); err != nil {
		return nil, err
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"id", types.STRING},
		{"air_quality", types.INT64},
		{"air_co2", types.INT64},
		{"air_pm25", types.INT64},
		{"water_purity", types.INT64},
		{"water_ph", types.FLOAT64},
		{"water_turbidity", types.INT64},
		{"soil_moisture", types.INT64},
		{"biodiversity", types.INT64},
		{"planet_health", types.INT64},
		{"overall_status", types.STRING},
		{"air_status", types.STRING},
		{"water_status", types.STRING},
		{"soil_status", types.STRING},
		{"biodiversity_status", types.STRING},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	return tbl, nil
}
