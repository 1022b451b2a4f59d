package sim

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const postgresTimeout = 5 * time.Second

// execer is the subset of *sql.DB used by PostgresWriter.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresWriter inserts readings into a PostgreSQL table.
type PostgresWriter struct {
	db     execer
	closer func() error
	insert string
}

// NewPostgresWriter opens dsn, verifies the connection and creates the table if needed.
func NewPostgresWriter(ctx context.Context, dsn, tableName string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, postgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL(tableName)); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table %s: %w", tableName, err)
	}
	w := newPostgresWriter(db, tableName)
	w.closer = db.Close
	return w, nil
}

func newPostgresWriter(db execer, tableName string) *PostgresWriter {
	return &PostgresWriter{db: db, insert: insertSQL(tableName)}
}

func createTableSQL(tableName string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id UUID PRIMARY KEY,
  station_id TEXT NOT NULL,
  air_quality INTEGER NOT NULL,
  air_co2 INTEGER NOT NULL,
  air_pm25 INTEGER NOT NULL,
  water_purity INTEGER NOT NULL,
  water_ph DOUBLE PRECISION NOT NULL,
  water_turbidity INTEGER NOT NULL,
  soil_moisture INTEGER NOT NULL,
  biodiversity INTEGER NOT NULL,
  planet_health INTEGER NOT NULL,
  overall_status TEXT NOT NULL,
  air_status TEXT NOT NULL,
  water_status TEXT NOT NULL,
  soil_status TEXT NOT NULL,
  biodiversity_status TEXT NOT NULL,
  ts TIMESTAMPTZ NOT NULL
)`, pq.QuoteIdentifier(tableName))
}

func insertSQL(tableName string) string {
	return fmt.Sprintf(`INSERT INTO %s (id, station_id, air_quality, air_co2, air_pm25, water_purity, water_ph,
  water_turbidity, soil_moisture, biodiversity, planet_health, overall_status, air_status, water_status,
  soil_status, biodiversity_status, ts) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
  ON CONFLICT (id) DO NOTHING`,
		pq.QuoteIdentifier(tableName))
}

// Write inserts a single reading. A reading already stored under the same id
// (replayed logs, the re-published current reading) is skipped.
func (w *PostgresWriter) Write(r Reading) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()
	s := r.Snapshot
	_, err := w.db.ExecContext(ctx, w.insert,
		r.ID, r.StationID,
		s.AirQuality, s.AirCO2, s.AirPM25,
		s.WaterPurity, s.WaterPH, s.WaterTurbidity,
		s.SoilMoisture, s.Biodiversity,
		r.PlanetHealth,
		r.Overall.String(), r.Air.String(), r.Water.String(), r.Soil.String(), r.Biodiversity.String(),
		r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres insert: %w", err)
	}
	return nil
}

// Close closes the database pool.
func (w *PostgresWriter) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer()
}
