package sim

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// publisher is the subset of *nats.Conn used by NATSWriter.
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSWriter publishes each reading as JSON on a subject.
type NATSWriter struct {
	pub     publisher
	conn    *nats.Conn
	subject string
}

// NewNATSWriter connects to url.
func NewNATSWriter(url, subject, stationID string) (*NATSWriter, error) {
	nc, err := nats.Connect(url,
		nats.Name("ecopulse-sim/"+stationID),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSWriter{pub: nc, conn: nc, subject: subject}, nil
}

// Write publishes a reading.
func (w *NATSWriter) Write(r Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := w.pub.Publish(w.subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", w.subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (w *NATSWriter) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Drain()
}
