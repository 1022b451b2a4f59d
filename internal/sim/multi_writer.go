package sim

import (
	"errors"
	"io"

	"ecopulse-sim/internal/prefs"
)

// preferenceSetter is implemented by writers that render localized output.
type preferenceSetter interface {
	SetPreferences(prefs.Preferences)
}

// MultiWriter fans readings out to multiple writers. A failing writer does
// not prevent the others from receiving the reading.
type MultiWriter struct {
	writers []ReadingWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...ReadingWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// Write sends a reading to all writers.
func (mw *MultiWriter) Write(r Reading) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Write(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteBatch sends multiple readings to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []Reading) error {
	var errs []error
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// SetPreferences forwards preference changes to writers that support it.
func (mw *MultiWriter) SetPreferences(p prefs.Preferences) {
	for _, w := range mw.writers {
		if ps, ok := w.(preferenceSetter); ok {
			ps.SetPreferences(p)
		}
	}
}

// SetAdminStatus forwards the admin server state to writers that display it.
func (mw *MultiWriter) SetAdminStatus(active bool) {
	for _, w := range mw.writers {
		if as, ok := w.(AdminStatusWriter); ok {
			as.SetAdminStatus(active)
		}
	}
}

// Close closes every writer that implements io.Closer.
func (mw *MultiWriter) Close() error {
	var errs []error
	for _, w := range mw.writers {
		if c, ok := w.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
