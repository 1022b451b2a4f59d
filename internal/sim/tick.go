package sim

import (
	"context"
	"time"

	"ecopulse-sim/internal/logging"
)

// Run publishes the current reading, then generates a new one every tick
// until ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	log := logging.FromContext(ctx)
	log.Info("starting simulator", "station_id", s.stationID, "tick_interval", s.tickInterval)
	s.publish(ctx, s.Current())

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator", "ticks", s.ticks.Load())
			return nil
		}
	}
}

// tick generates a snapshot and commits it unless ctx was cancelled meanwhile.
func (s *Simulator) tick(ctx context.Context) {
	snap := s.gen.Tick()
	if ctx.Err() != nil {
		return
	}
	r := NewReading(s.stationID, snap, s.now())
	s.current.Store(&r)
	s.ticks.Add(1)
	s.publish(ctx, r)
}

func (s *Simulator) publish(ctx context.Context, r Reading) {
	log := logging.FromContext(ctx)
	if s.writer != nil {
		if err := s.writer.Write(r); err != nil {
			s.writeErrors.Add(1)
			log.Error("write failed", "reading_id", r.ID, "err", err)
		}
	}
	s.notify(r)
	log.Debug("reading committed", "planet_health", r.PlanetHealth, "overall", r.Overall)
}
