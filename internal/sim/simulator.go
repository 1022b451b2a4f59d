// Simulator owning the current snapshot and fanning readings out
package sim

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"ecopulse-sim/internal/sensor"
)

// ErrAlreadyRunning is returned by Run when the loop is already active.
var ErrAlreadyRunning = errors.New("simulator already running")

// ReadingWriter is an interface to support different output writers.
type ReadingWriter interface {
	Write(Reading) error
}

// Optional: Writers can also support batch mode
type batchWriter interface {
	WriteBatch([]Reading) error
}

// Stats reports loop counters.
type Stats struct {
	Ticks       uint64    `json:"ticks"`
	WriteErrors uint64    `json:"write_errors"`
	Dropped     uint64    `json:"dropped"`
	Subscribers int       `json:"subscribers"`
	Running     bool      `json:"running"`
	LastTick    time.Time `json:"last_tick"`
}

// Simulator generates a snapshot every tick and publishes it. Only the loop
// goroutine replaces the current reading; Current may be called from anywhere.
type Simulator struct {
	stationID    string
	gen          *sensor.Generator
	writer       ReadingWriter
	tickInterval time.Duration
	now          func() time.Time

	current atomic.Pointer[Reading]
	running atomic.Bool

	ticks       atomic.Uint64
	writeErrors atomic.Uint64
	dropped     atomic.Uint64

	mu      sync.Mutex
	subs    map[int]chan Reading
	nextSub int
}

// NewSimulator creates a simulator seeded with the initial snapshot.
// writer may be nil when only subscribers consume readings.
func NewSimulator(stationID string, gen *sensor.Generator, writer ReadingWriter, tickInterval time.Duration) *Simulator {
	if gen == nil {
		gen = sensor.NewGenerator(nil)
	}
	if tickInterval <= 0 {
		tickInterval = 3 * time.Second
	}
	s := &Simulator{
		stationID:    stationID,
		gen:          gen,
		writer:       writer,
		tickInterval: tickInterval,
		now:          time.Now,
		subs:         make(map[int]chan Reading),
	}
	r := NewReading(stationID, sensor.Initial(), s.now())
	s.current.Store(&r)
	return s
}

// StationID returns the station the simulator reports for.
func (s *Simulator) StationID() string { return s.stationID }

// TickInterval returns the generation period.
func (s *Simulator) TickInterval() time.Duration { return s.tickInterval }

// Current returns the most recently committed reading.
func (s *Simulator) Current() Reading {
	return *s.current.Load()
}

// Stats returns a copy of the loop counters.
func (s *Simulator) Stats() Stats {
	s.mu.Lock()
	n := len(s.subs)
	s.mu.Unlock()
	st := Stats{
		Ticks:       s.ticks.Load(),
		WriteErrors: s.writeErrors.Load(),
		Dropped:     s.dropped.Load(),
		Subscribers: n,
		Running:     s.running.Load(),
	}
	// the initial reading is not a tick
	if st.Ticks > 0 {
		st.LastTick = s.Current().Timestamp
	}
	return st
}

// Subscribe registers a channel receiving every committed reading. When the
// channel is full the oldest pending reading is discarded so the newest
// always gets through. cancel closes the channel and may be called twice.
func (s *Simulator) Subscribe(buffer int) (<-chan Reading, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Reading, buffer)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Simulator) notify(r Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- r:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- r:
		default:
		}
		s.dropped.Add(1)
	}
}

// Handle controls a simulator started with Start.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs the loop in a new goroutine.
func (s *Simulator) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.err = s.Run(ctx)
	}()
	return h
}

// Stop cancels the loop and waits for it to exit. No reading is published
// after Stop returns. Calling Stop again returns the same result.
func (h *Handle) Stop() error {
	h.cancel()
	<-h.done
	return h.err
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }
