package expiry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is how often a running Monitor re-classifies.
const DefaultInterval = time.Minute

var ErrRunning = errors.New("monitor already running")

// Monitor re-runs Classify on a fixed interval and hands the result to notify.
// It only reads the expiration date through source; it never writes state.
type Monitor struct {
	source   func() time.Time
	notify   func(Status)
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type MonitorOption func(*Monitor)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) { m.now = now }
}

func WithLogger(l *slog.Logger) MonitorOption {
	return func(m *Monitor) { m.log = l }
}

func NewMonitor(source func() time.Time, interval time.Duration, notify func(Status), opts ...MonitorOption) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Monitor{
		source:   source,
		notify:   notify,
		interval: interval,
		now:      time.Now,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Check classifies once, right now.
func (m *Monitor) Check() Status {
	return Classify(m.source(), m.now())
}

// Start notifies immediately, then once per interval until Stop or ctx is done.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.loop(ctx, m.done)
	m.log.Debug("expiry monitor started", "interval", m.interval)
	return nil
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer m.release(done)
	t := time.NewTicker(m.interval)
	defer t.Stop()

	m.notify(m.Check())
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.notify(m.Check())
		}
	}
}

// release clears the running state when the parent context ends the loop.
func (m *Monitor) release(done chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done != done {
		return
	}
	m.cancel()
	m.cancel, m.done = nil, nil
}

// Stop is safe to call more than once and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.log.Debug("expiry monitor stopped")
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}
