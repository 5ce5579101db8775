package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Sink delivers a rendered notification to one channel (chat, push, email).
type Sink interface {
	Name() string
	Send(ctx context.Context, e Event) error
}

// Config holds dispatcher tuning.
type Config struct {
	QueueSize     int
	RatePerSecond float64
	Burst         int
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		QueueSize:     256,
		RatePerSecond: 20,
		Burst:         30,
	}
}

// Dispatcher queues events and fans them out to every sink asynchronously.
type Dispatcher struct {
	sinks   []Sink
	queue   chan Event
	limiter *rate.Limiter
	logger  zerolog.Logger
	metrics *Metrics

	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(cfg Config, sinks []Sink, metrics *Metrics, logger zerolog.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultConfig().RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultConfig().Burst
	}
	return &Dispatcher{
		sinks:   sinks,
		queue:   make(chan Event, cfg.QueueSize),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:  logger.With().Str("component", "notify").Logger(),
		metrics: metrics,
	}
}

// Start launches the delivery worker. Safe to call once.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	d.wg.Add(1)
	go d.worker(ctx)
}

// Dispatch enqueues an event without blocking the caller. When the queue is
// full the event is dropped with a warning; delivery is best-effort.
func (d *Dispatcher) Dispatch(e Event) {
	select {
	case d.queue <- e:
	default:
		d.logger.Warn().
			Str("type", string(e.Type)).
			Int64("booking_id", e.BookingID).
			Msg("notification queue full, dropping event")
		if d.metrics != nil {
			d.metrics.IncDropped()
		}
	}
}

// Wait blocks until the worker has drained after context cancellation.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-d.queue:
			if err := d.limiter.Wait(ctx); err != nil {
				return
			}
			d.deliver(ctx, e)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e Event) {
	for _, sink := range d.sinks {
		if err := sink.Send(ctx, e); err != nil {
			d.logger.Error().
				Err(err).
				Str("sink", sink.Name()).
				Str("type", string(e.Type)).
				Int64("booking_id", e.BookingID).
				Msg("notification delivery failed")
			if d.metrics != nil {
				d.metrics.IncSent(sink.Name(), "error")
			}
			continue
		}
		d.logger.Debug().
			Str("sink", sink.Name()).
			Str("type", string(e.Type)).
			Int64("booking_id", e.BookingID).
			Msg("notification delivered")
		if d.metrics != nil {
			d.metrics.IncSent(sink.Name(), "ok")
		}
	}
}
