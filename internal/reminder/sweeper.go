// Package reminder runs the out-of-band reminder sweep: approved bookings
// starting soon get one reminder notification, de-duplicated through the
// booking's notified flag.
package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"meetroom/internal/model"
	"meetroom/internal/notify"
)

// BookingSource lists upcoming unnotified bookings and marks them notified.
type BookingSource interface {
	ListUnnotifiedUpcoming(ctx context.Context, now time.Time, within time.Duration) ([]model.Booking, error)
	MarkNotified(ctx context.Context, id int64) error
}

// Dispatcher receives the reminder events.
type Dispatcher interface {
	Dispatch(e notify.Event)
}

// Config holds sweep tuning.
type Config struct {
	// Schedule is a cron expression; defaults to every five minutes.
	Schedule string
	// Window is how far ahead of the start time reminders fire.
	Window time.Duration
}

// DefaultConfig returns the default sweep configuration.
func DefaultConfig() Config {
	return Config{
		Schedule: "*/5 * * * *",
		Window:   24 * time.Hour,
	}
}

// Sweeper periodically scans for upcoming bookings needing a reminder.
type Sweeper struct {
	cfg        Config
	source     BookingSource
	dispatcher Dispatcher
	logger     zerolog.Logger
	cron       *cron.Cron
	now        func() time.Time
}

// NewSweeper creates a sweeper.
func NewSweeper(cfg Config, source BookingSource, dispatcher Dispatcher, logger zerolog.Logger) *Sweeper {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultConfig().Schedule
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	return &Sweeper{
		cfg:        cfg,
		source:     source,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "reminder").Logger(),
		now:        time.Now,
	}
}

// Start schedules the sweep and blocks until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() { s.Sweep(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", s.cfg.Schedule).Dur("window", s.cfg.Window).Msg("reminder sweeper started")

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("reminder sweeper stopped")
	return nil
}

// Sweep runs one pass immediately. Also the cron entry point.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()
	bookings, err := s.source.ListUnnotifiedUpcoming(ctx, now, s.cfg.Window)
	if err != nil {
		s.logger.Error().Err(err).Msg("reminder sweep query failed")
		return
	}
	if len(bookings) == 0 {
		return
	}

	sent := 0
	for i := range bookings {
		b := &bookings[i]
		// Mark first so a crash sends no duplicate; a lost reminder is the
		// cheaper failure.
		if err := s.source.MarkNotified(ctx, b.ID); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", b.ID).Msg("mark notified failed")
			continue
		}
		s.dispatcher.Dispatch(notify.Reminder(b))
		sent++
	}
	s.logger.Info().Int("found", len(bookings)).Int("sent", sent).Msg("reminder sweep complete")
}
