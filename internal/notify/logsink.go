package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink writes booking events to the structured log. Always configured; it
// doubles as the delivery record when no external sink is set up.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "notify.log").Logger()}
}

// Name implements Sink.
func (s *LogSink) Name() string { return "log" }

// Send implements Sink.
func (s *LogSink) Send(_ context.Context, e Event) error {
	s.logger.Info().
		Str("type", string(e.Type)).
		Int64("booking_id", e.BookingID).
		Str("room", e.Room).
		Str("title", e.Title).
		Time("start", e.Start).
		Time("end", e.End).
		Str("requester", e.Requester).
		Str("equipment", e.EquipmentLabel()).
		Str("status", e.Status).
		Str("old_status", e.OldStatus).
		Msg("booking event")
	return nil
}
