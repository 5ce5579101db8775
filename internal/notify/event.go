// Package notify fans booking lifecycle events out to configured sinks.
// Delivery is best-effort: a failed sink is logged and counted, never
// propagated back into the booking transaction.
package notify

import (
	"strings"
	"time"

	"meetroom/internal/model"
)

// EventType identifies what happened to a booking.
type EventType string

const (
	EventBookingCreated EventType = "booking_created"
	EventStatusChanged  EventType = "status_changed"
	EventReminder       EventType = "reminder"
)

// Event carries everything a sink needs to render a notification.
type Event struct {
	Type      EventType
	BookingID int64
	SeriesID  string
	Room      string
	Title     string
	Start     time.Time
	End       time.Time
	Requester string
	Equipment []string
	Notes     string
	Status    string
	OldStatus string
}

// BookingCreated builds the creation event. For a recurring batch this is
// fired once, for the first occurrence only.
func BookingCreated(b *model.Booking) Event {
	e := fromBooking(b)
	e.Type = EventBookingCreated
	return e
}

// StatusChanged builds the transition event carrying both statuses.
func StatusChanged(b *model.Booking, old, new model.Status) Event {
	e := fromBooking(b)
	e.Type = EventStatusChanged
	e.OldStatus = string(old)
	e.Status = string(new)
	return e
}

// Reminder builds the upcoming-booking reminder event.
func Reminder(b *model.Booking) Event {
	e := fromBooking(b)
	e.Type = EventReminder
	return e
}

func fromBooking(b *model.Booking) Event {
	requester := b.UserName
	if requester == "" {
		requester = "unknown"
	}
	return Event{
		BookingID: b.ID,
		SeriesID:  b.SeriesID,
		Room:      b.RoomName,
		Title:     b.Title,
		Start:     b.StartTime,
		End:       b.EndTime,
		Requester: requester,
		Equipment: b.EquipmentNames(),
		Notes:     b.Notes,
		Status:    string(b.Status),
	}
}

// EquipmentLabel renders the equipment list, or "none".
func (e Event) EquipmentLabel() string {
	if len(e.Equipment) == 0 {
		return "none"
	}
	return strings.Join(e.Equipment, ", ")
}

// NotesLabel renders the notes, or "none".
func (e Event) NotesLabel() string {
	if strings.TrimSpace(e.Notes) == "" {
		return "none"
	}
	return e.Notes
}
