package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when the referenced room or booking does not exist.
	ErrNotFound = errors.New("booking: not found")
	// ErrPermissionDenied is returned when the actor lacks the role a
	// transition requires, or edits/cancels a past booking as non-admin.
	ErrPermissionDenied = errors.New("booking: permission denied")
	// ErrInvalidTransition is returned when the requested status change is not
	// a legal transition from the booking's current state.
	ErrInvalidTransition = errors.New("booking: invalid status transition")
)

// InvalidTimeRangeError reports a rejected time range (end before start, or a
// start in the past for a non-admin creator).
type InvalidTimeRangeError struct {
	Reason string
}

func (e *InvalidTimeRangeError) Error() string {
	return "invalid time range: " + e.Reason
}

// InvalidParticipantsError reports a participant count below one.
type InvalidParticipantsError struct {
	Participants int
}

func (e *InvalidParticipantsError) Error() string {
	return fmt.Sprintf("participants must be at least 1, got %d", e.Participants)
}

// CapacityError reports an attendee count exceeding the room capacity.
type CapacityError struct {
	Participants int
	Capacity     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%d participants exceed room capacity %d", e.Participants, e.Capacity)
}

// ConflictError reports occurrences that overlap existing active bookings.
// Times holds the start of every conflicting occurrence for display.
type ConflictError struct {
	Times []time.Time
}

func (e *ConflictError) Error() string {
	if len(e.Times) == 0 {
		return "booking conflicts with an existing reservation"
	}
	parts := make([]string, len(e.Times))
	for i, t := range e.Times {
		parts[i] = t.Format("2006-01-02 15:04")
	}
	return "booking conflicts with existing reservations at: " + strings.Join(parts, ", ")
}

// MaintenanceError reports an attempt to book a room during its maintenance
// window.
type MaintenanceError struct {
	RoomID int64
	Until  time.Time
}

func (e *MaintenanceError) Error() string {
	if e.Until.IsZero() {
		return fmt.Sprintf("room %d is under maintenance", e.RoomID)
	}
	return fmt.Sprintf("room %d is under maintenance until %s", e.RoomID, e.Until.Format("2006-01-02 15:04"))
}
