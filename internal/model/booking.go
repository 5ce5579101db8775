package model

import "time"

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// IsActive reports whether the booking participates in the room overlap
// invariant. Rejected and cancelled bookings free their slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// Booking represents a single occurrence of a room reservation.
type Booking struct {
	ID            int64     `json:"id"`
	UserID        *int64    `json:"user_id,omitempty"` // nullable: user deletion keeps the booking
	UserName      string    `json:"user_name,omitempty"`
	RoomID        int64     `json:"room_id"`
	RoomName      string    `json:"room_name,omitempty"`
	SeriesID      string    `json:"series_id"` // shared by all occurrences of one creation call
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Participants  int       `json:"participants"`
	Chairman      string    `json:"chairman,omitempty"`
	Department    string    `json:"department,omitempty"`
	Description   string    `json:"description,omitempty"`
	ExtraRequests string    `json:"extra_requests,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Status        Status    `json:"status"`
	Notified      bool      `json:"notified"`
	Equipment     []Equipment `json:"equipment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Duration returns the booked span.
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// IsPast reports whether the booking ended before now.
func (b *Booking) IsPast(now time.Time) bool {
	return !b.EndTime.After(now)
}

// OverlapsWith checks half-open [start, end) overlap with another booking.
// Touching endpoints do not overlap.
func (b *Booking) OverlapsWith(other *Booking) bool {
	return b.StartTime.Before(other.EndTime) && other.StartTime.Before(b.EndTime)
}

// OverlapsRange checks half-open overlap against a raw time range.
func (b *Booking) OverlapsRange(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}

// EquipmentNames returns the attached equipment names in order.
func (b *Booking) EquipmentNames() []string {
	if len(b.Equipment) == 0 {
		return nil
	}
	names := make([]string, len(b.Equipment))
	for i, e := range b.Equipment {
		names[i] = e.Name
	}
	return names
}
