// Package access resolves the capabilities of an acting user. The identity
// system in front of the engine supplies who the user is and whether they are
// a global admin; this package turns that plus the target room into one
// explicit capability set, computed once per request and passed down.
package access

import "meetroom/internal/model"

// Actor identifies the user performing an operation.
type Actor struct {
	UserID      int64
	DisplayName string
	IsAdmin     bool
}

// Capabilities is the resolved permission set for one actor against one room.
type Capabilities struct {
	IsAdmin    bool
	IsApprover bool
}

// CanDecide reports whether the actor may approve or reject pending bookings
// for the room the capabilities were resolved against.
func (c Capabilities) CanDecide() bool {
	return c.IsApprover
}

// ForRoom resolves capabilities for an actor against a room. The room's
// designated approver decides its bookings; a room with no approver routes to
// any global admin.
func ForRoom(actor Actor, room *model.Room) Capabilities {
	caps := Capabilities{IsAdmin: actor.IsAdmin}
	switch {
	case room == nil:
		caps.IsApprover = actor.IsAdmin
	case room.ApproverID != nil:
		caps.IsApprover = *room.ApproverID == actor.UserID
	default:
		caps.IsApprover = actor.IsAdmin
	}
	return caps
}

// OwnsBooking reports whether the actor owns the booking. Bookings whose
// owner was deleted belong to nobody.
func OwnsBooking(actor Actor, b *model.Booking) bool {
	return b.UserID != nil && *b.UserID == actor.UserID
}
