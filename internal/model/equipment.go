package model

// Equipment represents bookable meeting equipment (projector, whiteboard, ...).
// Attached to bookings via a many-to-many link.
type Equipment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
