package model

import "time"

// User represents an account known to the reservation engine. Identity and
// sessions live in the surrounding system; only the attributes the engine
// needs are mirrored here.
type User struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
