package model

import "time"

// Room represents a bookable meeting room.
type Room struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Location   string     `json:"location,omitempty"`
	Capacity   int        `json:"capacity"`
	ApproverID *int64     `json:"approver_id,omitempty"` // nil routes approvals to any global admin
	MaintStart *time.Time `json:"maint_start,omitempty"`
	MaintEnd   *time.Time `json:"maint_end,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// UnderMaintenance reports whether now falls within the maintenance window.
func (r *Room) UnderMaintenance(now time.Time) bool {
	if r.MaintStart == nil || r.MaintEnd == nil {
		return false
	}
	return !now.Before(*r.MaintStart) && now.Before(*r.MaintEnd)
}
