package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 6, 1, hour, min, 0, 0, time.UTC)
}

func TestStatusIsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusApproved.IsActive())
	assert.False(t, StatusRejected.IsActive())
	assert.False(t, StatusCancelled.IsActive())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestBookingOverlapsWith(t *testing.T) {
	base := &Booking{StartTime: at(9, 0), EndTime: at(10, 0)}

	tests := []struct {
		name  string
		other *Booking
		want  bool
	}{
		{"contained", &Booking{StartTime: at(9, 30), EndTime: at(9, 45)}, true},
		{"overlaps start", &Booking{StartTime: at(8, 30), EndTime: at(9, 30)}, true},
		{"overlaps end", &Booking{StartTime: at(9, 30), EndTime: at(10, 30)}, true},
		{"covers base", &Booking{StartTime: at(8, 0), EndTime: at(11, 0)}, true},
		{"identical", &Booking{StartTime: at(9, 0), EndTime: at(10, 0)}, true},
		{"touching before", &Booking{StartTime: at(8, 0), EndTime: at(9, 0)}, false},
		{"touching after", &Booking{StartTime: at(10, 0), EndTime: at(11, 0)}, false},
		{"disjoint", &Booking{StartTime: at(12, 0), EndTime: at(13, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.OverlapsWith(tt.other))
			assert.Equal(t, tt.want, tt.other.OverlapsWith(base), "overlap must be symmetric")
		})
	}
}

func TestBookingOverlapsRange(t *testing.T) {
	b := &Booking{StartTime: at(9, 0), EndTime: at(10, 0)}

	assert.True(t, b.OverlapsRange(at(9, 30), at(9, 45)))
	assert.False(t, b.OverlapsRange(at(10, 0), at(11, 0)))
	assert.False(t, b.OverlapsRange(at(8, 0), at(9, 0)))
}

func TestBookingIsPast(t *testing.T) {
	b := &Booking{StartTime: at(9, 0), EndTime: at(10, 0)}

	assert.False(t, b.IsPast(at(9, 30)))
	assert.True(t, b.IsPast(at(10, 0))) // ended exactly now counts as past
	assert.True(t, b.IsPast(at(11, 0)))
}

func TestRoomUnderMaintenance(t *testing.T) {
	start, end := at(9, 0), at(17, 0)
	room := &Room{MaintStart: &start, MaintEnd: &end}

	assert.True(t, room.UnderMaintenance(at(12, 0)))
	assert.False(t, room.UnderMaintenance(at(8, 0)))
	assert.False(t, room.UnderMaintenance(at(17, 0)))

	open := &Room{}
	assert.False(t, open.UnderMaintenance(at(12, 0)))
}

func TestEquipmentNames(t *testing.T) {
	b := &Booking{Equipment: []Equipment{{Name: "projector"}, {Name: "whiteboard"}}}
	assert.Equal(t, []string{"projector", "whiteboard"}, b.EquipmentNames())

	assert.Nil(t, (&Booking{}).EquipmentNames())
}
