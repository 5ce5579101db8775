package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"meetroom/internal/model"
)

func TestForRoom(t *testing.T) {
	admin := Actor{UserID: 1, IsAdmin: true}
	approver := Actor{UserID: 2}
	regular := Actor{UserID: 3}
	approverID := int64(2)

	tests := []struct {
		name       string
		actor      Actor
		room       *model.Room
		canDecide  bool
	}{
		{"admin on room without approver", admin, &model.Room{}, true},
		{"regular on room without approver", regular, &model.Room{}, false},
		{"designated approver", approver, &model.Room{ApproverID: &approverID}, true},
		{"admin bypassed by designated approver", admin, &model.Room{ApproverID: &approverID}, false},
		{"regular on room with approver", regular, &model.Room{ApproverID: &approverID}, false},
		{"admin with nil room", admin, nil, true},
		{"regular with nil room", regular, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canDecide, ForRoom(tt.actor, tt.room).CanDecide())
		})
	}
}

func TestOwnsBooking(t *testing.T) {
	owner := int64(7)

	assert.True(t, OwnsBooking(Actor{UserID: 7}, &model.Booking{UserID: &owner}))
	assert.False(t, OwnsBooking(Actor{UserID: 8}, &model.Booking{UserID: &owner}))
	assert.False(t, OwnsBooking(Actor{UserID: 7}, &model.Booking{}), "orphaned bookings belong to nobody")
}
