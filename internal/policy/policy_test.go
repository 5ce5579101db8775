package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"meetroom/internal/model"
)

func TestDecideInitialStatus(t *testing.T) {
	tests := []struct {
		name          string
		participants  int
		extraRequests string
		notes         string
		hasEquipment  bool
		want          model.Status
	}{
		{"small plain meeting", 5, "", "", false, model.StatusApproved},
		{"just below threshold", 14, "", "", false, model.StatusApproved},
		{"at threshold", 15, "", "", false, model.StatusPending},
		{"above threshold", 20, "", "", false, model.StatusPending},
		{"extra requests", 3, "need catering", "", false, model.StatusPending},
		{"notes", 3, "", "quarterly review", false, model.StatusPending},
		{"whitespace only requests", 3, "   ", "", false, model.StatusApproved},
		{"equipment", 3, "", "", true, model.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideInitialStatus(tt.participants, tt.extraRequests, tt.notes, tt.hasEquipment)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideInitialStatus_Deterministic(t *testing.T) {
	first := DecideInitialStatus(5, "", "", false)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DecideInitialStatus(5, "", "", false))
	}
}

func TestRedecide_DemotesButNeverPromotes(t *testing.T) {
	// An edit that fails auto-approval demotes an approved booking.
	assert.Equal(t, model.StatusPending, Redecide(model.StatusApproved, 20, "", "", false))
	assert.Equal(t, model.StatusPending, Redecide(model.StatusApproved, 3, "", "", true))

	// An edit that would auto-approve does not promote a pending booking.
	assert.Equal(t, model.StatusPending, Redecide(model.StatusPending, 3, "", "", false))

	// An approved booking whose edit still qualifies stays approved.
	assert.Equal(t, model.StatusApproved, Redecide(model.StatusApproved, 3, "", "", false))
}
