package booking

import (
	"testing"

	"meetroom/internal/model"
)

func TestFSMTransitions(t *testing.T) {
	fsm := NewFSM()

	tests := []struct {
		name    string
		from    model.Status
		to      model.Status
		allowed bool
	}{
		{"pending to approved", model.StatusPending, model.StatusApproved, true},
		{"pending to rejected", model.StatusPending, model.StatusRejected, true},
		{"pending to cancelled", model.StatusPending, model.StatusCancelled, true},
		{"pending stays pending on edit", model.StatusPending, model.StatusPending, true},
		{"approved to cancelled", model.StatusApproved, model.StatusCancelled, true},
		{"approved stays approved on edit", model.StatusApproved, model.StatusApproved, true},
		{"approved demoted to pending", model.StatusApproved, model.StatusPending, true},
		{"approved to rejected", model.StatusApproved, model.StatusRejected, false},
		{"rejected to approved", model.StatusRejected, model.StatusApproved, false},
		{"rejected to pending", model.StatusRejected, model.StatusPending, false},
		{"rejected to cancelled", model.StatusRejected, model.StatusCancelled, false},
		{"cancelled to pending", model.StatusCancelled, model.StatusPending, false},
		{"cancelled to approved", model.StatusCancelled, model.StatusApproved, false},
		{"cancelled to cancelled", model.StatusCancelled, model.StatusCancelled, false},
		{"unknown source status", model.Status("draft"), model.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fsm.CanTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}
