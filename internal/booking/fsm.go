// Package booking owns the reservation lifecycle: the status state machine
// and the engine that creates, edits and transitions bookings.
package booking

import "meetroom/internal/model"

// FSM manages legal booking status transitions.
type FSM struct {
	transitions map[model.Status][]model.Status
}

// NewFSM creates the lifecycle state machine. Pending bookings await an
// approver decision; approved bookings can still be edited in place or
// cancelled. Rejected and cancelled are terminal.
func NewFSM() *FSM {
	return &FSM{
		transitions: map[model.Status][]model.Status{
			model.StatusPending: {
				model.StatusApproved,
				model.StatusRejected,
				model.StatusCancelled,
				model.StatusPending, // edit keeping the pending status
			},
			model.StatusApproved: {
				model.StatusCancelled,
				model.StatusApproved, // edit keeping the approved status
				model.StatusPending,  // edit demoted by the approval policy
			},
			model.StatusRejected:  {},
			model.StatusCancelled: {},
		},
	}
}

// CanTransition checks if a transition is allowed.
func (f *FSM) CanTransition(from, to model.Status) bool {
	allowed, ok := f.transitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
