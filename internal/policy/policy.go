// Package policy decides whether a booking is auto-approved or routed to an
// approver.
package policy

import (
	"strings"

	"meetroom/internal/model"
)

// PendingParticipantThreshold is the attendee count at which a booking always
// requires approval.
const PendingParticipantThreshold = 15

// DecideInitialStatus returns the initial status for a new booking. Small,
// simple meetings are auto-approved; anything with a large attendee count,
// free-text requests or notes, or equipment needs waits for an approver.
func DecideInitialStatus(participants int, extraRequests, notes string, hasEquipment bool) model.Status {
	if participants >= PendingParticipantThreshold {
		return model.StatusPending
	}
	if strings.TrimSpace(extraRequests) != "" {
		return model.StatusPending
	}
	if strings.TrimSpace(notes) != "" {
		return model.StatusPending
	}
	if hasEquipment {
		return model.StatusPending
	}
	return model.StatusApproved
}

// Redecide applies the policy to an edited booking. The policy is asymmetric:
// an edit that fails the auto-approve criteria demotes the booking to pending,
// but an edit that starts meeting them never promotes a pending booking back
// to approved.
func Redecide(current model.Status, participants int, extraRequests, notes string, hasEquipment bool) model.Status {
	if DecideInitialStatus(participants, extraRequests, notes, hasEquipment) == model.StatusPending {
		return model.StatusPending
	}
	return current
}
