package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"meetroom/internal/access"
	"meetroom/internal/metrics"
	"meetroom/internal/model"
	"meetroom/internal/notify"
	"meetroom/internal/policy"
	"meetroom/internal/recur"
	"meetroom/internal/store"
)

// Dispatcher receives lifecycle events. Delivery is fire-and-forget; the
// engine never waits on it.
type Dispatcher interface {
	Dispatch(e notify.Event)
}

// Engine implements the reservation lifecycle: creation with recurrence
// expansion and conflict detection, edits, and approver transitions.
type Engine struct {
	db         *store.DB
	dispatcher Dispatcher
	fsm        *FSM
	now        func() time.Time
	logger     zerolog.Logger
}

// NewEngine creates the booking engine.
func NewEngine(db *store.DB, dispatcher Dispatcher, logger zerolog.Logger) *Engine {
	return &Engine{
		db:         db,
		dispatcher: dispatcher,
		fsm:        NewFSM(),
		now:        time.Now,
		logger:     logger.With().Str("component", "booking").Logger(),
	}
}

// CreateInput carries a booking creation request.
type CreateInput struct {
	RoomID        int64
	Title         string
	Start         time.Time
	End           time.Time
	Participants  int
	Chairman      string
	Department    string
	Description   string
	ExtraRequests string
	Notes         string
	EquipmentIDs  []int64
	Recurrence    model.RecurrenceRule
}

// EditInput carries an edit of an existing booking's time or content.
type EditInput struct {
	Title         string
	Start         time.Time
	End           time.Time
	Participants  int
	Chairman      string
	Department    string
	Description   string
	ExtraRequests string
	Notes         string
	EquipmentIDs  []int64
}

// Create expands the request into occurrences, checks every occurrence for
// overlap inside one write transaction and persists all of them or none.
// The initial status comes from the approval policy; the capacity check fires
// before the policy decision. One creation event is emitted for the first
// occurrence after commit.
func (e *Engine) Create(ctx context.Context, actor access.Actor, in CreateInput) ([]model.Booking, error) {
	now := e.now()
	if err := e.validateRange(in.Start, in.End, now, actor.IsAdmin); err != nil {
		return nil, err
	}
	if in.Participants < 1 {
		return nil, &InvalidParticipantsError{Participants: in.Participants}
	}

	room, err := e.db.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	if room.UnderMaintenance(now) {
		merr := &MaintenanceError{RoomID: room.ID}
		if room.MaintEnd != nil {
			merr.Until = *room.MaintEnd
		}
		return nil, merr
	}
	if in.Participants > room.Capacity {
		return nil, &CapacityError{Participants: in.Participants, Capacity: room.Capacity}
	}

	equipment, err := e.db.GetEquipmentByIDs(ctx, in.EquipmentIDs)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}

	occurrences, err := recur.Expand(in.Start, in.End, in.Recurrence)
	if err != nil {
		if errors.Is(err, recur.ErrInvalidDuration) {
			return nil, &InvalidTimeRangeError{Reason: "end must be after start"}
		}
		return nil, err
	}
	if len(occurrences) == 0 {
		return nil, &InvalidTimeRangeError{Reason: "recurrence end date precedes the first occurrence"}
	}

	status := policy.DecideInitialStatus(in.Participants, in.ExtraRequests, in.Notes, len(equipment) > 0)
	seriesID := uuid.NewString()
	userID := actor.UserID

	var bookings []model.Booking
	err = e.db.WithTx(ctx, func(tx *sql.Tx) error {
		var conflicts []time.Time
		for i, occ := range occurrences {
			overlap, err := e.db.HasConflictTx(ctx, tx, room.ID, occ.Start, occ.End, 0)
			if err != nil {
				return err
			}
			// An occurrence can also collide with an earlier sibling of the
			// same batch, e.g. a weekly series whose duration exceeds a week.
			if !overlap {
				for _, prev := range occurrences[:i] {
					if prev.Start.Before(occ.End) && occ.Start.Before(prev.End) {
						overlap = true
						break
					}
				}
			}
			if overlap {
				conflicts = append(conflicts, occ.Start)
			}
		}
		if len(conflicts) > 0 {
			return &ConflictError{Times: conflicts}
		}

		for _, occ := range occurrences {
			b := model.Booking{
				UserID:        &userID,
				UserName:      actor.DisplayName,
				RoomID:        room.ID,
				RoomName:      room.Name,
				SeriesID:      seriesID,
				Title:         in.Title,
				StartTime:     occ.Start,
				EndTime:       occ.End,
				Participants:  in.Participants,
				Chairman:      in.Chairman,
				Department:    in.Department,
				Description:   in.Description,
				ExtraRequests: in.ExtraRequests,
				Notes:         in.Notes,
				Status:        status,
				Equipment:     equipment,
			}
			if err := e.db.InsertBookingTx(ctx, tx, &b); err != nil {
				return err
			}
			bookings = append(bookings, b)
		}
		return nil
	})
	if err != nil {
		var conflictErr *ConflictError
		if errors.As(err, &conflictErr) {
			metrics.IncConflictRejected()
			return nil, err
		}
		return nil, e.mapWriteErr(err)
	}

	metrics.IncBookingCreated(string(status))
	e.dispatcher.Dispatch(notify.BookingCreated(&bookings[0]))
	e.logger.Info().
		Int64("room_id", room.ID).
		Str("series_id", seriesID).
		Int("occurrences", len(bookings)).
		Str("status", string(status)).
		Msg("booking created")
	return bookings, nil
}

// Edit updates a booking's time or content under the same transaction
// discipline as creation, excluding the booking itself from the overlap check.
// The approval policy re-decides the status but only ever demotes: an edit
// that fails the auto-approve criteria moves the booking to pending, an edit
// that starts meeting them leaves the status alone.
func (e *Engine) Edit(ctx context.Context, actor access.Actor, bookingID int64, in EditInput) (*model.Booking, error) {
	now := e.now()
	b, err := e.db.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	if b.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	if !actor.IsAdmin {
		if !access.OwnsBooking(actor, b) {
			return nil, ErrPermissionDenied
		}
		if b.IsPast(now) {
			return nil, ErrPermissionDenied
		}
	}
	if err := e.validateRange(in.Start, in.End, now, actor.IsAdmin); err != nil {
		return nil, err
	}
	if in.Participants < 1 {
		return nil, &InvalidParticipantsError{Participants: in.Participants}
	}

	room, err := e.db.GetRoom(ctx, b.RoomID)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	if in.Participants > room.Capacity {
		return nil, &CapacityError{Participants: in.Participants, Capacity: room.Capacity}
	}

	equipment, err := e.db.GetEquipmentByIDs(ctx, in.EquipmentIDs)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}

	oldStatus := b.Status
	newStatus := policy.Redecide(b.Status, in.Participants, in.ExtraRequests, in.Notes, len(equipment) > 0)
	if !e.fsm.CanTransition(oldStatus, newStatus) {
		return nil, ErrInvalidTransition
	}

	err = e.db.WithTx(ctx, func(tx *sql.Tx) error {
		overlap, err := e.db.HasConflictTx(ctx, tx, b.RoomID, in.Start, in.End, b.ID)
		if err != nil {
			return err
		}
		if overlap {
			return &ConflictError{Times: []time.Time{in.Start}}
		}

		b.Title = in.Title
		b.StartTime = in.Start
		b.EndTime = in.End
		b.Participants = in.Participants
		b.Chairman = in.Chairman
		b.Department = in.Department
		b.Description = in.Description
		b.ExtraRequests = in.ExtraRequests
		b.Notes = in.Notes
		b.Status = newStatus
		b.Equipment = equipment
		return e.db.UpdateBookingTx(ctx, tx, b)
	})
	if err != nil {
		var conflictErr *ConflictError
		if errors.As(err, &conflictErr) {
			metrics.IncConflictRejected()
			return nil, err
		}
		return nil, e.mapWriteErr(err)
	}

	if newStatus != oldStatus {
		e.dispatcher.Dispatch(notify.StatusChanged(b, oldStatus, newStatus))
	}
	e.logger.Info().
		Int64("booking_id", b.ID).
		Str("status", string(newStatus)).
		Msg("booking edited")
	return b, nil
}

// Approve moves a pending booking to approved. Only the room's designated
// approver may decide; a room without one routes to any global admin.
func (e *Engine) Approve(ctx context.Context, actor access.Actor, bookingID int64) (*model.Booking, error) {
	return e.decide(ctx, actor, bookingID, model.StatusApproved)
}

// Reject moves a pending booking to rejected under the same guard as Approve.
func (e *Engine) Reject(ctx context.Context, actor access.Actor, bookingID int64) (*model.Booking, error) {
	return e.decide(ctx, actor, bookingID, model.StatusRejected)
}

func (e *Engine) decide(ctx context.Context, actor access.Actor, bookingID int64, to model.Status) (*model.Booking, error) {
	b, err := e.db.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	room, err := e.db.GetRoom(ctx, b.RoomID)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	if !access.ForRoom(actor, room).CanDecide() {
		return nil, ErrPermissionDenied
	}
	if b.Status != model.StatusPending {
		return nil, ErrInvalidTransition
	}

	old := b.Status
	// Guarded so a concurrent decision cannot double-apply: the loser of the
	// race changes nothing and sees an invalid transition.
	changed, err := e.db.UpdateBookingStatusIf(ctx, b.ID, to, model.StatusPending)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	if !changed {
		return nil, ErrInvalidTransition
	}
	b.Status = to

	metrics.IncDecision(string(to))
	e.dispatcher.Dispatch(notify.StatusChanged(b, old, to))
	e.logger.Info().
		Int64("booking_id", b.ID).
		Int64("actor_id", actor.UserID).
		Str("decision", string(to)).
		Msg("approver decision")
	return b, nil
}

// Cancel moves an active booking to cancelled. The owner may cancel their own
// booking before it ends; admins may cancel anything.
func (e *Engine) Cancel(ctx context.Context, actor access.Actor, bookingID int64) (*model.Booking, error) {
	b, err := e.db.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	if err := e.cancelGuard(actor, b); err != nil {
		return nil, err
	}

	old := b.Status
	changed, err := e.db.UpdateBookingStatusIf(ctx, b.ID, model.StatusCancelled,
		model.StatusPending, model.StatusApproved)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	if !changed {
		return nil, ErrInvalidTransition
	}
	b.Status = model.StatusCancelled

	metrics.IncBookingCancelled()
	e.dispatcher.Dispatch(notify.StatusChanged(b, old, model.StatusCancelled))
	e.logger.Info().
		Int64("booking_id", b.ID).
		Int64("actor_id", actor.UserID).
		Msg("booking cancelled")
	return b, nil
}

// CancelSeries cancels every remaining active occurrence of a recurring batch
// under the cancel guard, emitting one event per occurrence. Returns how many
// occurrences were cancelled.
func (e *Engine) CancelSeries(ctx context.Context, actor access.Actor, seriesID string) (int, error) {
	bookings, err := e.db.ListSeriesActive(ctx, seriesID)
	if err != nil {
		return 0, err
	}
	if len(bookings) == 0 {
		return 0, ErrNotFound
	}

	cancelled := 0
	for i := range bookings {
		b := &bookings[i]
		if err := e.cancelGuard(actor, b); err != nil {
			return cancelled, err
		}
		old := b.Status
		changed, err := e.db.UpdateBookingStatusIf(ctx, b.ID, model.StatusCancelled,
			model.StatusPending, model.StatusApproved)
		if err != nil {
			return cancelled, e.mapStoreErr(err)
		}
		if !changed {
			// Raced by a concurrent decision or cancellation; nothing to emit.
			continue
		}
		b.Status = model.StatusCancelled
		metrics.IncBookingCancelled()
		e.dispatcher.Dispatch(notify.StatusChanged(b, old, model.StatusCancelled))
		cancelled++
	}
	e.logger.Info().
		Str("series_id", seriesID).
		Int("cancelled", cancelled).
		Msg("series cancelled")
	return cancelled, nil
}

// Get returns a booking by id.
func (e *Engine) Get(ctx context.Context, bookingID int64) (*model.Booking, error) {
	b, err := e.db.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}
	return b, nil
}

func (e *Engine) cancelGuard(actor access.Actor, b *model.Booking) error {
	if !b.Status.IsActive() {
		return ErrInvalidTransition
	}
	if actor.IsAdmin {
		return nil
	}
	if !access.OwnsBooking(actor, b) {
		return ErrPermissionDenied
	}
	if b.IsPast(e.now()) {
		return ErrPermissionDenied
	}
	return nil
}

func (e *Engine) validateRange(start, end time.Time, now time.Time, isAdmin bool) error {
	if !end.After(start) {
		return &InvalidTimeRangeError{Reason: "end must be after start"}
	}
	if start.Before(now) && !isAdmin {
		return &InvalidTimeRangeError{Reason: "start is in the past"}
	}
	return nil
}

func (e *Engine) mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// mapWriteErr translates database-level failures inside the booking
// transaction. A busy database or a constraint violation means a concurrent
// writer won the slot; callers see it as a conflict and may retry.
func (e *Engine) mapWriteErr(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrConstraint:
			metrics.IncConflictRejected()
			return &ConflictError{}
		}
	}
	return err
}
