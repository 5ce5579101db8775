package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"meetroom/internal/access"
	"meetroom/internal/booking"
	"meetroom/internal/cache"
	"meetroom/internal/model"
	"meetroom/internal/store"
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	engine *booking.Engine
	db     *store.DB
	cal    *cache.Calendar
	logger zerolog.Logger
}

// NewHandler creates the handler set.
func NewHandler(engine *booking.Engine, db *store.DB, cal *cache.Calendar, logger zerolog.Logger) *Handler {
	return &Handler{engine: engine, db: db, cal: cal, logger: logger}
}

type recurrenceRequest struct {
	Kind    string `json:"kind"`
	EndDate string `json:"end_date"` // YYYY-MM-DD
}

type createBookingRequest struct {
	RoomID        int64              `json:"room_id" binding:"required"`
	Title         string             `json:"title" binding:"required"`
	Start         time.Time          `json:"start" binding:"required"`
	End           time.Time          `json:"end" binding:"required"`
	Participants  int                `json:"participants" binding:"required"`
	Chairman      string             `json:"chairman"`
	Department    string             `json:"department"`
	Description   string             `json:"description"`
	ExtraRequests string             `json:"extra_requests"`
	Notes         string             `json:"notes"`
	EquipmentIDs  []int64            `json:"equipment_ids"`
	Recurrence    *recurrenceRequest `json:"recurrence"`
}

func (r *createBookingRequest) rule() (model.RecurrenceRule, error) {
	if r.Recurrence == nil || r.Recurrence.Kind == "" || r.Recurrence.Kind == string(model.RecurrenceNone) {
		return model.RecurrenceRule{Kind: model.RecurrenceNone}, nil
	}
	end, err := time.ParseInLocation("2006-01-02", r.Recurrence.EndDate, r.Start.Location())
	if err != nil {
		return model.RecurrenceRule{}, err
	}
	return model.RecurrenceRule{Kind: model.RecurrenceKind(r.Recurrence.Kind), EndDate: end}, nil
}

// CreateBooking handles POST /api/v1/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule, err := req.rule()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurrence end date"})
		return
	}

	bookings, err := h.engine.Create(c.Request.Context(), actorFrom(c), booking.CreateInput{
		RoomID:        req.RoomID,
		Title:         req.Title,
		Start:         req.Start,
		End:           req.End,
		Participants:  req.Participants,
		Chairman:      req.Chairman,
		Department:    req.Department,
		Description:   req.Description,
		ExtraRequests: req.ExtraRequests,
		Notes:         req.Notes,
		EquipmentIDs:  req.EquipmentIDs,
		Recurrence:    rule,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cal.InvalidateRoom(c.Request.Context(), req.RoomID)
	c.JSON(http.StatusCreated, gin.H{"bookings": bookings, "series_id": bookings[0].SeriesID})
}

type editBookingRequest struct {
	Title         string    `json:"title" binding:"required"`
	Start         time.Time `json:"start" binding:"required"`
	End           time.Time `json:"end" binding:"required"`
	Participants  int       `json:"participants" binding:"required"`
	Chairman      string    `json:"chairman"`
	Department    string    `json:"department"`
	Description   string    `json:"description"`
	ExtraRequests string    `json:"extra_requests"`
	Notes         string    `json:"notes"`
	EquipmentIDs  []int64   `json:"equipment_ids"`
}

// EditBooking handles PATCH /api/v1/bookings/:id.
func (h *Handler) EditBooking(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var req editBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.engine.Edit(c.Request.Context(), actorFrom(c), id, booking.EditInput{
		Title:         req.Title,
		Start:         req.Start,
		End:           req.End,
		Participants:  req.Participants,
		Chairman:      req.Chairman,
		Department:    req.Department,
		Description:   req.Description,
		ExtraRequests: req.ExtraRequests,
		Notes:         req.Notes,
		EquipmentIDs:  req.EquipmentIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cal.InvalidateRoom(c.Request.Context(), b.RoomID)
	c.JSON(http.StatusOK, b)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *Handler) GetBooking(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	b, err := h.engine.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ApproveBooking handles POST /api/v1/bookings/:id/approve.
func (h *Handler) ApproveBooking(c *gin.Context) {
	h.transition(c, h.engine.Approve)
}

// RejectBooking handles POST /api/v1/bookings/:id/reject.
func (h *Handler) RejectBooking(c *gin.Context) {
	h.transition(c, h.engine.Reject)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *Handler) CancelBooking(c *gin.Context) {
	h.transition(c, h.engine.Cancel)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, actor access.Actor, id int64) (*model.Booking, error)) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	b, err := fn(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cal.InvalidateRoom(c.Request.Context(), b.RoomID)
	c.JSON(http.StatusOK, b)
}

// CancelSeries handles POST /api/v1/series/:id/cancel.
func (h *Handler) CancelSeries(c *gin.Context) {
	seriesID := c.Param("id")
	cancelled, err := h.engine.CancelSeries(c.Request.Context(), actorFrom(c), seriesID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, err
	}
	return id, nil
}
