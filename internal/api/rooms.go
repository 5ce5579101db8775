package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meetroom/internal/model"
	"meetroom/internal/store"
)

type createRoomRequest struct {
	Name       string     `json:"name" binding:"required"`
	Location   string     `json:"location"`
	Capacity   int        `json:"capacity" binding:"required,min=1"`
	ApproverID *int64     `json:"approver_id"`
	MaintStart *time.Time `json:"maint_start"`
	MaintEnd   *time.Time `json:"maint_end"`
}

// CreateRoom handles POST /api/v1/rooms. Admin only.
func (h *Handler) CreateRoom(c *gin.Context) {
	if !actorFrom(c).IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := model.Room{
		Name:       req.Name,
		Location:   req.Location,
		Capacity:   req.Capacity,
		ApproverID: req.ApproverID,
		MaintStart: req.MaintStart,
		MaintEnd:   req.MaintEnd,
	}
	if err := h.db.CreateRoom(c.Request.Context(), &room); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /api/v1/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.db.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// RoomCalendar handles GET /api/v1/rooms/:id/calendar?from=&to=. The read is
// unlocked and may be served from the cache, eventually consistent with
// in-flight writes.
func (h *Handler) RoomCalendar(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	from, to, ok := calendarRange(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var bookings []model.Booking
	if h.cal.Get(ctx, id, from, to, &bookings) {
		c.JSON(http.StatusOK, gin.H{"bookings": bookings, "cached": true})
		return
	}

	bookings, err = h.db.ListRoomBookings(ctx, id, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cal.Set(ctx, id, from, to, bookings)
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListEquipment handles GET /api/v1/equipment.
func (h *Handler) ListEquipment(c *gin.Context) {
	items, err := h.db.ListEquipment(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": items})
}

// PutSubscription handles PUT /api/v1/subscriptions.
func (h *Handler) PutSubscription(c *gin.Context) {
	var sub store.PushSubscription
	if err := c.ShouldBindJSON(&sub); err != nil || sub.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription"})
		return
	}
	if err := h.db.SavePushSubscription(c.Request.Context(), &sub); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSubscription handles DELETE /api/v1/subscriptions?endpoint=.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing endpoint"})
		return
	}
	if err := h.db.DeletePushSubscription(c.Request.Context(), endpoint); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func calendarRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil || !to.After(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
