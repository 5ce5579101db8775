// Package api exposes the reservation engine over HTTP. The surrounding
// identity system authenticates requests and forwards the acting user in
// headers; this surface only resolves capabilities and maps engine errors.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"meetroom/internal/booking"
	"meetroom/internal/cache"
	"meetroom/internal/store"
)

// NewRouter wires the HTTP routes.
func NewRouter(engine *booking.Engine, db *store.DB, cal *cache.Calendar, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())

	h := NewHandler(engine, db, cal, logger)

	v1 := r.Group("/api/v1")
	v1.Use(Identity())
	{
		v1.POST("/bookings", h.CreateBooking)
		v1.GET("/bookings/:id", h.GetBooking)
		v1.PATCH("/bookings/:id", h.EditBooking)
		v1.POST("/bookings/:id/approve", h.ApproveBooking)
		v1.POST("/bookings/:id/reject", h.RejectBooking)
		v1.POST("/bookings/:id/cancel", h.CancelBooking)
		v1.POST("/series/:id/cancel", h.CancelSeries)

		v1.GET("/rooms", h.ListRooms)
		v1.POST("/rooms", h.CreateRoom)
		v1.GET("/rooms/:id/calendar", h.RoomCalendar)

		v1.GET("/equipment", h.ListEquipment)

		v1.PUT("/subscriptions", h.PutSubscription)
		v1.DELETE("/subscriptions", h.DeleteSubscription)
	}

	return r
}
