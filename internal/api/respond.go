package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meetroom/internal/booking"
	"meetroom/internal/store"
)

// respondError maps engine errors to HTTP statuses with a human-readable
// reason. Everything the engine returns is user-facing; only unknown errors
// become a 500.
func respondError(c *gin.Context, err error) {
	var (
		invalidRange *booking.InvalidTimeRangeError
		participants *booking.InvalidParticipantsError
		capacity     *booking.CapacityError
		conflict     *booking.ConflictError
		maintenance  *booking.MaintenanceError
	)

	switch {
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, booking.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
	case errors.As(err, &conflict):
		times := make([]string, len(conflict.Times))
		for i, t := range conflict.Times {
			times[i] = t.Format(time.RFC3339)
		}
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "conflicts": times})
	case errors.As(err, &capacity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": capacity.Error()})
	case errors.As(err, &invalidRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalidRange.Error()})
	case errors.As(err, &participants):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": participants.Error()})
	case errors.As(err, &maintenance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": maintenance.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
