package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"meetroom/internal/access"
)

const actorKey = "actor"

// Identity reads the acting user from the headers set by the identity system
// in front of this service: X-User-ID, X-User-Name and X-User-Admin.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.GetHeader("X-User-ID")
		if idStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			return
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-User-ID header"})
			return
		}
		isAdmin, _ := strconv.ParseBool(c.GetHeader("X-User-Admin"))

		c.Set(actorKey, access.Actor{
			UserID:      id,
			DisplayName: c.GetHeader("X-User-Name"),
			IsAdmin:     isAdmin,
		})
		c.Next()
	}
}

func actorFrom(c *gin.Context) access.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(access.Actor)
	return actor
}

// RequestLogger logs each request through zerolog.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
