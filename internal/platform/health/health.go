package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hotel-booking/service-booking/internal/platform/database"
)

// Handler serves liveness and database connectivity checks.
type Handler struct {
	db      *gorm.DB
	service string
}

// NewHandler creates a health Handler.
func NewHandler(db *gorm.DB, service string) *Handler {
	return &Handler{db: db, service: service}
}

// RegisterRoutes registers /health.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
}

// Health reports whether the database answers a ping.
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{
		"service": h.service,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}
	if err := database.Ping(h.db); err != nil {
		body["status"] = "unhealthy"
		body["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "healthy"
	body["database"] = "connected"
	c.JSON(http.StatusOK, body)
}
