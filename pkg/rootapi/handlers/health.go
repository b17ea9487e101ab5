package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/txn2/rootcheck/pkg/rootapi/types"
)

// HealthHandler handles the health endpoint
type HealthHandler struct {
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: startTime,
	}
}

// Health returns health status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	})
}
