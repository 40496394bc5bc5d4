package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/utils"
)

// HealthChecker reports whether the backing stores are reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	BaseHandler
	checker HealthChecker
}

func NewHealthHandler(checker HealthChecker, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: NewBaseHandler(logger),
		checker:     checker,
	}
}

// Health pings the store (and cache when configured)
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.checker.HealthCheck(ctx); err != nil {
		h.LogError(c, err, "Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
