package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"go.uber.org/zap"
)

// HealthCheck
func (h *StudioHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{}
	if h.storage != nil {
		for name, status := range h.storage.HealthCheck(c.Request.Context()) {
			services[name] = status
		}
	}
	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	} else {
		services["rabbitmq"] = "disabled"
	}

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

type cacheStatsReporter interface {
	GetCacheStats(ctx context.Context) (map[string]interface{}, error)
}

type queueStatsReporter interface {
	GetQueueStats() (map[string]interface{}, error)
}

func (h *StudioHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"sessions":  h.sessions.Len(),
		"timestamp": time.Now(),
	}

	if reporter, ok := h.storage.(cacheStatsReporter); ok {
		cacheStats, err := reporter.GetCacheStats(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to get cache stats", zap.Error(err))
		} else {
			stats["cache"] = cacheStats
		}
	}

	if reporter, ok := h.queue.(queueStatsReporter); ok {
		queueStats, err := reporter.GetQueueStats()
		if err != nil {
			h.logger.Error("Failed to get queue stats", zap.Error(err))
		} else {
			stats["queue"] = queueStats
		}
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    stats,
	})
}
