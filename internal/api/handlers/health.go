package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cmarkle/trade-analyzer/internal/valuation"
)

type HealthHandler struct {
	valuationService *valuation.Service
}

func NewHealthHandler(valuationService *valuation.Service) *HealthHandler {
	return &HealthHandler{
		valuationService: valuationService,
	}
}

// GetHealth returns basic health status - always returns 200 if server is running
// This is used for basic liveness probes
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "trade-analyzer",
	})
}

// GetReady returns readiness status - only returns 200 when the valuation
// pipeline has finished loading. Used for readiness probes in container
// orchestration.
func (h *HealthHandler) GetReady(c *gin.Context) {
	if h.valuationService.IsLoaded() {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ready",
			"model_loaded":  true,
			"feature_count": h.valuationService.FeatureCount(),
		})
	} else {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "not_ready",
			"model_loaded": false,
		})
	}
}
