package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cmarkle/trade-analyzer/internal/services"
	"github.com/cmarkle/trade-analyzer/pkg/utils"
)

type AdminHandler struct {
	cache     *services.CacheService
	refresher *services.RefresherService
	logger    *logrus.Logger
}

func NewAdminHandler(cache *services.CacheService, refresher *services.RefresherService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		cache:     cache,
		refresher: refresher,
		logger:    logger,
	}
}

// GetRefresherStatus reports the background refresher's schedule and the
// leagues it is keeping warm.
func (h *AdminHandler) GetRefresherStatus(c *gin.Context) {
	utils.SendSuccess(c, h.refresher.GetStatus())
}

// FlushCache clears every cached league, roster, and valuation. Connected
// leagues re-populate on their next fetch.
func (h *AdminHandler) FlushCache(c *gin.Context) {
	if err := h.cache.Flush(); err != nil {
		h.logger.Errorf("Cache flush failed: %v", err)
		utils.SendInternalError(c, "Failed to flush cache")
		return
	}

	h.logger.Info("Cache flushed")
	utils.SendSuccess(c, gin.H{"flushed": true})
}
