package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cmarkle/trade-analyzer/internal/models"
	"github.com/cmarkle/trade-analyzer/internal/services"
	"github.com/cmarkle/trade-analyzer/internal/valuation"
	"github.com/cmarkle/trade-analyzer/pkg/utils"
)

type ValuationHandler struct {
	valuationService *valuation.Service
	cache            *services.CacheService
}

func NewValuationHandler(valuationService *valuation.Service, cache *services.CacheService) *ValuationHandler {
	return &ValuationHandler{
		valuationService: valuationService,
		cache:            cache,
	}
}

type valuationRequest struct {
	Name            string   `json:"name"`
	Position        string   `json:"position"`
	ProjectedPoints *float64 `json:"projected_points"`
}

// PredictPlayerValue estimates season fantasy points for a single player
// description. Position and projection are both optional; the pipeline
// substitutes league-typical defaults for whatever is missing.
func (h *ValuationHandler) PredictPlayerValue(c *gin.Context) {
	var req valuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	player := models.PlayerDescriptor{
		Name:            req.Name,
		Position:        req.Position,
		ProjectedPoints: req.ProjectedPoints,
	}

	// Predictions depend only on position and projection; a missing
	// projection builds the same vector as the nominal baseline.
	keyProjection := valuation.NominalProjectedPoints
	if player.HasProjection() {
		keyProjection = player.Projection()
	}
	cacheKey := services.ValuationCacheKey(player.Position, keyProjection)

	var points float64
	if h.cache == nil || h.cache.GetSimple(cacheKey, &points) != nil {
		var err error
		points, err = h.valuationService.PredictFantasyPoints(player)
		if err != nil {
			h.sendValuationError(c, err)
			return
		}
		if h.cache != nil {
			h.cache.SetSimple(cacheKey, points, time.Hour)
		}
	}

	utils.SendSuccess(c, gin.H{
		"name":             req.Name,
		"position":         player.Position,
		"predicted_points": points,
	})
}

func (h *ValuationHandler) sendValuationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, valuation.ErrNotReady):
		utils.SendNotReady(c, "Valuation model is still loading")
	case errors.Is(err, valuation.ErrInvalidInput):
		utils.SendInvalidInput(c, "Player description could not be valued", err.Error())
	default:
		utils.SendInternalError(c, "Prediction failed")
	}
}
