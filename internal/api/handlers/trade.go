package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cmarkle/trade-analyzer/internal/models"
	"github.com/cmarkle/trade-analyzer/internal/trade"
	"github.com/cmarkle/trade-analyzer/internal/valuation"
	"github.com/cmarkle/trade-analyzer/pkg/database"
	"github.com/cmarkle/trade-analyzer/pkg/logger"
	"github.com/cmarkle/trade-analyzer/pkg/utils"
)

type TradeHandler struct {
	db        *database.DB
	evaluator *trade.Evaluator
	logger    *logrus.Logger
}

func NewTradeHandler(db *database.DB, evaluator *trade.Evaluator, logger *logrus.Logger) *TradeHandler {
	return &TradeHandler{
		db:        db,
		evaluator: evaluator,
		logger:    logger,
	}
}

type tradeRequest struct {
	LeagueID         string                    `json:"league_id"`
	GivingPlayers    []models.PlayerDescriptor `json:"giving_players"`
	ReceivingPlayers []models.PlayerDescriptor `json:"receiving_players"`
}

// AnalyzeTrade runs the model-based strategy: every player on both sides is
// valued by the regression model and the net change is classified.
func (h *TradeHandler) AnalyzeTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if len(req.GivingPlayers) == 0 && len(req.ReceivingPlayers) == 0 {
		utils.SendValidationError(c, "Trade must include at least one player", "")
		return
	}

	impact, err := h.evaluator.AnalyzeImpact(req.GivingPlayers, req.ReceivingPlayers)
	if err != nil {
		switch {
		case errors.Is(err, valuation.ErrNotReady):
			utils.SendNotReady(c, "Valuation model is still loading")
		case errors.Is(err, valuation.ErrInvalidInput):
			utils.SendInvalidInput(c, "Trade could not be analyzed", err.Error())
		default:
			utils.SendInternalError(c, "Trade analysis failed")
		}
		return
	}

	requestID := h.persistAnalysis(c, &req, "model", impact.UserGivingValue,
		impact.UserReceivingValue, impact.UserNetChange, impact.Recommendation, impact)

	utils.SendSuccess(c, gin.H{
		"request_id": requestID,
		"analysis":   impact,
	})
}

// EvaluateTrade runs the heuristic strategy: projected points weighted by
// position scarcity, no model involved. Works even before the model loads.
func (h *TradeHandler) EvaluateTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if len(req.GivingPlayers) == 0 && len(req.ReceivingPlayers) == 0 {
		utils.SendValidationError(c, "Trade must include at least one player", "")
		return
	}

	givingValue := trade.CalculateValue(req.GivingPlayers)
	receivingValue := trade.CalculateValue(req.ReceivingPlayers)
	comparison := trade.Compare(givingValue, receivingValue)

	requestID := h.persistAnalysis(c, &req, "heuristic", givingValue.TotalValue,
		receivingValue.TotalValue, receivingValue.TotalValue-givingValue.TotalValue,
		comparison.Recommendation, comparison)

	utils.SendSuccess(c, gin.H{
		"request_id": requestID,
		"evaluation": comparison,
	})
}

// GetHistory returns persisted trade analyses, newest first.
func (h *TradeHandler) GetHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filtered := func() *gorm.DB {
		query := h.db.DB.Model(&models.TradeAnalysisRecord{})
		if leagueID := c.Query("league_id"); leagueID != "" {
			query = query.Where("league_id = ?", leagueID)
		}
		if userID, exists := c.Get("user_id"); exists {
			query = query.Where("user_id = ?", userID)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		utils.SendInternalError(c, "Failed to count trade history")
		return
	}

	var records []models.TradeAnalysisRecord
	err := filtered().Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&records).Error
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch trade history")
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	utils.SendSuccessWithMeta(c, records, &utils.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// persistAnalysis stores the analysis for later retrieval. Persistence
// failures are logged but never fail the request.
func (h *TradeHandler) persistAnalysis(c *gin.Context, req *tradeRequest, strategy string,
	givingValue, receivingValue, netChange float64, recommendation string, detail interface{}) string {

	requestID := uuid.New().String()

	giving, _ := json.Marshal(req.GivingPlayers)
	receiving, _ := json.Marshal(req.ReceivingPlayers)
	result, _ := json.Marshal(detail)

	record := models.TradeAnalysisRecord{
		RequestID:          requestID,
		LeagueID:           req.LeagueID,
		Strategy:           strategy,
		UserGivingValue:    givingValue,
		UserReceivingValue: receivingValue,
		UserNetChange:      netChange,
		Recommendation:     recommendation,
		GivingPlayers:      giving,
		ReceivingPlayers:   receiving,
		ResultDetail:       result,
	}
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			record.UserID = id
		}
	}

	if err := h.db.DB.Create(&record).Error; err != nil {
		h.logger.Errorf("Failed to persist trade analysis %s: %v", requestID, err)
	} else {
		logger.WithTradeContext(requestID, len(req.GivingPlayers), len(req.ReceivingPlayers)).
			Debugf("Persisted %s analysis", strategy)
	}

	return requestID
}
