package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cmarkle/trade-analyzer/internal/api/handlers"
	"github.com/cmarkle/trade-analyzer/internal/api/middleware"
	"github.com/cmarkle/trade-analyzer/internal/espn"
	"github.com/cmarkle/trade-analyzer/internal/services"
	"github.com/cmarkle/trade-analyzer/internal/trade"
	"github.com/cmarkle/trade-analyzer/internal/valuation"
	"github.com/cmarkle/trade-analyzer/pkg/config"
	"github.com/cmarkle/trade-analyzer/pkg/database"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(
	group *gin.RouterGroup,
	db *database.DB,
	cache *services.CacheService,
	cfg *config.Config,
	valuationService *valuation.Service,
	espnClient *espn.Client,
	refresher *services.RefresherService,
	logger *logrus.Logger,
) {
	evaluator := trade.NewEvaluator(valuationService)

	valuationHandler := handlers.NewValuationHandler(valuationService, cache)
	tradeHandler := handlers.NewTradeHandler(db, evaluator, logger)
	leagueHandler := handlers.NewLeagueHandler(espnClient, cache, refresher, logger)

	// Player valuation
	group.POST("/players/valuation", valuationHandler.PredictPlayerValue)

	// Trade analysis
	group.POST("/trades/analyze", tradeHandler.AnalyzeTrade)
	group.POST("/trades/evaluate", tradeHandler.EvaluateTrade)
	group.GET("/trades/history", middleware.OptionalAuth(cfg.JWTSecret), tradeHandler.GetHistory)

	// League connection
	group.POST("/cookies/extract", leagueHandler.ExtractCookies)
	group.POST("/leagues/connect", leagueHandler.ConnectLeague)
	group.GET("/leagues/:leagueId/teams/:teamId/roster", leagueHandler.GetTeamRoster)
	group.POST("/leagues/:leagueId/select-team", leagueHandler.SelectTeam)

	// Operational endpoints
	adminHandler := handlers.NewAdminHandler(cache, refresher, logger)
	admin := group.Group("/admin", middleware.AuthRequired(cfg.JWTSecret))
	admin.GET("/refresher/status", adminHandler.GetRefresherStatus)
	admin.POST("/cache/flush", adminHandler.FlushCache)
}
