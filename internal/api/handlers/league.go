package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cmarkle/trade-analyzer/internal/espn"
	"github.com/cmarkle/trade-analyzer/internal/models"
	"github.com/cmarkle/trade-analyzer/internal/services"
	"github.com/cmarkle/trade-analyzer/pkg/logger"
	"github.com/cmarkle/trade-analyzer/pkg/utils"
)

type LeagueHandler struct {
	espnClient *espn.Client
	cache      *services.CacheService
	refresher  *services.RefresherService
	logger     *logrus.Logger
}

func NewLeagueHandler(espnClient *espn.Client, cache *services.CacheService, refresher *services.RefresherService, logger *logrus.Logger) *LeagueHandler {
	return &LeagueHandler{
		espnClient: espnClient,
		cache:      cache,
		refresher:  refresher,
		logger:     logger,
	}
}

type extractCookiesRequest struct {
	CookieString string `json:"cookie_string" binding:"required"`
}

// ExtractCookies pulls the ESPN_S2 and SWID values out of a raw browser
// cookie header, so users can paste the whole thing instead of hunting for
// the two values.
func (h *LeagueHandler) ExtractCookies(c *gin.Context) {
	var req extractCookiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	espnS2, swid, err := espn.ExtractCookies(req.CookieString)
	if err != nil {
		utils.SendValidationError(c, "Could not extract ESPN cookies", err.Error())
		return
	}

	utils.SendSuccess(c, gin.H{
		"espn_s2": espnS2,
		"swid":    swid,
	})
}

type connectLeagueRequest struct {
	LeagueID string `json:"league_id" binding:"required"`
	ESPNS2   string `json:"espn_s2"`
	SWID     string `json:"swid"`
}

// ConnectLeague fetches league, team, and roster data from ESPN. Private
// leagues need both cookies; public leagues connect without them.
func (h *LeagueHandler) ConnectLeague(c *gin.Context) {
	var req connectLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	connection, err := h.espnClient.ConnectLeague(c.Request.Context(), req.LeagueID, req.ESPNS2, req.SWID)
	if err != nil {
		h.logger.Errorf("League connect failed for %s: %v", req.LeagueID, err)
		utils.SendNotFound(c, "Could not connect to league. Check the league ID and cookies.")
		return
	}

	h.refresher.RegisterLeague(req.LeagueID, req.ESPNS2, req.SWID)

	logger.WithLeagueContext(req.LeagueID, connection.League.Season).
		Infof("Connected league %q with %d teams", connection.League.Name, len(connection.Teams))

	utils.SendSuccess(c, connection)
}

// GetTeamRoster returns one team's roster grouped for display: starters,
// bench, per-position buckets, and projected totals.
func (h *LeagueHandler) GetTeamRoster(c *gin.Context) {
	leagueID := c.Param("leagueId")
	teamID, err := strconv.Atoi(c.Param("teamId"))
	if err != nil {
		utils.SendValidationError(c, "Invalid team ID", c.Param("teamId"))
		return
	}

	var cached rosterView
	if h.cache != nil && h.cache.GetSimple(services.RosterCacheKey(leagueID, teamID), &cached) == nil {
		utils.SendSuccess(c, cached)
		return
	}

	connection, ok := h.espnClient.GetLeague(leagueID)
	if !ok {
		utils.SendNotFound(c, "League not connected. Connect the league first.")
		return
	}

	var team *models.Team
	for i := range connection.Teams {
		if connection.Teams[i].ID == teamID {
			team = &connection.Teams[i]
			break
		}
	}
	if team == nil {
		utils.SendNotFound(c, "Team not found in league")
		return
	}

	view := buildRosterView(team)
	if h.cache != nil {
		if err := h.cache.SetWithRetry(c.Request.Context(), services.RosterCacheKey(leagueID, teamID), view, 15*time.Minute, 3); err != nil {
			h.logger.Warnf("Failed to cache roster for league %s team %d: %v", leagueID, teamID, err)
		}
	}
	utils.SendSuccess(c, view)
}

type selectTeamRequest struct {
	TeamID int `json:"team_id" binding:"required"`
}

// SelectTeam records which team the user owns in a connected league,
// overriding the automatic owner match.
func (h *LeagueHandler) SelectTeam(c *gin.Context) {
	leagueID := c.Param("leagueId")

	var req selectTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	connection, ok := h.espnClient.GetLeague(leagueID)
	if !ok {
		utils.SendNotFound(c, "League not connected. Connect the league first.")
		return
	}

	var selected *models.Team
	for i := range connection.Teams {
		if connection.Teams[i].ID == req.TeamID {
			selected = &connection.Teams[i]
			break
		}
	}
	if selected == nil {
		utils.SendNotFound(c, "Team not found in league")
		return
	}

	if err := h.cache.SetSimple(services.SelectedTeamCacheKey(leagueID), req.TeamID, 24*time.Hour); err != nil {
		h.logger.Warnf("Failed to cache team selection for league %s: %v", leagueID, err)
	}

	utils.SendSuccess(c, gin.H{
		"league_id": leagueID,
		"team":      selected,
	})
}

type rosterView struct {
	TeamID           int                                  `json:"team_id"`
	TeamName         string                               `json:"team_name"`
	Owner            string                               `json:"owner"`
	Starters         []models.PlayerDescriptor            `json:"starters"`
	Bench            []models.PlayerDescriptor            `json:"bench"`
	ByPosition       map[string][]models.PlayerDescriptor `json:"by_position"`
	ProjectedTotal   float64                              `json:"projected_total"`
	StarterProjTotal float64                              `json:"starter_projected_total"`
}

func buildRosterView(team *models.Team) rosterView {
	view := rosterView{
		TeamID:     team.ID,
		TeamName:   team.Name,
		Owner:      team.Owner,
		Starters:   make([]models.PlayerDescriptor, 0),
		Bench:      make([]models.PlayerDescriptor, 0),
		ByPosition: make(map[string][]models.PlayerDescriptor),
	}

	for _, player := range team.Roster {
		if player.IsStarter {
			view.Starters = append(view.Starters, player)
			view.StarterProjTotal += player.Projection()
		} else {
			view.Bench = append(view.Bench, player)
		}
		view.ByPosition[player.Position] = append(view.ByPosition[player.Position], player)
		view.ProjectedTotal += player.Projection()
	}

	return view
}
