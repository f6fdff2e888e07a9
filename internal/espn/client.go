package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/cmarkle/trade-analyzer/internal/models"
)

const defaultBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"

// CacheProvider interface for cache operations
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}

// Client reads league, team, and roster data from the ESPN fantasy API.
// Private leagues require the ESPN_S2 and SWID cookies; public leagues work
// without them. Outbound calls share a rate limiter and a circuit breaker.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      CacheProvider
	logger     *logrus.Logger
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a new ESPN fantasy API client.
func NewClient(cache CacheProvider, logger *logrus.Logger, requestsPerSecond int, timeout time.Duration, breakerThreshold int) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	if breakerThreshold <= 0 {
		breakerThreshold = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "espn",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerThreshold)
		},
		Timeout: 30 * time.Second,
	})
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:   cache,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		breaker: breaker,
	}
}

// ESPN API response structures
type leagueResponse struct {
	ID              int `json:"id"`
	SeasonID        int `json:"seasonId"`
	ScoringPeriodID int `json:"scoringPeriodId"`
	Settings        struct {
		Name string `json:"name"`
		Size int    `json:"size"`
	} `json:"settings"`
	Members []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"members"`
	Teams []teamJSON `json:"teams"`
}

type teamJSON struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Nickname     string   `json:"nickname"`
	Abbrev       string   `json:"abbrev"`
	PrimaryOwner string   `json:"primaryOwner"`
	Owners       []string `json:"owners"`
	Record       struct {
		Overall struct {
			Wins          int     `json:"wins"`
			Losses        int     `json:"losses"`
			PointsFor     float64 `json:"pointsFor"`
			PointsAgainst float64 `json:"pointsAgainst"`
		} `json:"overall"`
	} `json:"record"`
	Roster struct {
		Entries []rosterEntryJSON `json:"entries"`
	} `json:"roster"`
}

type rosterEntryJSON struct {
	LineupSlotID    int `json:"lineupSlotId"`
	PlayerPoolEntry struct {
		Player playerJSON `json:"player"`
	} `json:"playerPoolEntry"`
}

type playerJSON struct {
	ID                int    `json:"id"`
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
	ProTeamID         int    `json:"proTeamId"`
	InjuryStatus      string `json:"injuryStatus"`
	Injured           bool   `json:"injured"`
	Ownership         struct {
		PercentOwned   float64 `json:"percentOwned"`
		PercentStarted float64 `json:"percentStarted"`
	} `json:"ownership"`
	Stats []statJSON `json:"stats"`
}

type statJSON struct {
	SeasonID        int     `json:"seasonId"`
	StatSourceID    int     `json:"statSourceId"`
	StatSplitTypeID int     `json:"statSplitTypeId"`
	AppliedTotal    float64 `json:"appliedTotal"`
}

// ESPN numeric codes
var positionByID = map[int]string{
	1:  models.PositionQB,
	2:  models.PositionRB,
	3:  models.PositionWR,
	4:  models.PositionTE,
	5:  models.PositionK,
	16: models.PositionDST,
}

var slotByID = map[int]string{
	0:  models.PositionQB,
	2:  models.PositionRB,
	4:  models.PositionWR,
	6:  models.PositionTE,
	16: models.PositionDST,
	17: models.PositionK,
	20: "BENCH",
	21: "IR",
	23: "FLEX",
}

const (
	statSourceActual     = 0
	statSourceProjection = 1
	statSplitSeasonTotal = 0
)

// ConnectLeague fetches a league with teams and rosters. ESPN leagues roll
// over mid-calendar-year, so the current and two previous seasons are tried
// in order until one answers.
func (c *Client) ConnectLeague(ctx context.Context, leagueID, espnS2, swid string) (*models.LeagueConnection, error) {
	espnS2 = decodeCookie(espnS2)
	swid = decodeCookie(swid)

	var lastErr error
	for _, season := range candidateSeasons(time.Now()) {
		connection, err := c.fetchLeague(ctx, leagueID, season, espnS2, swid)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"league_id": leagueID,
				"season":    season,
			}).Debugf("League fetch failed: %v", err)
			lastErr = err
			continue
		}
		return connection, nil
	}
	return nil, fmt.Errorf("could not connect to league %s in any recent season: %w", leagueID, lastErr)
}

// GetLeague returns a cached league connection, if one exists.
func (c *Client) GetLeague(leagueID string) (*models.LeagueConnection, bool) {
	var connection models.LeagueConnection
	if err := c.cache.GetSimple(LeagueCacheKey(leagueID), &connection); err != nil {
		return nil, false
	}
	return &connection, true
}

func (c *Client) fetchLeague(ctx context.Context, leagueID string, season int, espnS2, swid string) (*models.LeagueConnection, error) {
	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%s?view=mTeam&view=mRoster&view=mSettings",
		c.baseURL, season, leagueID)

	var league leagueResponse
	if err := c.makeRequest(ctx, url, espnS2, swid, &league); err != nil {
		return nil, err
	}
	if len(league.Teams) == 0 {
		return nil, fmt.Errorf("league %s has no teams for season %d", leagueID, season)
	}

	connection := c.parseLeague(leagueID, season, &league, swid)

	// Cache for 15 minutes
	if err := c.cache.SetSimple(LeagueCacheKey(leagueID), connection, 15*time.Minute); err != nil {
		c.logger.Warnf("Failed to cache league %s: %v", leagueID, err)
	}

	return connection, nil
}

func (c *Client) parseLeague(leagueID string, season int, league *leagueResponse, userSWID string) *models.LeagueConnection {
	// The response carries the authoritative season; the requested one is
	// only a guess across the calendar-year rollover.
	if league.SeasonID > 0 {
		season = league.SeasonID
	}

	memberNames := make(map[string]string, len(league.Members))
	for _, member := range league.Members {
		memberNames[member.ID] = member.DisplayName
	}

	name := league.Settings.Name
	if name == "" {
		name = fmt.Sprintf("League %s", leagueID)
	}

	currentWeek := league.ScoringPeriodID
	if currentWeek < 1 {
		currentWeek = 1
	}

	teams := make([]models.Team, 0, len(league.Teams))
	for _, team := range league.Teams {
		teams = append(teams, c.parseTeam(team, memberNames, season, currentWeek))
	}

	connection := &models.LeagueConnection{
		League: models.League{
			ID:          leagueID,
			Name:        name,
			Size:        len(league.Teams),
			Season:      season,
			ScoringType: "PPR",
			CurrentWeek: currentWeek,
		},
		Teams: teams,
	}

	if idx := matchUserTeam(league.Teams, memberNames, userSWID); idx >= 0 {
		connection.UserTeam = &teams[idx]
	} else if len(teams) > 0 {
		// Could not identify the user; default to the first team but say so.
		fallback := teams[0]
		fallback.UncertainOwnership = true
		connection.UserTeam = &fallback
		c.logger.Warnf("Could not identify user team in league %s, defaulting to %q", leagueID, fallback.Name)
	}

	return connection
}

func (c *Client) parseTeam(team teamJSON, memberNames map[string]string, season, currentWeek int) models.Team {
	name := team.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", team.Location, team.Nickname)
	}

	owner := "Unknown"
	if identities := extractOwnerIdentities(team, memberNames); len(identities) > 0 {
		if identities[0].DisplayName != "" {
			owner = identities[0].DisplayName
		} else {
			owner = identities[0].SWID
		}
	}

	roster := make([]models.PlayerDescriptor, 0, len(team.Roster.Entries))
	for _, entry := range team.Roster.Entries {
		roster = append(roster, parsePlayer(entry, season, currentWeek))
	}

	return models.Team{
		ID:            team.ID,
		Name:          name,
		Owner:         owner,
		Wins:          team.Record.Overall.Wins,
		Losses:        team.Record.Overall.Losses,
		PointsFor:     team.Record.Overall.PointsFor,
		PointsAgainst: team.Record.Overall.PointsAgainst,
		Roster:        roster,
	}
}

func parsePlayer(entry rosterEntryJSON, season, currentWeek int) models.PlayerDescriptor {
	player := entry.PlayerPoolEntry.Player

	position, ok := positionByID[player.DefaultPositionID]
	if !ok {
		position = "UNKNOWN"
	}

	slot, ok := slotByID[entry.LineupSlotID]
	if !ok {
		slot = "BENCH"
	}

	injuryStatus := player.InjuryStatus
	if injuryStatus == "" {
		if player.Injured {
			injuryStatus = "INJURED"
		} else {
			injuryStatus = "ACTIVE"
		}
	}

	var projected *float64
	seasonPoints := 0.0
	for _, stat := range player.Stats {
		if stat.SeasonID != season || stat.StatSplitTypeID != statSplitSeasonTotal {
			continue
		}
		switch stat.StatSourceID {
		case statSourceProjection:
			v := round1(stat.AppliedTotal)
			projected = &v
		case statSourceActual:
			seasonPoints = round1(stat.AppliedTotal)
		}
	}

	avgPoints := 0.0
	if seasonPoints > 0 {
		avgPoints = round1(seasonPoints / float64(currentWeek))
	}

	isStarter := slot != "BENCH" && slot != "IR"

	projection := 0.0
	if projected != nil {
		projection = *projected
	}

	return models.PlayerDescriptor{
		ID:              fmt.Sprintf("%d", player.ID),
		Name:            player.FullName,
		Position:        position,
		ProTeam:         proTeamAbbrev(player.ProTeamID),
		InjuryStatus:    injuryStatus,
		ProjectedPoints: projected,
		SeasonPoints:    seasonPoints,
		AvgPoints:       avgPoints,
		LineupSlot:      slot,
		PercentOwned:    player.Ownership.PercentOwned,
		PercentStarted:  player.Ownership.PercentStarted,
		IsStarter:       isStarter,
		TradeValue:      playerTradeValue(position, avgPoints, projection),
	}
}

// playerTradeValue is a rough single-player trade value used for roster
// display: recent production weighted over projection, adjusted for
// positional scarcity.
func playerTradeValue(position string, avgPoints, projectedPoints float64) float64 {
	multipliers := map[string]float64{
		models.PositionQB:  1.0,
		models.PositionRB:  1.2,
		models.PositionWR:  1.1,
		models.PositionTE:  1.0,
		models.PositionK:   0.5,
		models.PositionDST: 0.7,
	}
	multiplier, ok := multipliers[position]
	if !ok {
		multiplier = 1.0
	}
	baseValue := avgPoints*0.7 + projectedPoints*0.3
	return round1(baseValue * multiplier)
}

// makeRequest performs an HTTP GET with rate limiting, a circuit breaker,
// and exponential backoff.
func (c *Client) makeRequest(ctx context.Context, url, espnS2, swid string, target interface{}) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			waitTime := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			c.logger.Warnf("ESPN request failed (attempt %d), waiting %v: %v", attempt, waitTime, lastErr)
			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		body, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doRequest(ctx, url, espnS2, swid)
		})
		if err != nil {
			lastErr = err
			continue
		}

		return json.Unmarshal(body.([]byte), target)
	}
	return fmt.Errorf("request failed after retries: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, url, espnS2, swid string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if espnS2 != "" && swid != "" {
		req.AddCookie(&http.Cookie{Name: "espn_s2", Value: espnS2})
		req.AddCookie(&http.Cookie{Name: "SWID", Value: swid})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// candidateSeasons lists the fantasy seasons worth trying for a connection,
// newest first. The NFL season spans the calendar year boundary, so early in
// the year the previous season is usually the live one.
func candidateSeasons(now time.Time) []int {
	year := now.Year()
	return []int{year, year - 1, year - 2}
}

// LeagueCacheKey builds the cache key for a connected league.
func LeagueCacheKey(leagueID string) string {
	return fmt.Sprintf("espn:league:%s", leagueID)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
