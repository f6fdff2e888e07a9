package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/cmarkle/trade-analyzer/internal/espn"
	"github.com/cmarkle/trade-analyzer/internal/models"
	"github.com/cmarkle/trade-analyzer/pkg/database"
)

// registeredLeague holds the credentials needed to re-fetch a league.
type registeredLeague struct {
	LeagueID string
	ESPNS2   string
	SWID     string
}

// RefresherService keeps connected leagues warm in the cache and prunes
// stale trade history on a schedule.
type RefresherService struct {
	db              *database.DB
	cache           *CacheService
	espnClient      *espn.Client
	logger          *logrus.Logger
	cron            *cron.Cron
	refreshInterval time.Duration
	retentionDays   int

	mu        sync.Mutex
	isRunning bool
	leagues   map[string]registeredLeague
}

// NewRefresherService creates a new refresher service.
func NewRefresherService(
	db *database.DB,
	cache *CacheService,
	espnClient *espn.Client,
	logger *logrus.Logger,
	refreshInterval time.Duration,
	retentionDays int,
) *RefresherService {
	return &RefresherService{
		db:              db,
		cache:           cache,
		espnClient:      espnClient,
		logger:          logger,
		cron:            cron.New(),
		refreshInterval: refreshInterval,
		retentionDays:   retentionDays,
		leagues:         make(map[string]registeredLeague),
	}
}

// Start begins the scheduled refreshes
func (s *RefresherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.refreshInterval.String())
	_, err := s.cron.AddFunc(schedule, s.refreshAllLeagues)
	if err != nil {
		return fmt.Errorf("failed to schedule league refresh: %w", err)
	}

	// Daily cleanup at 3 AM
	_, err = s.cron.AddFunc("0 3 * * *", s.cleanupOldHistory)
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("League refresher service started")
	return nil
}

// Stop halts the scheduled refreshes
func (s *RefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("League refresher service stopped")
}

// RegisterLeague adds a league to the refresh rotation. Credentials are held
// in memory only; a restart drops them and the league re-registers on its
// next connect.
func (s *RefresherService) RegisterLeague(leagueID, espnS2, swid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leagues[leagueID] = registeredLeague{
		LeagueID: leagueID,
		ESPNS2:   espnS2,
		SWID:     swid,
	}
	s.logger.Infof("Registered league %s for background refresh", leagueID)
}

// refreshAllLeagues re-fetches every registered league
func (s *RefresherService) refreshAllLeagues() {
	s.mu.Lock()
	leagues := make([]registeredLeague, 0, len(s.leagues))
	for _, league := range s.leagues {
		leagues = append(leagues, league)
	}
	s.mu.Unlock()

	if len(leagues) == 0 {
		return
	}

	s.logger.Infof("Refreshing %d registered leagues", len(leagues))

	for _, league := range leagues {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := s.espnClient.ConnectLeague(ctx, league.LeagueID, league.ESPNS2, league.SWID)
		cancel()
		if err != nil {
			s.logger.Errorf("Failed to refresh league %s: %v", league.LeagueID, err)
			continue
		}
		s.logger.Debugf("Refreshed league %s", league.LeagueID)
	}
}

// cleanupOldHistory removes trade analyses past the retention window
func (s *RefresherService) cleanupOldHistory() {
	s.logger.Info("Starting daily cleanup of old trade history")

	cutoffDate := time.Now().AddDate(0, 0, -s.retentionDays)

	result := s.db.DB.Where("created_at < ?", cutoffDate).Delete(&models.TradeAnalysisRecord{})
	if result.Error != nil {
		s.logger.Errorf("Failed to cleanup trade history: %v", result.Error)
		return
	}
	s.logger.Infof("Cleaned up %d old trade analyses", result.RowsAffected)
}

// GetStatus returns the current status of the refresher
func (s *RefresherService) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running":         s.isRunning,
		"refresh_interval":   s.refreshInterval.String(),
		"registered_leagues": len(s.leagues),
		"next_runs":          nextRuns,
	}
}
