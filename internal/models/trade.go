package models

import (
	"time"

	"gorm.io/datatypes"
)

// TradeAnalysisRecord persists one completed trade analysis so users can
// revisit past evaluations.
type TradeAnalysisRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID string    `gorm:"index" json:"request_id"`
	UserID    string    `gorm:"index" json:"user_id,omitempty"`
	LeagueID  string    `gorm:"index" json:"league_id,omitempty"`
	Strategy  string    `gorm:"not null" json:"strategy"` // "model" or "heuristic"
	CreatedAt time.Time `json:"created_at"`

	// Model-based analysis fields
	UserGivingValue    float64 `json:"user_giving_value"`
	UserReceivingValue float64 `json:"user_receiving_value"`
	UserNetChange      float64 `json:"user_net_change"`
	Recommendation     string  `json:"recommendation"`

	// Full request/response payloads stored as JSON
	GivingPlayers    datatypes.JSON `json:"giving_players"`
	ReceivingPlayers datatypes.JSON `json:"receiving_players"`
	ResultDetail     datatypes.JSON `json:"result_detail"`
}

// TableName specifies the table name for GORM
func (TradeAnalysisRecord) TableName() string {
	return "trade_analyses"
}
