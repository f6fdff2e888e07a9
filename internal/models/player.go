package models

// Position codes as ESPN reports them
const (
	PositionQB  = "QB"
	PositionRB  = "RB"
	PositionWR  = "WR"
	PositionTE  = "TE"
	PositionK   = "K"
	PositionDST = "D/ST"
)

// PlayerDescriptor is the runtime description of a player as the league data
// source supplies it. Every field may be absent; only Position and
// ProjectedPoints drive valuation, the rest is informational. ProjectedPoints
// is a pointer so that "no projection known" and "projected to score zero"
// stay distinguishable downstream.
type PlayerDescriptor struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Position        string   `json:"position"`
	ProTeam         string   `json:"pro_team"`
	InjuryStatus    string   `json:"injury_status"`
	ProjectedPoints *float64 `json:"projected_points,omitempty"`
	SeasonPoints    float64  `json:"season_points"`
	AvgPoints       float64  `json:"avg_points"`
	LineupSlot      string   `json:"lineup_slot"`
	PercentOwned    float64  `json:"percent_owned"`
	PercentStarted  float64  `json:"percent_started"`
	IsStarter       bool     `json:"is_starter"`
	TradeValue      float64  `json:"trade_value"`
}

// Projection returns the projected points, or 0 when no projection is known.
func (p *PlayerDescriptor) Projection() float64 {
	if p.ProjectedPoints == nil {
		return 0
	}
	return *p.ProjectedPoints
}

// HasProjection reports whether a projection was supplied at all.
func (p *PlayerDescriptor) HasProjection() bool {
	return p.ProjectedPoints != nil
}
