package trade

import (
	"fmt"
	"math"

	"github.com/cmarkle/trade-analyzer/internal/models"
)

// fairnessThreshold is the absolute point difference under which a heuristic
// trade is considered fair.
const fairnessThreshold = 5.0

// positionMultipliers weight projected points by position scarcity for the
// heuristic strategy. RB and WR carry a premium, kickers and defenses a
// discount. The exact values are part of the observable contract.
var positionMultipliers = map[string]float64{
	models.PositionQB:  0.8,
	models.PositionRB:  1.2,
	models.PositionWR:  1.1,
	models.PositionTE:  1.0,
	models.PositionK:   0.5,
	models.PositionDST: 0.6,
}

const defaultMultiplier = 1.0

// PointsPredictor supplies per-player point predictions for the model-based
// strategy. *valuation.Service satisfies it.
type PointsPredictor interface {
	PredictFantasyPoints(player models.PlayerDescriptor) (float64, error)
}

// Impact is the result of a model-based trade analysis from the user's
// perspective.
type Impact struct {
	UserGivingValue    float64 `json:"user_giving_value"`
	UserReceivingValue float64 `json:"user_receiving_value"`
	UserNetChange      float64 `json:"user_net_change"`
	PartnerNetChange   float64 `json:"partner_net_change"`
	Recommendation     string  `json:"recommendation"`
}

// Valuation is the heuristic value of one side of a trade.
type Valuation struct {
	TotalValue        float64            `json:"total_value"`
	PositionBreakdown map[string]float64 `json:"position_breakdown"`
	AverageValue      float64            `json:"average_value"`
}

// Comparison is the heuristic verdict over two sides.
type Comparison struct {
	Team1Value     Valuation `json:"team1_value"`
	Team2Value     Valuation `json:"team2_value"`
	IsFair         bool      `json:"is_fair"`
	Winner         string    `json:"winner"` // "team1", "team2", or "tie"
	Advantage      float64   `json:"advantage"`
	Recommendation string    `json:"recommendation"`
}

// Evaluator aggregates per-player valuations into trade verdicts.
type Evaluator struct {
	predictor PointsPredictor
}

// NewEvaluator creates a trade evaluator backed by the given predictor.
func NewEvaluator(predictor PointsPredictor) *Evaluator {
	return &Evaluator{predictor: predictor}
}

// AnalyzeImpact runs the model-based strategy: predict every player on both
// sides, sum, and classify the user's net point change. Thresholds are
// strict; a net change of exactly 10 is a good trade, not an excellent one.
func (e *Evaluator) AnalyzeImpact(giving, receiving []models.PlayerDescriptor) (*Impact, error) {
	givingValue, err := e.sumPredictions(giving)
	if err != nil {
		return nil, err
	}
	receivingValue, err := e.sumPredictions(receiving)
	if err != nil {
		return nil, err
	}

	netChange := receivingValue - givingValue
	return &Impact{
		UserGivingValue:    givingValue,
		UserReceivingValue: receivingValue,
		UserNetChange:      netChange,
		PartnerNetChange:   -netChange,
		Recommendation:     recommendationFor(netChange),
	}, nil
}

func (e *Evaluator) sumPredictions(players []models.PlayerDescriptor) (float64, error) {
	total := 0.0
	for _, player := range players {
		points, err := e.predictor.PredictFantasyPoints(player)
		if err != nil {
			return 0, fmt.Errorf("predict %s: %w", player.Name, err)
		}
		total += points
	}
	return total, nil
}

func recommendationFor(netChange float64) string {
	switch {
	case netChange > 10:
		return "Excellent trade for you! This significantly improves your team."
	case netChange > 5:
		return "Good trade for you. Consider accepting this offer."
	case netChange > 0:
		return "Slight advantage to you. Worth considering based on team needs."
	case netChange > -5:
		return "Fairly even trade. Consider roster construction and bye weeks."
	case netChange > -10:
		return "This trade favors your opponent. You might want to ask for more."
	default:
		return "Poor trade for you. Consider declining or asking for significant additions."
	}
}

// CalculateValue runs the heuristic strategy over one roster side. A player
// with no projection contributes zero rather than failing.
func CalculateValue(players []models.PlayerDescriptor) Valuation {
	breakdown := map[string]float64{
		models.PositionQB:  0,
		models.PositionRB:  0,
		models.PositionWR:  0,
		models.PositionTE:  0,
		models.PositionK:   0,
		models.PositionDST: 0,
	}

	total := 0.0
	for _, player := range players {
		multiplier, ok := positionMultipliers[player.Position]
		if !ok {
			multiplier = defaultMultiplier
		}
		value := player.Projection() * multiplier
		total += value
		if _, tracked := breakdown[player.Position]; tracked {
			breakdown[player.Position] += value
		}
	}

	count := len(players)
	if count == 0 {
		count = 1
	}
	return Valuation{
		TotalValue:        round2(total),
		PositionBreakdown: breakdown,
		AverageValue:      round2(total / float64(count)),
	}
}

// Compare classifies two heuristic valuations as fair or as a win for one
// side.
func Compare(team1, team2 Valuation) Comparison {
	difference := math.Abs(team1.TotalValue - team2.TotalValue)

	winner := "tie"
	advantage := 0.0
	switch {
	case team1.TotalValue > team2.TotalValue:
		winner = "team1"
		advantage = team1.TotalValue - team2.TotalValue
	case team2.TotalValue > team1.TotalValue:
		winner = "team2"
		advantage = team2.TotalValue - team1.TotalValue
	}

	isFair := difference <= fairnessThreshold
	recommendation := "Accept"
	if !isFair {
		recommendation = fmt.Sprintf("Decline - %s wins by %.1f points", winner, advantage)
	}

	return Comparison{
		Team1Value:     team1,
		Team2Value:     team2,
		IsFair:         isFair,
		Winner:         winner,
		Advantage:      round2(advantage),
		Recommendation: recommendation,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
