package valuation

import (
	"math"

	"github.com/cmarkle/trade-analyzer/internal/models"
)

// Calibration constants for feature assembly. The nominal projection is the
// baseline every scale factor is computed against: a player projected for
// exactly NominalProjectedPoints gets the unscaled historical position
// profile. DefaultPosition matches the original tuning of the model and is
// kept for prediction compatibility.
const (
	DefaultPosition        = models.PositionRB
	NominalProjectedPoints = 150.0
	FullSeasonGames        = 17.0
)

// One-hot position indicator columns in the schema.
var positionFlags = map[string]string{
	"is_qb": models.PositionQB,
	"is_rb": models.PositionRB,
	"is_wr": models.PositionWR,
	"is_te": models.PositionTE,
}

// Builder turns a sparse player descriptor into a dense, schema-ordered
// feature vector. Immutable after construction.
type Builder struct {
	schema   *Schema
	profiles PositionProfiles
}

// NewBuilder creates a feature builder over a fixed schema and profile store.
func NewBuilder(schema *Schema, profiles PositionProfiles) *Builder {
	return &Builder{schema: schema, profiles: profiles}
}

// Build assembles the feature vector for a player. The result always has
// exactly schema.Len() entries in schema order with no NaN values; entries
// that nothing populates stay zero.
//
// A missing position falls back to DefaultPosition. An unrecognized position
// is kept as-is: it matches no indicator, profile, or baseline table, so the
// vector stays sparse and the model regresses toward its intercept behavior.
func (b *Builder) Build(player models.PlayerDescriptor) []float64 {
	vector := make([]float64, b.schema.Len())

	position := player.Position
	if position == "" {
		position = DefaultPosition
	}
	projected := NominalProjectedPoints
	if player.HasProjection() {
		projected = player.Projection()
	}
	scale := projected / NominalProjectedPoints

	for flag, flagPosition := range positionFlags {
		if idx := b.schema.Index(flag); idx >= 0 && position == flagPosition {
			vector[idx] = 1
		}
	}

	if profile, ok := b.profiles.Get(position); ok {
		// Scale the historical position average by how the projection
		// compares to the nominal baseline: a first-order estimate of the
		// player's full statistical profile from one summary number.
		for feature, mean := range profile {
			if math.IsNaN(mean) {
				continue
			}
			if idx := b.schema.Index(feature); idx >= 0 {
				vector[idx] = mean * scale
			}
		}
	} else {
		b.estimateBaselineStats(vector, position, scale)
	}

	// A projection implies availability, so assume a full healthy season.
	if idx := b.schema.Index("games"); idx >= 0 {
		vector[idx] = FullSeasonGames
	}

	return vector
}

// estimateBaselineStats fills in rough per-position stat lines when no
// historical profile exists for the position. Interceptions stay flat: a
// higher projection does not imply more turnovers.
func (b *Builder) estimateBaselineStats(vector []float64, position string, scale float64) {
	var estimates map[string]float64
	switch position {
	case models.PositionQB:
		estimates = map[string]float64{
			"passing_yards": 3500 * scale,
			"passing_tds":   25 * scale,
			"completions":   350 * scale,
			"attempts":      550 * scale,
			"interceptions": 10,
		}
	case models.PositionRB:
		estimates = map[string]float64{
			"rushing_yards":    800 * scale,
			"rushing_tds":      8 * scale,
			"rushing_attempts": 200 * scale,
			"receiving_yards":  300 * scale,
			"receptions":       30 * scale,
			"targets":          40 * scale,
		}
	case models.PositionWR:
		estimates = map[string]float64{
			"receiving_yards": 900 * scale,
			"receiving_tds":   7 * scale,
			"receptions":      70 * scale,
			"targets":         110 * scale,
			"rushing_yards":   50 * scale,
		}
	case models.PositionTE:
		estimates = map[string]float64{
			"receiving_yards": 600 * scale,
			"receiving_tds":   5 * scale,
			"receptions":      50 * scale,
			"targets":         75 * scale,
		}
	default:
		return
	}

	for stat, value := range estimates {
		if idx := b.schema.Index(stat); idx >= 0 {
			vector[idx] = value
		}
	}
}
