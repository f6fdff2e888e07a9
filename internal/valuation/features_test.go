package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmarkle/trade-analyzer/internal/models"
)

func testSchema(t *testing.T, columns ...string) *Schema {
	t.Helper()
	schema, err := NewSchema(columns)
	require.NoError(t, err)
	return schema
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestBuildVectorLengthAndOrder(t *testing.T) {
	schema := testSchema(t, "games", "rushing_yards", "is_rb", "is_wr")
	builder := NewBuilder(schema, PositionProfiles{})

	vector := builder.Build(models.PlayerDescriptor{
		Position:        models.PositionRB,
		ProjectedPoints: floatPtr(150),
	})

	require.Len(t, vector, schema.Len())
	assert.Equal(t, FullSeasonGames, vector[schema.Index("games")])
	assert.Equal(t, 1.0, vector[schema.Index("is_rb")])
	assert.Equal(t, 0.0, vector[schema.Index("is_wr")])
}

func TestBuildScalesProfileByProjection(t *testing.T) {
	schema := testSchema(t, "rushing_yards", "receptions", "games")
	profiles := PositionProfiles{
		models.PositionRB: {"rushing_yards": 1000, "receptions": 40},
	}
	builder := NewBuilder(schema, profiles)

	tests := []struct {
		name          string
		projected     *float64
		wantRushYards float64
	}{
		{"nominal projection is unscaled", floatPtr(150), 1000},
		{"double projection doubles the profile", floatPtr(300), 2000},
		{"half projection halves the profile", floatPtr(75), 500},
		{"missing projection uses the nominal baseline", nil, 1000},
		{"zero projection zeroes the stats", floatPtr(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vector := builder.Build(models.PlayerDescriptor{
				Position:        models.PositionRB,
				ProjectedPoints: tt.projected,
			})
			assert.InDelta(t, tt.wantRushYards, vector[schema.Index("rushing_yards")], 1e-9)
		})
	}
}

func TestBuildMissingPositionDefaultsToRB(t *testing.T) {
	schema := testSchema(t, "is_qb", "is_rb", "rushing_yards")
	profiles := PositionProfiles{
		models.PositionRB: {"rushing_yards": 800},
	}
	builder := NewBuilder(schema, profiles)

	vector := builder.Build(models.PlayerDescriptor{
		ProjectedPoints: floatPtr(150),
	})

	assert.Equal(t, 1.0, vector[schema.Index("is_rb")])
	assert.Equal(t, 0.0, vector[schema.Index("is_qb")])
	assert.InDelta(t, 800.0, vector[schema.Index("rushing_yards")], 1e-9)
}

func TestBuildUnrecognizedPositionStaysSparse(t *testing.T) {
	schema := testSchema(t, "is_qb", "is_rb", "is_wr", "is_te", "rushing_yards", "games")
	profiles := PositionProfiles{
		models.PositionRB: {"rushing_yards": 800},
	}
	builder := NewBuilder(schema, profiles)

	vector := builder.Build(models.PlayerDescriptor{
		Position:        "FB",
		ProjectedPoints: floatPtr(200),
	})

	// No indicator, no profile, no baseline; only games is populated.
	for _, col := range []string{"is_qb", "is_rb", "is_wr", "is_te", "rushing_yards"} {
		assert.Zerof(t, vector[schema.Index(col)], "column %s", col)
	}
	assert.Equal(t, FullSeasonGames, vector[schema.Index("games")])
}

func TestBuildBaselineEstimatesWithoutProfiles(t *testing.T) {
	schema := testSchema(t,
		"passing_yards", "passing_tds", "completions", "attempts", "interceptions",
		"receiving_yards", "receiving_tds", "receptions", "targets", "games")
	builder := NewBuilder(schema, PositionProfiles{})

	t.Run("QB baseline at double the nominal projection", func(t *testing.T) {
		vector := builder.Build(models.PlayerDescriptor{
			Position:        models.PositionQB,
			ProjectedPoints: floatPtr(300),
		})
		assert.InDelta(t, 7000.0, vector[schema.Index("passing_yards")], 1e-9)
		assert.InDelta(t, 50.0, vector[schema.Index("passing_tds")], 1e-9)
		assert.InDelta(t, 700.0, vector[schema.Index("completions")], 1e-9)
		assert.InDelta(t, 1100.0, vector[schema.Index("attempts")], 1e-9)
		// Interceptions do not scale with the projection.
		assert.InDelta(t, 10.0, vector[schema.Index("interceptions")], 1e-9)
	})

	t.Run("WR baseline at the nominal projection", func(t *testing.T) {
		vector := builder.Build(models.PlayerDescriptor{
			Position:        models.PositionWR,
			ProjectedPoints: floatPtr(150),
		})
		assert.InDelta(t, 900.0, vector[schema.Index("receiving_yards")], 1e-9)
		assert.InDelta(t, 7.0, vector[schema.Index("receiving_tds")], 1e-9)
		assert.InDelta(t, 70.0, vector[schema.Index("receptions")], 1e-9)
		assert.InDelta(t, 110.0, vector[schema.Index("targets")], 1e-9)
	})

	t.Run("TE baseline at half the nominal projection", func(t *testing.T) {
		vector := builder.Build(models.PlayerDescriptor{
			Position:        models.PositionTE,
			ProjectedPoints: floatPtr(75),
		})
		assert.InDelta(t, 300.0, vector[schema.Index("receiving_yards")], 1e-9)
		assert.InDelta(t, 2.5, vector[schema.Index("receiving_tds")], 1e-9)
		assert.InDelta(t, 25.0, vector[schema.Index("receptions")], 1e-9)
		assert.InDelta(t, 37.5, vector[schema.Index("targets")], 1e-9)
	})
}

func TestBuildGamesAlwaysFullSeason(t *testing.T) {
	schema := testSchema(t, "games", "rushing_yards")
	profiles := PositionProfiles{
		models.PositionRB: {"games": 12.5, "rushing_yards": 800},
	}
	builder := NewBuilder(schema, profiles)

	// The profile mean for games is overridden with a full healthy season.
	vector := builder.Build(models.PlayerDescriptor{
		Position:        models.PositionRB,
		ProjectedPoints: floatPtr(150),
	})
	assert.Equal(t, FullSeasonGames, vector[schema.Index("games")])
}
