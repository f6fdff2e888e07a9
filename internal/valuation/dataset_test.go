package valuation

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seasonal.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset(t *testing.T) {
	path := writeCSV(t, `position,games,rushing_yards,fantasy_points,fantasy_points_ppr
RB,16,1200,210.5,245.1
WR,17,45,180.0,250.0
RB,12,800,150.2,170.9
`)

	ds, err := LoadDataset(path)
	require.NoError(t, err)

	// Targets and the position column never enter the schema.
	assert.Equal(t, []string{"games", "rushing_yards"}, ds.FeatureColumns)
	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []string{"RB", "WR", "RB"}, ds.Positions)

	assert.Equal(t, 16.0, ds.Features.At(0, 0))
	assert.Equal(t, 45.0, ds.Features.At(1, 1))
}

func TestLoadDatasetSchemaFollowsColumnOrder(t *testing.T) {
	path := writeCSV(t, `rushing_yards,position,targets,games,fantasy_points_ppr
1200,RB,20,16,245.1
`)

	ds, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rushing_yards", "targets", "games"}, ds.FeatureColumns)
}

func TestLoadDatasetBadCellsBecomeNaN(t *testing.T) {
	path := writeCSV(t, `position,games,rushing_yards,fantasy_points_ppr
RB,16,,245.1
WR,n/a,45,250.0
`)

	ds, err := LoadDataset(path)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(ds.Features.At(0, 1)))
	assert.True(t, math.IsNaN(ds.Features.At(1, 0)))
	assert.Equal(t, 45.0, ds.Features.At(1, 1))
}

func TestLoadDatasetWithoutPositionColumn(t *testing.T) {
	path := writeCSV(t, `games,rushing_yards,fantasy_points_ppr
16,1200,245.1
`)

	ds, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Empty(t, ds.Positions)
	assert.Equal(t, []string{"games", "rushing_yards"}, ds.FeatureColumns)
}

func TestLoadDatasetErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.csv"))
		assert.ErrorIs(t, err, ErrDataLoad)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeCSV(t, "games,rushing_yards\n")
		_, err := LoadDataset(path)
		assert.ErrorIs(t, err, ErrDataLoad)
	})

	t.Run("no feature columns", func(t *testing.T) {
		path := writeCSV(t, "position,fantasy_points_ppr\nRB,245.1\n")
		_, err := LoadDataset(path)
		assert.ErrorIs(t, err, ErrDataLoad)
	})
}

func TestBuildPositionProfiles(t *testing.T) {
	path := writeCSV(t, `position,games,rushing_yards,fantasy_points_ppr
RB,16,1000,245.1
RB,12,600,170.9
WR,17,50,250.0
FB,10,300,90.0
`)

	ds, err := LoadDataset(path)
	require.NoError(t, err)

	profiles := BuildPositionProfiles(ds)

	rb, ok := profiles.Get("RB")
	require.True(t, ok)
	assert.InDelta(t, 14.0, rb["games"], 1e-9)
	assert.InDelta(t, 800.0, rb["rushing_yards"], 1e-9)

	// Only QB/RB/WR/TE are profiled.
	_, ok = profiles.Get("FB")
	assert.False(t, ok)
	_, ok = profiles.Get("TE")
	assert.False(t, ok)
}

func TestBuildPositionProfilesSkipsNaN(t *testing.T) {
	path := writeCSV(t, `position,games,rushing_yards,fantasy_points_ppr
RB,16,1000,245.1
RB,,600,170.9
`)

	ds, err := LoadDataset(path)
	require.NoError(t, err)

	profiles := BuildPositionProfiles(ds)
	rb, ok := profiles.Get("RB")
	require.True(t, ok)
	assert.InDelta(t, 16.0, rb["games"], 1e-9)
	assert.InDelta(t, 800.0, rb["rushing_yards"], 1e-9)
}
