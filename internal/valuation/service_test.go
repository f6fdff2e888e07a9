package valuation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmarkle/trade-analyzer/internal/models"
)

func writeServiceFixtures(t *testing.T, artifact NetworkArtifact) (modelPath, datasetPath string) {
	t.Helper()
	dir := t.TempDir()

	datasetPath = filepath.Join(dir, "seasonal.csv")
	csv := `position,games,rushing_yards,fantasy_points_ppr
RB,16,1000,245.1
RB,12,600,170.9
WR,17,50,250.0
`
	require.NoError(t, os.WriteFile(datasetPath, []byte(csv), 0o644))

	raw, err := json.Marshal(artifact)
	require.NoError(t, err)
	modelPath = filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelPath, raw, 0o644))

	return modelPath, datasetPath
}

func TestServiceNotReadyBeforeLoad(t *testing.T) {
	service := NewService("model.json", "seasonal.csv", logrus.New())

	assert.False(t, service.IsLoaded())
	assert.Equal(t, 0, service.FeatureCount())

	_, err := service.PredictFantasyPoints(models.PlayerDescriptor{Position: models.PositionRB})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestServiceLoadAndPredict(t *testing.T) {
	// Two features (games, rushing_yards); the model just sums its
	// standardized inputs.
	modelPath, datasetPath := writeServiceFixtures(t, NetworkArtifact{
		InputSize: 2,
		Weights:   [][]float64{{1.0, 1.0}},
		Biases:    [][]float64{{0.0}},
	})

	service := NewService(modelPath, datasetPath, logrus.New())
	require.NoError(t, service.Load())

	assert.True(t, service.IsLoaded())
	assert.Equal(t, 2, service.FeatureCount())

	points, err := service.PredictFantasyPoints(models.PlayerDescriptor{
		Position:        models.PositionRB,
		ProjectedPoints: floatPtr(150),
	})
	require.NoError(t, err)
	assert.False(t, points != points, "prediction must not be NaN")
}

func TestServiceLoadRejectsModelSchemaMismatch(t *testing.T) {
	// Dataset has two feature columns but the model expects three.
	modelPath, datasetPath := writeServiceFixtures(t, NetworkArtifact{
		InputSize: 3,
		Weights:   [][]float64{{1, 1, 1}},
		Biases:    [][]float64{{0}},
	})

	service := NewService(modelPath, datasetPath, logrus.New())
	err := service.Load()
	assert.ErrorIs(t, err, ErrDataLoad)
	assert.False(t, service.IsLoaded())
}

func TestServiceLoadMissingArtifacts(t *testing.T) {
	dir := t.TempDir()

	service := NewService(
		filepath.Join(dir, "missing-model.json"),
		filepath.Join(dir, "missing-data.csv"),
		logrus.New(),
	)
	assert.ErrorIs(t, service.Load(), ErrDataLoad)
}

func TestServicePredictionOrderIsDeterministic(t *testing.T) {
	modelPath, datasetPath := writeServiceFixtures(t, NetworkArtifact{
		InputSize: 2,
		Weights:   [][]float64{{0.3, 0.7}},
		Biases:    [][]float64{{5.0}},
	})

	service := NewService(modelPath, datasetPath, logrus.New())
	require.NoError(t, service.Load())

	player := models.PlayerDescriptor{
		Position:        models.PositionWR,
		ProjectedPoints: floatPtr(180),
	}

	first, err := service.PredictFantasyPoints(player)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := service.PredictFantasyPoints(player)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
