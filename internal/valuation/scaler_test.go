package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/mat"
)

func datasetFrom(columns []string, rows [][]float64) *Dataset {
	backing := make([]float64, 0, len(rows)*len(columns))
	for _, row := range rows {
		backing = append(backing, row...)
	}
	return &Dataset{
		FeatureColumns: columns,
		Features:       mat.NewDense(len(rows), len(columns), backing),
	}
}

func TestFitStandardScaler(t *testing.T) {
	ds := datasetFrom([]string{"a", "b"}, [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	})

	scaler, err := FitStandardScaler(ds)
	require.NoError(t, err)
	assert.Equal(t, 2, scaler.NumFeatures())

	// Column a has mean 2; its standardized center is zero.
	scaled, err := scaler.Transform([]float64{2, 20})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, scaled[0], 1e-9)
	assert.InDelta(t, 0.0, scaled[1], 1e-9)
}

func TestScalerRoundTrip(t *testing.T) {
	ds := datasetFrom([]string{"a", "b", "c"}, [][]float64{
		{1, 100, -5},
		{4, 250, 0},
		{9, 175, 5},
		{2, 300, 12},
	})

	scaler, err := FitStandardScaler(ds)
	require.NoError(t, err)

	original := []float64{3.7, 212.4, 1.5}
	scaled, err := scaler.Transform(original)
	require.NoError(t, err)
	restored, err := scaler.Inverse(scaled)
	require.NoError(t, err)

	for i := range original {
		assert.InDelta(t, original[i], restored[i], 1e-9)
	}
}

func TestScalerConstantColumn(t *testing.T) {
	ds := datasetFrom([]string{"constant"}, [][]float64{{5}, {5}, {5}})

	scaler, err := FitStandardScaler(ds)
	require.NoError(t, err)

	// Constant columns get unit scale, so the transform is a mean shift.
	scaled, err := scaler.Transform([]float64{5})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, scaled[0], 1e-9)

	scaled, err = scaler.Transform([]float64{8})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, scaled[0], 1e-9)
}

func TestScalerSkipsNaNCells(t *testing.T) {
	ds := datasetFrom([]string{"a"}, [][]float64{
		{1},
		{math.NaN()},
		{3},
	})

	scaler, err := FitStandardScaler(ds)
	require.NoError(t, err)

	// Mean over the two numeric values is 2.
	scaled, err := scaler.Transform([]float64{2})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, scaled[0], 1e-9)
}

func TestScalerRejectsWrongLength(t *testing.T) {
	ds := datasetFrom([]string{"a", "b"}, [][]float64{{1, 2}, {3, 4}})

	scaler, err := FitStandardScaler(ds)
	require.NoError(t, err)

	_, err = scaler.Transform([]float64{1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = scaler.Transform([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = scaler.Inverse([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestScalerEmptyDataset(t *testing.T) {
	_, err := FitStandardScaler(&Dataset{
		FeatureColumns: []string{},
		Features:       &mat.Dense{},
	})
	assert.ErrorIs(t, err, ErrDataLoad)
}
