package valuation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler holds a fitted per-feature mean/standard-deviation transform.
// It is fitted exactly once against the historical feature matrix and is
// immutable afterwards, so concurrent Transform calls are safe.
type StandardScaler struct {
	means []float64
	stds  []float64
}

// FitStandardScaler fits the scaler over every row of the dataset, column by
// column in schema order. NaN cells are skipped. Constant columns get a scale
// of 1 so transforming them is a plain mean shift rather than a division by
// zero.
func FitStandardScaler(ds *Dataset) (*StandardScaler, error) {
	rows, cols := ds.Features.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: cannot fit scaler on empty dataset", ErrDataLoad)
	}

	means := make([]float64, cols)
	stds := make([]float64, cols)
	column := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(column, j, ds.Features)
		values := make([]float64, 0, rows)
		for _, v := range column {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: feature column %q has no numeric values", ErrDataLoad, ds.FeatureColumns[j])
		}
		// stat.MeanStdDev is the sample (n-1) deviation; the offline
		// training pipeline must fit with the same estimator or model
		// inputs drift slightly at serving time.
		mean, std := stat.MeanStdDev(values, nil)
		if math.IsNaN(std) || std <= 0 {
			std = 1
		}
		means[j] = mean
		stds[j] = std
	}

	return &StandardScaler{means: means, stds: stds}, nil
}

// NumFeatures returns the fitted feature width.
func (s *StandardScaler) NumFeatures() int {
	return len(s.means)
}

// Transform standardizes a single schema-ordered vector. A length mismatch is
// the most dangerous failure mode in the pipeline: a silently truncated or
// padded vector would still produce a plausible-looking prediction, so the
// mismatch must surface as an error here.
func (s *StandardScaler) Transform(vector []float64) ([]float64, error) {
	if len(vector) != len(s.means) {
		return nil, fmt.Errorf("%w: vector length %d does not match fitted feature count %d", ErrInvalidInput, len(vector), len(s.means))
	}
	scaled := make([]float64, len(vector))
	for i, v := range vector {
		scaled[i] = (v - s.means[i]) / s.stds[i]
	}
	return scaled, nil
}

// Inverse undoes Transform. Same strict length contract.
func (s *StandardScaler) Inverse(vector []float64) ([]float64, error) {
	if len(vector) != len(s.means) {
		return nil, fmt.Errorf("%w: vector length %d does not match fitted feature count %d", ErrInvalidInput, len(vector), len(s.means))
	}
	raw := make([]float64, len(vector))
	for i, v := range vector {
		raw[i] = v*s.stds[i] + s.means[i]
	}
	return raw, nil
}
