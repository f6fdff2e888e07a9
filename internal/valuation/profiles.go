package valuation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// profiledPositions are the positions that get historical mean profiles.
// K and D/ST rows are too sparse in the seasonal data to average usefully.
var profiledPositions = []string{"QB", "RB", "WR", "TE"}

// PositionProfiles maps a position code to the historical mean of every
// feature column for players at that position. Built once at startup,
// read-only afterwards. An empty store is valid: every lookup then falls
// through to the hardcoded baseline estimates.
type PositionProfiles map[string]map[string]float64

// BuildPositionProfiles groups the dataset rows by position and averages each
// feature column. A dataset without a position column yields an empty store.
func BuildPositionProfiles(ds *Dataset) PositionProfiles {
	profiles := make(PositionProfiles)
	if len(ds.Positions) == 0 {
		return profiles
	}

	rowsByPosition := make(map[string][]int)
	for r, pos := range ds.Positions {
		rowsByPosition[pos] = append(rowsByPosition[pos], r)
	}

	for _, pos := range profiledPositions {
		rows := rowsByPosition[pos]
		if len(rows) == 0 {
			continue
		}
		profile := make(map[string]float64, len(ds.FeatureColumns))
		for j, col := range ds.FeatureColumns {
			values := make([]float64, 0, len(rows))
			for _, r := range rows {
				v := ds.Features.At(r, j)
				if !math.IsNaN(v) {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				continue
			}
			profile[col] = stat.Mean(values, nil)
		}
		profiles[pos] = profile
	}

	return profiles
}

// Get returns the profile for a position.
func (p PositionProfiles) Get(position string) (map[string]float64, bool) {
	profile, ok := p[position]
	return profile, ok
}
