package valuation

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Target columns excluded from the feature schema. The model predicts
// fantasy_points_ppr; both scoring variants are labels, never inputs.
var targetColumns = map[string]bool{
	"fantasy_points":     true,
	"fantasy_points_ppr": true,
}

// positionColumn is the optional non-numeric grouping column. When present it
// feeds the position profiles but is never part of the feature schema.
const positionColumn = "position"

// Dataset is the historical per-season training table loaded at startup.
type Dataset struct {
	FeatureColumns []string
	// Features is rows × len(FeatureColumns), schema-ordered. Cells that were
	// empty or unparseable are NaN; consumers must skip them.
	Features *mat.Dense
	// Positions holds the position label of each row, empty when the dataset
	// carries no position column.
	Positions []string
}

// LoadDataset reads the historical CSV. Column order in the file defines the
// feature schema order; that order must never change between training and
// serving.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open dataset: %v", ErrDataLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse dataset: %v", ErrDataLoad, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: dataset %s has no data rows", ErrDataLoad, path)
	}

	header := records[0]
	positionIdx := -1
	featureIdx := make([]int, 0, len(header))
	featureCols := make([]string, 0, len(header))
	for i, col := range header {
		if col == positionColumn {
			positionIdx = i
			continue
		}
		if targetColumns[col] {
			continue
		}
		featureIdx = append(featureIdx, i)
		featureCols = append(featureCols, col)
	}
	if len(featureCols) == 0 {
		return nil, fmt.Errorf("%w: dataset %s has no feature columns", ErrDataLoad, path)
	}

	rows := records[1:]
	features := mat.NewDense(len(rows), len(featureCols), nil)
	var positions []string
	if positionIdx >= 0 {
		positions = make([]string, len(rows))
	}

	for r, record := range rows {
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: dataset row %d has %d fields, want %d", ErrDataLoad, r+2, len(record), len(header))
		}
		for j, src := range featureIdx {
			features.Set(r, j, parseCell(record[src]))
		}
		if positionIdx >= 0 {
			positions[r] = record[positionIdx]
		}
	}

	return &Dataset{
		FeatureColumns: featureCols,
		Features:       features,
		Positions:      positions,
	}, nil
}

func parseCell(raw string) float64 {
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// NumRows returns the number of player-season rows.
func (d *Dataset) NumRows() int {
	r, _ := d.Features.Dims()
	return r
}
