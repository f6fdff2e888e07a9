package valuation

import "fmt"

// Schema is the ordered, named list of numeric columns the model expects.
// It is fixed once at load time; every feature vector in the system must have
// exactly this length with this column-to-index mapping.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema builds a schema from an ordered column list.
func NewSchema(columns []string) (*Schema, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("%w: duplicate feature column %q", ErrDataLoad, col)
		}
		index[col] = i
	}
	return &Schema{columns: columns, index: index}, nil
}

// Len returns the number of feature columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the ordered column names.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Index returns the position of a feature column, or -1 when absent.
func (s *Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether the schema contains a column.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}
