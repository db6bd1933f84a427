package frame

import (
	"fmt"
	"math"
	"time"

	everrors "everion/internal/errors"
)

// WideFrame is a time-indexed table with one float64 column per semantic
// name. The index is strictly increasing and unique; missing cells are
// NaN. A WideFrame is always built fresh from its inputs, never aliased
// into them, so mutating a source table cannot corrupt a frame handed out
// earlier.
type WideFrame struct {
	index   []time.Time
	order   []string
	columns map[string][]float64
}

// NewWideFrame builds an empty frame with no rows and no columns.
func NewWideFrame() *WideFrame {
	return &WideFrame{columns: make(map[string][]float64)}
}

// NewIndexed builds a frame over the given index with no columns yet. The
// index must already be strictly increasing and unique.
func NewIndexed(index []time.Time) *WideFrame {
	f := NewWideFrame()
	f.index = append(f.index, index...)
	return f
}

// Len returns the number of rows.
func (f *WideFrame) Len() int {
	return len(f.index)
}

// Empty reports whether the frame has neither rows nor columns.
func (f *WideFrame) Empty() bool {
	return len(f.index) == 0 && len(f.order) == 0
}

// Index returns a copy of the time index.
func (f *WideFrame) Index() []time.Time {
	out := make([]time.Time, len(f.index))
	copy(out, f.index)
	return out
}

// Columns returns the column names in insertion order.
func (f *WideFrame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// HasColumn reports whether a column with the given name exists.
func (f *WideFrame) HasColumn(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Column returns a copy of the named column's values.
func (f *WideFrame) Column(name string) ([]float64, bool) {
	values, ok := f.columns[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, true
}

// At returns the cell at the given row for the named column, or NaN when
// the column does not exist.
func (f *WideFrame) At(row int, name string) float64 {
	values, ok := f.columns[name]
	if !ok {
		return math.NaN()
	}
	return values[row]
}

// AddColumn appends a column. The values must cover every row and the name
// must be new.
func (f *WideFrame) AddColumn(name string, values []float64) error {
	if _, ok := f.columns[name]; ok {
		return everrors.ColumnCollisionError(name)
	}
	if len(values) != len(f.index) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(f.index))
	}
	stored := make([]float64, len(values))
	copy(stored, values)
	f.order = append(f.order, name)
	f.columns[name] = stored
	return nil
}

// OuterJoin combines two frames on their time indexes, keeping every
// timestamp from either side and filling NaN where one side has no row. A
// column name present on both sides is a collision and an error.
func (f *WideFrame) OuterJoin(other *WideFrame) (*WideFrame, error) {
	if f.Empty() {
		return other.clone(), nil
	}
	if other.Empty() {
		return f.clone(), nil
	}

	for _, name := range other.order {
		if _, ok := f.columns[name]; ok {
			return nil, everrors.ColumnCollisionError(name)
		}
	}

	index, leftPos, rightPos := mergeIndexes(f.index, other.index)

	joined := NewIndexed(index)
	for _, name := range f.order {
		joined.order = append(joined.order, name)
		joined.columns[name] = scatter(f.columns[name], leftPos, len(index))
	}
	for _, name := range other.order {
		joined.order = append(joined.order, name)
		joined.columns[name] = scatter(other.columns[name], rightPos, len(index))
	}
	return joined, nil
}

// clone returns a deep copy of the frame.
func (f *WideFrame) clone() *WideFrame {
	out := NewIndexed(f.index)
	for _, name := range f.order {
		out.order = append(out.order, name)
		values := make([]float64, len(f.columns[name]))
		copy(values, f.columns[name])
		out.columns[name] = values
	}
	return out
}

// mergeIndexes merges two strictly increasing indexes into their sorted
// union and returns, for each input, the union position of each of its
// rows.
func mergeIndexes(left, right []time.Time) ([]time.Time, []int, []int) {
	index := make([]time.Time, 0, len(left)+len(right))
	leftPos := make([]int, len(left))
	rightPos := make([]int, len(right))

	i, j := 0, 0
	for i < len(left) || j < len(right) {
		switch {
		case j >= len(right) || (i < len(left) && left[i].Before(right[j])):
			leftPos[i] = len(index)
			index = append(index, left[i])
			i++
		case i >= len(left) || right[j].Before(left[i]):
			rightPos[j] = len(index)
			index = append(index, right[j])
			j++
		default: // equal timestamps share one row
			leftPos[i] = len(index)
			rightPos[j] = len(index)
			index = append(index, left[i])
			i++
			j++
		}
	}
	return index, leftPos, rightPos
}

// scatter spreads column values onto their union positions, NaN elsewhere.
func scatter(values []float64, positions []int, size int) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = math.NaN()
	}
	for i, pos := range positions {
		out[pos] = values[i]
	}
	return out
}
