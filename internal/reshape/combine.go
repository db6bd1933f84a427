package reshape

import (
	"math"

	"everion/internal/catalog"
	"everion/internal/frame"
)

// Selection carries the tag subsets applied to each of the three pivoted
// streams. A nil slice keeps every tag present in the table.
type Selection struct {
	SignalTags  []int
	FeatureTags []int
	SensorTags  []int
}

// DefaultSelection returns the catalog's default tag subsets.
func DefaultSelection() Selection {
	return Selection{
		SignalTags:  catalog.DefaultSignalTags,
		FeatureTags: catalog.DefaultFeatureTags,
		SensorTags:  catalog.DefaultSensorTags,
	}
}

// Combine pivots the signals, features and sensor_data tables and
// outer-joins the three results on the shared time index. When all three
// accelerometer axis columns survive the join, a derived acc_mag column
// with the per-row Euclidean norm is appended; a row missing any axis
// gets a missing magnitude.
func Combine(signals, features, sensors *frame.RawTable, sel Selection) (*frame.WideFrame, error) {
	combined := frame.NewWideFrame()

	parts := []struct {
		table *frame.RawTable
		tags  []int
	}{
		{signals, sel.SignalTags},
		{features, sel.FeatureTags},
		{sensors, sel.SensorTags},
	}
	for _, part := range parts {
		pivoted, err := Pivot(part.table, part.tags)
		if err != nil {
			return nil, err
		}
		combined, err = combined.OuterJoin(pivoted)
		if err != nil {
			return nil, err
		}
	}

	if err := appendAccMagnitude(combined); err != nil {
		return nil, err
	}
	return combined, nil
}

// appendAccMagnitude adds acc_mag when accx_data, accy_data and accz_data
// are all present.
func appendAccMagnitude(f *frame.WideFrame) error {
	for _, name := range catalog.AccAxisColumns {
		if !f.HasColumn(name) {
			return nil
		}
	}

	mags := make([]float64, f.Len())
	for row := range mags {
		var sum float64
		for _, name := range catalog.AccAxisColumns {
			v := f.At(row, name)
			sum += v * v
		}
		// NaN axes propagate into a NaN magnitude.
		mags[row] = math.Sqrt(sum)
	}
	return f.AddColumn("acc_mag", mags)
}
