package reshape

import (
	"math"
	"sort"
	"time"

	"everion/internal/catalog"
	everrors "everion/internal/errors"
	"everion/internal/frame"
)

// Pivot reshapes one raw stream table into a WideFrame: rows are filtered
// to the selected tags (nil keeps every tag), timestamps are reconstructed
// to sub-second resolution, and each surviving tag becomes a value column
// named by the catalog plus an optional quality column. Per-tag sub-tables
// are accumulated with an outer join on the time index.
//
// A tag is discarded when it has no rows left or when its values are
// uniformly zero, which the device emits for quantities it never measured.
// A duplicate reconstructed timestamp within one tag is an integrity
// error: it means the counter-based spread could not separate two rows,
// and continuing would leave an ambiguous sample.
func Pivot(table *frame.RawTable, selected []int) (*frame.WideFrame, error) {
	if table.Empty() {
		return frame.NewWideFrame(), nil
	}

	records := table.Records
	if selected != nil {
		keep := make(map[int]bool, len(selected))
		for _, tag := range selected {
			keep[tag] = true
		}
		filtered := make([]frame.Record, 0, len(records))
		for _, rec := range records {
			if keep[rec.Tag] {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	if len(records) == 0 {
		return frame.NewWideFrame(), nil
	}

	times := Reconstruct(records)

	byTag := make(map[int][]int)
	for i, rec := range records {
		byTag[rec.Tag] = append(byTag[rec.Tag], i)
	}
	tags := make([]int, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	sort.Ints(tags)

	result := frame.NewWideFrame()
	for _, tag := range tags {
		sub, err := pivotTag(tag, byTag[tag], records, times, table.HasQuality)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			continue
		}
		result, err = result.OuterJoin(sub)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// pivotTag builds the per-tag sub-frame, or nil when the tag is discarded.
func pivotTag(tag int, rows []int, records []frame.Record, times []time.Time, hasQuality bool) (*frame.WideFrame, error) {
	entry, err := catalog.Lookup(tag)
	if err != nil {
		return nil, err
	}
	name := entry.Name
	qualityName := catalog.QualityColumn(tag, name)

	index := make([]time.Time, len(rows))
	values := make([]float64, len(rows))
	qualities := make([]float64, len(rows))
	allZero := true
	anyQuality := false
	for i, row := range rows {
		index[i] = times[row]
		values[i] = records[row].Value
		qualities[i] = records[row].Quality
		if values[i] != 0 {
			allZero = false
		}
		if !math.IsNaN(qualities[i]) {
			anyQuality = true
		}
	}
	if len(rows) == 0 || allZero {
		return nil, nil
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return index[order[a]].Before(index[order[b]])
	})

	sortedIndex := make([]time.Time, len(rows))
	sortedValues := make([]float64, len(rows))
	sortedQualities := make([]float64, len(rows))
	for i, pos := range order {
		sortedIndex[i] = index[pos]
		sortedValues[i] = values[pos]
		sortedQualities[i] = qualities[pos]
	}
	for i := 1; i < len(sortedIndex); i++ {
		if sortedIndex[i].Equal(sortedIndex[i-1]) {
			return nil, everrors.IntegrityError(name, sortedIndex[i].UTC().Format(time.RFC3339Nano))
		}
	}

	sub := frame.NewIndexed(sortedIndex)
	if err := sub.AddColumn(name, sortedValues); err != nil {
		return nil, err
	}
	// An all-missing quality column is dropped, matching the all-NaN
	// column drop on the long-format side.
	if hasQuality && anyQuality {
		if err := sub.AddColumn(qualityName, sortedQualities); err != nil {
			return nil, err
		}
	}
	return sub, nil
}
