// Package reshape turns raw long-format stream tables into the combined,
// time-indexed wide table: sub-second timestamp reconstruction, the
// per-tag pivot and the multi-stream outer join.
package reshape

import (
	"time"

	"everion/internal/frame"
)

// Reconstruct recovers sub-second ordering for records logged with
// whole-second timestamps. Rows sharing the same second are spread evenly
// across [t, t+1) by the rank of their wrap-around counter: within each
// second, offset = (count - min) / (max - min + 1). A group of one row is
// left untouched. Counter wrap-around inside a single second is not
// detected; a collision it causes is caught later by the pivot's
// unique-index check.
func Reconstruct(records []frame.Record) []time.Time {
	type counterSpan struct {
		min, max int64
	}
	spans := make(map[int64]counterSpan)
	for _, rec := range records {
		key := rec.Time.UnixNano()
		span, ok := spans[key]
		if !ok {
			spans[key] = counterSpan{min: rec.Count, max: rec.Count}
			continue
		}
		if rec.Count < span.min {
			span.min = rec.Count
		}
		if rec.Count > span.max {
			span.max = rec.Count
		}
		spans[key] = span
	}

	out := make([]time.Time, len(records))
	for i, rec := range records {
		span := spans[rec.Time.UnixNano()]
		countRange := span.max - span.min + 1
		offset := float64(rec.Count-span.min) / float64(countRange)
		out[i] = rec.Time.Add(time.Duration(offset * float64(time.Second)))
	}
	return out
}
