// Package frame holds the in-memory table structures the pipeline works
// on: long-format raw stream tables and the time-indexed WideFrame.
package frame

import (
	"math"
	"time"
)

// Record is one row of a raw stream table. Quality is NaN when the source
// row carried no quality reading.
type Record struct {
	Time       time.Time
	Tag        int
	Value      float64
	Quality    float64
	Count      int64
	StreamType string
}

// RawTable holds one stream's rows in load order. HasQuality reports
// whether any row of the table carried a quality reading; HasStreamType
// reports whether the source carried a streamType column, so persisting
// the table reproduces exactly the columns that were read.
type RawTable struct {
	Name          string
	Records       []Record
	HasQuality    bool
	HasStreamType bool
}

// Empty reports whether the table holds no rows.
func (t *RawTable) Empty() bool {
	return t == nil || len(t.Records) == 0
}

// MinTime returns the earliest timestamp in the table, or the zero time
// when the table is empty.
func (t *RawTable) MinTime() time.Time {
	if t.Empty() {
		return time.Time{}
	}
	min := t.Records[0].Time
	for _, rec := range t.Records[1:] {
		if rec.Time.Before(min) {
			min = rec.Time
		}
	}
	return min
}

// Shift adds the given offset to every row's timestamp in place.
func (t *RawTable) Shift(d time.Duration) {
	if t == nil {
		return
	}
	for i := range t.Records {
		t.Records[i].Time = t.Records[i].Time.Add(d)
	}
}

// Anchor re-anchors the table so its earliest row lands exactly on the
// given timestamp, preserving the spacing between rows. Each table is
// anchored to its own minimum, so previously aligned tables with different
// minimums can drift apart relative to each other.
func (t *RawTable) Anchor(anchor time.Time) {
	if t.Empty() {
		return
	}
	min := t.MinTime()
	for i := range t.Records {
		t.Records[i].Time = anchor.Add(t.Records[i].Time.Sub(min))
	}
}

// MissingQuality is the in-memory representation of an absent quality
// reading.
func MissingQuality() float64 {
	return math.NaN()
}
