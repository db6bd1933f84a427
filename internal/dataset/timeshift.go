package dataset

import (
	"log/slog"
	"time"
)

// Bounds for the random timeshift draw.
const (
	minRandomShift = 30 * 24 * time.Hour
	maxRandomShift = 730 * 24 * time.Hour
)

// Timeshift adds the given offset to every raw table's timestamps and
// recomputes the combined table. The raw tables are mutated in place.
func (d *Dataset) Timeshift(shift time.Duration) error {
	for _, table := range d.presentTables() {
		table.Shift(shift)
	}
	d.logger.Info("Applied timeshift", slog.Duration("shift", shift))
	return d.Refresh()
}

// TimeshiftTo re-anchors every raw table so that its own earliest record
// lands on the given timestamp, preserving each table's internal spacing.
// Tables are anchored independently, so streams whose minimum timestamps
// differed before the shift end up mutually realigned.
func (d *Dataset) TimeshiftTo(anchor time.Time) error {
	for _, table := range d.presentTables() {
		table.Anchor(anchor)
	}
	d.logger.Info("Anchored raw tables", slog.Time("anchor", anchor))
	return d.Refresh()
}

// TimeshiftRandom shifts the dataset into the past by a random offset
// drawn uniformly between 30 and 730 days, rounded to a whole second.
func (d *Dataset) TimeshiftRandom() error {
	span := float64(maxRandomShift - minRandomShift)
	shift := -(minRandomShift + time.Duration(d.rng.Float64()*span)).Round(time.Second)
	return d.Timeshift(shift)
}
