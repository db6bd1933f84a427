// Package dataset owns one device export: the seven raw stream tables,
// the caller's tag selection, and the derived combined wide table.
package dataset

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"everion/internal/catalog"
	"everion/internal/files"
	"everion/internal/frame"
	"everion/internal/loader"
	"everion/internal/reshape"
)

// Dataset holds the raw Everion stream tables and the combined wide table
// derived from them. Any raw table may be nil when the export did not
// contain it. The combined table is recomputed from scratch whenever a
// raw table changes; it is never mutated in place.
type Dataset struct {
	selection reshape.Selection

	Aggregates       *frame.RawTable
	AnalyticsEvents  *frame.RawTable
	AttributesDailys *frame.RawTable
	EverionEvents    *frame.RawTable
	Features         *frame.RawTable
	SensorData       *frame.RawTable
	Signals          *frame.RawTable

	data   *frame.WideFrame
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures a Dataset before any table is loaded.
type Option func(*Dataset)

// WithSignalTags selects the signal tags retained by the pivot.
func WithSignalTags(tags []int) Option {
	return func(d *Dataset) { d.selection.SignalTags = tags }
}

// WithSensorTags selects the sensor tags retained by the pivot.
func WithSensorTags(tags []int) Option {
	return func(d *Dataset) { d.selection.SensorTags = tags }
}

// WithFeatureTags selects the feature tags retained by the pivot.
func WithFeatureTags(tags []int) Option {
	return func(d *Dataset) { d.selection.FeatureTags = tags }
}

// WithRand injects the random source used by the random timeshift mode,
// so tests can seed it deterministically.
func WithRand(rng *rand.Rand) Option {
	return func(d *Dataset) { d.rng = rng }
}

// WithLogger injects the logger used for load notices.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dataset) { d.logger = logger }
}

// New creates an empty dataset with validated tag selections and no
// tables loaded. Callers set the raw tables themselves and then call
// Refresh; Open is the usual entry point for on-disk exports.
func New(opts ...Option) (*Dataset, error) {
	d := &Dataset{
		selection: reshape.DefaultSelection(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	// Bad tag selections fail fast, before any table is touched.
	if err := catalog.Validate(d.selection.SignalTags, catalog.Signal); err != nil {
		return nil, err
	}
	if err := catalog.Validate(d.selection.SensorTags, catalog.Sensor); err != nil {
		return nil, err
	}
	if err := catalog.Validate(d.selection.FeatureTags, catalog.Feature); err != nil {
		return nil, err
	}

	d.data = frame.NewWideFrame()
	return d, nil
}

// Open loads every discoverable stream file from the export directory and
// builds the combined table.
func Open(dir string, opts ...Option) (*Dataset, error) {
	d, err := New(opts...)
	if err != nil {
		return nil, err
	}

	discovery := files.NewDiscovery(dir, d.logger)
	paths, err := discovery.FindStreamFiles()
	if err != nil {
		return nil, err
	}

	for name, path := range paths {
		table, err := loader.Load(path, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load stream %s: %w", name, err)
		}
		d.setTable(name, table)
	}

	if err := d.Refresh(); err != nil {
		return nil, err
	}

	d.logger.Info("Opened device export",
		slog.String("dir", dir),
		slog.Int("streams", len(paths)),
		slog.Int("combined_rows", d.data.Len()),
		slog.Int("combined_columns", len(d.data.Columns())))
	return d, nil
}

// Data returns the combined wide table.
func (d *Dataset) Data() *frame.WideFrame {
	return d.data
}

// Refresh recomputes the combined table from the current raw tables. It
// must be called after any direct mutation of a raw table; the previous
// combined table is discarded.
func (d *Dataset) Refresh() error {
	data, err := reshape.Combine(d.Signals, d.Features, d.SensorData, d.selection)
	if err != nil {
		return err
	}
	d.data = data
	return nil
}

// RawTables returns the present raw tables keyed by stream name.
func (d *Dataset) RawTables() map[string]*frame.RawTable {
	out := make(map[string]*frame.RawTable, 7)
	for name, table := range d.tablesByName() {
		if table != nil && *table != nil {
			out[name] = *table
		}
	}
	return out
}

// setTable assigns a loaded table to its stream slot.
func (d *Dataset) setTable(name string, table *frame.RawTable) {
	if slot, ok := d.tablesByName()[name]; ok {
		*slot = table
	}
}

func (d *Dataset) tablesByName() map[string]**frame.RawTable {
	return map[string]**frame.RawTable{
		"aggregates":        &d.Aggregates,
		"analytics_events":  &d.AnalyticsEvents,
		"attributes_dailys": &d.AttributesDailys,
		"everion_events":    &d.EverionEvents,
		"features":          &d.Features,
		"sensor_data":       &d.SensorData,
		"signals":           &d.Signals,
	}
}

// presentTables lists the non-nil raw tables.
func (d *Dataset) presentTables() []*frame.RawTable {
	tables := []*frame.RawTable{
		d.Aggregates,
		d.AnalyticsEvents,
		d.AttributesDailys,
		d.EverionEvents,
		d.Features,
		d.SensorData,
		d.Signals,
	}
	present := tables[:0]
	for _, t := range tables {
		if t != nil {
			present = append(present, t)
		}
	}
	return present
}
