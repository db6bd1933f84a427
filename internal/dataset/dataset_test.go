package dataset

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	everrors "everion/internal/errors"
	"everion/internal/frame"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func rec(sec int64, tag int, value float64, count int64) frame.Record {
	return frame.Record{Time: ts(sec), Tag: tag, Value: value, Quality: math.NaN(), Count: count}
}

func newTestDataset(t *testing.T, opts ...Option) *Dataset {
	t.Helper()
	d, err := New(opts...)
	require.NoError(t, err)

	d.Signals = &frame.RawTable{
		Name: "signals",
		Records: []frame.Record{
			rec(100, 6, 62, 1),
			rec(101, 6, 63, 2),
			rec(102, 7, 98, 3),
		},
	}
	d.SensorData = &frame.RawTable{
		Name: "sensor_data",
		Records: []frame.Record{
			rec(100, 84, 3, 0),
			rec(100, 85, 4, 0),
			rec(100, 86, 0, 0),
			rec(103, 84, 1, 1),
			rec(103, 85, 2, 1),
			rec(103, 86, 2, 1),
		},
	}
	require.NoError(t, d.Refresh())
	return d
}

func TestNewRejectsInvalidTagSelection(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{name: "sensor tag as signal", opt: WithSignalTags([]int{84})},
		{name: "unknown sensor tag", opt: WithSensorTags([]int{1})},
		{name: "signal tag as feature", opt: WithFeatureTags([]int{6})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.Is(err, everrors.ErrConfig))
		})
	}
}

func TestRefreshBuildsCombinedTable(t *testing.T) {
	d := newTestDataset(t)

	data := d.Data()
	assert.Equal(t, 4, data.Len())
	assert.True(t, data.HasColumn("heart_rate"))
	assert.True(t, data.HasColumn("oxygen_saturation"))
	assert.True(t, data.HasColumn("acc_mag"))
	assert.Equal(t, 5.0, data.At(0, "acc_mag"))
}

func TestTimeshiftByDuration(t *testing.T) {
	d := newTestDataset(t)

	before := d.Data()
	beforeIndex := before.Index()
	beforeColumns := before.Columns()

	const shift = 48 * time.Hour
	require.NoError(t, d.Timeshift(shift))

	// Raw tables shift uniformly.
	assert.Equal(t, ts(100).Add(shift), d.Signals.Records[0].Time)
	assert.Equal(t, ts(103).Add(shift), d.SensorData.Records[5].Time)

	// The recombined table keeps its structure, offset by the shift.
	after := d.Data()
	assert.Equal(t, beforeColumns, after.Columns())
	require.Equal(t, len(beforeIndex), after.Len())
	for i, at := range after.Index() {
		assert.Equal(t, beforeIndex[i].Add(shift), at)
	}
}

func TestTimeshiftReplacesCombinedTable(t *testing.T) {
	d := newTestDataset(t)
	before := d.Data()
	beforeIndex := before.Index()

	require.NoError(t, d.Timeshift(time.Hour))

	assert.NotSame(t, before, d.Data(), "combined table must be rebuilt, not patched")
	// The previously returned table is untouched by the shift.
	assert.Equal(t, beforeIndex, before.Index())
}

func TestTimeshiftToAnchorsEachTableIndependently(t *testing.T) {
	d := newTestDataset(t)
	// Different minimums: signals start at 100, shift sensors to 50.
	d.SensorData.Shift(-50 * time.Second)
	require.NoError(t, d.Refresh())

	anchor := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, d.TimeshiftTo(anchor))

	// Every table's own minimum lands exactly on the anchor.
	assert.Equal(t, anchor, d.Signals.MinTime())
	assert.Equal(t, anchor, d.SensorData.MinTime())

	// Intra-table spacing is preserved.
	assert.Equal(t, anchor.Add(2*time.Second), d.Signals.Records[2].Time)
	assert.Equal(t, anchor.Add(3*time.Second), d.SensorData.Records[5].Time)
}

func TestTimeshiftRandomIsSeededAndBounded(t *testing.T) {
	first := newTestDataset(t, WithRand(newSeededRand(7)))
	base := first.Signals.Records[0].Time
	require.NoError(t, first.TimeshiftRandom())
	shifted := first.Signals.Records[0].Time

	shift := shifted.Sub(base)
	assert.Negative(t, shift, "random shift moves the dataset into the past")
	magnitude := -shift
	assert.GreaterOrEqual(t, magnitude, minRandomShift-time.Second)
	assert.LessOrEqual(t, magnitude, maxRandomShift+time.Second)
	assert.Zero(t, shifted.Nanosecond(), "shift is rounded to whole seconds")

	// Same seed, same draw.
	second := newTestDataset(t, WithRand(newSeededRand(7)))
	require.NoError(t, second.TimeshiftRandom())
	assert.Equal(t, shifted, second.Signals.Records[0].Time)
}

func TestRawTablesListsPresentStreams(t *testing.T) {
	d := newTestDataset(t)

	tables := d.RawTables()
	assert.Len(t, tables, 2)
	assert.Contains(t, tables, "signals")
	assert.Contains(t, tables, "sensor_data")
	assert.NotContains(t, tables, "features")
}

func TestOpenMissingDirectory(t *testing.T) {
	_, err := Open("/nonexistent/export/dir")
	assert.Error(t, err)
}
