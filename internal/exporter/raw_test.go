package exporter

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"everion/internal/frame"
	"everion/internal/loader"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func TestWriteRawTableRoundTrip(t *testing.T) {
	table := &frame.RawTable{
		Name: "signals",
		Records: []frame.Record{
			{Time: ts(1585000000), Tag: 6, Value: 62, Quality: 0.9, Count: 1, StreamType: "5"},
			{Time: ts(1585000001), Tag: 21, Value: 1.25, Quality: math.NaN(), Count: 2, StreamType: "5"},
		},
		HasQuality:    true,
		HasStreamType: true,
	}

	path := filepath.Join(t.TempDir(), "signals.csv")
	writer := NewCSVWriter()
	require.NoError(t, writer.WriteRawTable(path, table))

	reloaded, err := loader.Load(path, "signals")
	require.NoError(t, err)
	require.Len(t, reloaded.Records, 2)
	assert.True(t, reloaded.HasQuality)

	for i, want := range table.Records {
		got := reloaded.Records[i]
		assert.Equal(t, want.Time, got.Time)
		assert.Equal(t, want.Tag, got.Tag)
		assert.Equal(t, want.Value, got.Value)
		assert.Equal(t, want.Count, got.Count)
		assert.Equal(t, want.StreamType, got.StreamType)
	}
	assert.Equal(t, 0.9, reloaded.Records[0].Quality)
	assert.True(t, math.IsNaN(reloaded.Records[1].Quality))
}

func TestWriteRawTableTruncatesTimeToSeconds(t *testing.T) {
	table := &frame.RawTable{
		Name: "signals",
		Records: []frame.Record{
			{Time: time.Unix(100, 750000000).UTC(), Tag: 6, Value: 62, Quality: math.NaN(), Count: 1, StreamType: "5"},
		},
		HasStreamType: true,
	}

	path := filepath.Join(t.TempDir(), "signals.csv")
	require.NoError(t, NewCSVWriter().WriteRawTable(path, table))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "count,streamType,tag,time,values", lines[0])
	assert.Equal(t, "1,5,6,100,62", lines[1])
}

func TestWriteRawTableOmitsAbsentStreamType(t *testing.T) {
	// A table loaded from a file without a streamType column must persist
	// without one, so the round trip reproduces the source columns.
	source := "count,tag,time,values\n1,6,1585000000,62\n"
	table, err := loader.Read(strings.NewReader(source), "signals")
	require.NoError(t, err)
	require.False(t, table.HasStreamType)

	path := filepath.Join(t.TempDir(), "signals.csv")
	require.NoError(t, NewCSVWriter().WriteRawTable(path, table))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "count,tag,time,values", lines[0])
	assert.Equal(t, "1,6,1585000000,62", lines[1])
}

func TestWriteRawTableMergesValuesWireFormat(t *testing.T) {
	table := &frame.RawTable{
		Name: "features",
		Records: []frame.Record{
			{Time: ts(100), Tag: 14, Value: 0.81, Quality: 0.02, Count: 1, StreamType: "1"},
			{Time: ts(101), Tag: 14, Value: 0.82, Quality: math.NaN(), Count: 2, StreamType: "1"},
		},
		HasQuality:    true,
		HasStreamType: true,
	}

	path := filepath.Join(t.TempDir(), "features.csv")
	require.NoError(t, NewCSVWriter().WriteRawTable(path, table))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1,1,14,100,0.81;0.02", lines[1])
	assert.Equal(t, "2,1,14,101,0.82", lines[2], "rows without quality keep the bare value")
}

func TestWriteRawTablesWritesOnePerStream(t *testing.T) {
	dir := t.TempDir()
	tables := map[string]*frame.RawTable{
		"signals": {
			Name:    "signals",
			Records: []frame.Record{{Time: ts(1), Tag: 6, Value: 60, Quality: math.NaN(), Count: 1}},
		},
		"sensor_data": {
			Name:    "sensor_data",
			Records: []frame.Record{{Time: ts(1), Tag: 84, Value: 1, Quality: math.NaN(), Count: 1}},
		},
	}

	require.NoError(t, NewCSVWriter().WriteRawTables(dir, tables))

	for name := range tables {
		_, err := os.Stat(filepath.Join(dir, name+".csv"))
		assert.NoError(t, err, "expected %s.csv", name)
	}
}
