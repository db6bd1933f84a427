// Package loader is the CSV load boundary: it parses raw stream exports
// into typed in-memory tables, normalizing the dual-typed values column
// into separate value and quality floats so the core never inspects cell
// content at runtime.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	everrors "everion/internal/errors"
	"everion/internal/frame"
)

// Load reads one raw stream CSV into a RawTable. The file must carry a
// header with at least the time, tag, values and count columns; exact
// duplicate rows are dropped. A values cell holds either a bare float or
// a "value;quality" pair; anything else is a shape error.
func Load(path, name string) (*frame.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream file: %w", err)
	}
	defer file.Close()

	table, err := Read(file, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Debug("Loaded raw stream table",
		slog.String("stream", name),
		slog.String("path", path),
		slog.Int("rows", len(table.Records)),
		slog.Bool("has_quality", table.HasQuality))
	return table, nil
}

// Read parses raw stream CSV content from r into a RawTable named name.
func Read(r io.Reader, name string) (*frame.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &frame.RawTable{Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"time", "tag", "values", "count"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	streamTypeCol, hasStreamType := cols["streamType"]

	table := &frame.RawTable{Name: name, HasStreamType: hasStreamType}
	seen := make(map[rowKey]bool)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		line++

		rec, err := parseRecord(row, cols, streamTypeCol, hasStreamType)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		key := makeRowKey(rec)
		if seen[key] {
			continue
		}
		seen[key] = true

		if !math.IsNaN(rec.Quality) {
			table.HasQuality = true
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

func parseRecord(row []string, cols map[string]int, streamTypeCol int, hasStreamType bool) (frame.Record, error) {
	var rec frame.Record

	cell := func(col int) string {
		if col < len(row) {
			return strings.TrimSpace(row[col])
		}
		return ""
	}

	t, err := parseEpoch(cell(cols["time"]))
	if err != nil {
		return rec, fmt.Errorf("bad time: %w", err)
	}
	rec.Time = t

	tag, err := strconv.Atoi(cell(cols["tag"]))
	if err != nil {
		return rec, fmt.Errorf("bad tag: %w", err)
	}
	rec.Tag = tag

	count, err := strconv.ParseInt(cell(cols["count"]), 10, 64)
	if err != nil {
		return rec, fmt.Errorf("bad count: %w", err)
	}
	rec.Count = count

	value, quality, err := ParseValues(cell(cols["values"]))
	if err != nil {
		return rec, err
	}
	rec.Value = value
	rec.Quality = quality

	if hasStreamType {
		rec.StreamType = cell(streamTypeCol)
	}
	return rec, nil
}

// ParseValues normalizes a values cell into its value and quality floats.
// Quality is NaN when the cell carries no quality part.
func ParseValues(raw string) (value, quality float64, err error) {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v, frame.MissingQuality(), nil
	}

	parts := strings.Split(raw, ";")
	if len(parts) != 2 {
		return 0, 0, everrors.ShapeError(raw, nil)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, everrors.ShapeError(raw, err)
	}
	q, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, everrors.ShapeError(raw, err)
	}
	return v, q, nil
}

// parseEpoch parses seconds since epoch, integer or fractional.
func parseEpoch(raw string) (time.Time, error) {
	if sec, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, err
	}
	sec := int64(f)
	nanos := int64(math.Round((f - float64(sec)) * float64(time.Second)))
	return time.Unix(sec, nanos).UTC(), nil
}

// rowKey identifies an exact duplicate row. Float fields are compared by
// bit pattern; the quality NaN produced by ParseValues is a single
// canonical pattern, so duplicate no-quality rows still collapse.
type rowKey struct {
	timeNanos  int64
	tag        int
	valueBits  uint64
	qualBits   uint64
	count      int64
	streamType string
}

func makeRowKey(rec frame.Record) rowKey {
	return rowKey{
		timeNanos:  rec.Time.UnixNano(),
		tag:        rec.Tag,
		valueBits:  math.Float64bits(rec.Value),
		qualBits:   math.Float64bits(rec.Quality),
		count:      rec.Count,
		streamType: rec.StreamType,
	}
}
