package exporter

import (
	"fmt"
	"math"
	"path/filepath"

	"everion/internal/frame"
)

// WriteRawTable persists one raw stream table in the original wire
// format: time truncated to whole epoch seconds, and values re-encoded as
// "value;quality" for rows that carry a quality reading. The streamType
// column appears only when the source table had one.
func (w *CSVWriter) WriteRawTable(path string, table *frame.RawTable) error {
	headers := []string{"count", "tag", "time", "values"}
	if table.HasStreamType {
		headers = []string{"count", "streamType", "tag", "time", "values"}
	}

	records := make([][]string, 0, len(table.Records))
	for _, rec := range table.Records {
		row := make([]string, 0, len(headers))
		row = append(row, formatInt(rec.Count))
		if table.HasStreamType {
			row = append(row, rec.StreamType)
		}
		row = append(row,
			formatInt(int64(rec.Tag)),
			formatInt(rec.Time.Unix()),
			encodeValues(rec.Value, rec.Quality),
		)
		records = append(records, row)
	}
	if err := w.WriteCSV(path, headers, records); err != nil {
		return fmt.Errorf("failed to persist raw table %s: %w", table.Name, err)
	}
	return nil
}

// WriteRawTables persists every given table as <stream>.csv under dir.
func (w *CSVWriter) WriteRawTables(dir string, tables map[string]*frame.RawTable) error {
	for name, table := range tables {
		if table == nil {
			continue
		}
		path := filepath.Join(dir, name+".csv")
		if err := w.WriteRawTable(path, table); err != nil {
			return err
		}
	}
	return nil
}

// encodeValues merges the split value and quality columns back into the
// wire format.
func encodeValues(value, quality float64) string {
	if math.IsNaN(quality) {
		return formatFloat(value)
	}
	return formatFloat(value) + ";" + formatFloat(quality)
}
