package exporter

import (
	"fmt"

	"everion/internal/frame"
)

// WriteWideFrame writes the combined wide table as CSV: a time column
// followed by one column per semantic name, blanks where a timestamp has
// no reading.
func (w *CSVWriter) WriteWideFrame(path string, f *frame.WideFrame) error {
	columns := f.Columns()
	headers := append([]string{"time"}, columns...)

	index := f.Index()
	records := make([][]string, 0, len(index))
	for row, t := range index {
		record := make([]string, 0, len(headers))
		record = append(record, formatTime(t))
		for _, name := range columns {
			record = append(record, formatFloat(f.At(row, name)))
		}
		records = append(records, record)
	}
	if err := w.WriteCSV(path, headers, records); err != nil {
		return fmt.Errorf("failed to write combined table: %w", err)
	}
	return nil
}
