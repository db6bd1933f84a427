package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter provides CSV export functionality.
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteCSV writes headers and records to the given path, creating the
// parent directory if needed.
func (w *CSVWriter) WriteCSV(path string, headers []string, records [][]string) error {
	slog.Debug("Writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return writer.Error()
}
