package dataset

import (
	"fmt"
	"os"

	"everion/internal/exporter"
)

// Write persists every present raw table as <stream>.csv under dir in the
// original wire format, creating the directory if needed.
func (d *Dataset) Write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	writer := exporter.NewCSVWriter()
	return writer.WriteRawTables(dir, d.RawTables())
}
