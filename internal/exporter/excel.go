package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"everion/internal/frame"
)

// ExcelSheetName is the sheet the combined table is written to.
const ExcelSheetName = "data"

// WriteWideFrameXLSX writes the combined wide table as an xlsx workbook
// for spreadsheet-based analysis. Missing cells are left empty.
func WriteWideFrameXLSX(path string, f *frame.WideFrame) error {
	slog.Debug("Writing combined xlsx workbook",
		slog.String("path", path),
		slog.Int("rows", f.Len()),
		slog.Int("columns", len(f.Columns())))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	book := excelize.NewFile()
	defer book.Close()

	index, err := book.NewSheet(ExcelSheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	book.SetActiveSheet(index)
	if err := book.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	columns := f.Columns()
	header := make([]interface{}, 0, len(columns)+1)
	header = append(header, "time")
	for _, name := range columns {
		header = append(header, name)
	}
	if err := book.SetSheetRow(ExcelSheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for row, t := range f.Index() {
		cells := make([]interface{}, 0, len(columns)+1)
		cells = append(cells, formatTime(t))
		for _, name := range columns {
			v := f.At(row, name)
			if math.IsNaN(v) {
				cells = append(cells, nil)
			} else {
				cells = append(cells, v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := book.SetSheetRow(ExcelSheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row+2, err)
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
