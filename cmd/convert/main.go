// Command convert loads a raw Everion device export, reshapes it into the
// combined wide table, optionally timeshifts it, and writes the results.
package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"everion/internal/config"
	"everion/internal/dataset"
	"everion/internal/exporter"
	"everion/internal/infrastructure"
)

func main() {
	inDir := flag.String("in", "", "device export directory (defaults to configured input dir)")
	outDir := flag.String("out", "", "output directory (defaults to configured output dir)")
	shift := flag.Duration("shift", 0, "shift all timestamps by this duration (e.g. -720h)")
	anchor := flag.String("anchor", "", "re-anchor each stream's earliest record to this RFC3339 timestamp")
	randomShift := flag.Bool("random-shift", false, "shift timestamps into the past by a random 30-730 day offset")
	seed := flag.Int64("seed", 0, "seed for the random shift (0 uses the current time)")
	writeXLSX := flag.Bool("xlsx", false, "additionally write the combined table as an xlsx workbook")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *inDir == "" {
		*inDir = cfg.Paths.InputDir
	}
	if *outDir == "" {
		*outDir = cfg.Paths.OutputDir
	}

	modes := 0
	for _, enabled := range []bool{*shift != 0, *anchor != "", *randomShift} {
		if enabled {
			modes++
		}
	}
	if modes > 1 {
		logger.Error("At most one of -shift, -anchor and -random-shift may be given")
		os.Exit(1)
	}

	opts := []dataset.Option{dataset.WithLogger(logger)}
	if *seed != 0 {
		opts = append(opts, dataset.WithRand(rand.New(rand.NewSource(*seed))))
	}

	logger.Info("Loading device export", slog.String("input_dir", *inDir))
	ds, err := dataset.Open(*inDir, opts...)
	if err != nil {
		logger.Error("Failed to open device export", slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch {
	case *shift != 0:
		if err := ds.Timeshift(*shift); err != nil {
			logger.Error("Timeshift failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case *anchor != "":
		at, err := time.Parse(time.RFC3339, *anchor)
		if err != nil {
			logger.Error("Invalid anchor timestamp", slog.String("anchor", *anchor), slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := ds.TimeshiftTo(at); err != nil {
			logger.Error("Anchor timeshift failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case *randomShift:
		if err := ds.TimeshiftRandom(); err != nil {
			logger.Error("Random timeshift failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := ds.Write(*outDir); err != nil {
		logger.Error("Failed to persist raw tables", slog.String("error", err.Error()))
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter()
	combinedCSV := filepath.Join(*outDir, "combined", "data.csv")
	if err := writer.WriteWideFrame(combinedCSV, ds.Data()); err != nil {
		logger.Error("Failed to write combined CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Wrote combined table",
		slog.String("path", combinedCSV),
		slog.Int("rows", ds.Data().Len()),
		slog.Int("columns", len(ds.Data().Columns())))

	if *writeXLSX {
		combinedXLSX := filepath.Join(*outDir, "combined", "data.xlsx")
		if err := exporter.WriteWideFrameXLSX(combinedXLSX, ds.Data()); err != nil {
			logger.Error("Failed to write combined workbook", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("Conversion complete")
}
