package exporter

import (
	"math"
	"strconv"
	"time"
)

// formatFloat formats a float for CSV output at full precision, with an
// empty string for missing values.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInt formats an int64 for CSV output.
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatTime formats a reconstructed timestamp for the combined exports.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
