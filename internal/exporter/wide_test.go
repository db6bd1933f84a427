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
)

func TestWriteWideFrame(t *testing.T) {
	f := frame.NewIndexed([]time.Time{ts(100), ts(101)})
	require.NoError(t, f.AddColumn("heart_rate", []float64{62, math.NaN()}))
	require.NoError(t, f.AddColumn("gsr_electrode", []float64{math.NaN(), 1.25}))

	path := filepath.Join(t.TempDir(), "combined", "data.csv")
	require.NoError(t, NewCSVWriter().WriteWideFrame(path, f))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "time,heart_rate,gsr_electrode", lines[0])
	assert.Equal(t, "1970-01-01T00:01:40Z,62,", lines[1])
	assert.Equal(t, "1970-01-01T00:01:41Z,,1.25", lines[2])
}

func TestWriteWideFrameEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, NewCSVWriter().WriteWideFrame(path, frame.NewWideFrame()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "time", strings.TrimSpace(string(content)))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "integer value", input: 62, expected: "62"},
		{name: "fraction", input: 0.9, expected: "0.9"},
		{name: "missing value", input: math.NaN(), expected: ""},
		{name: "negative", input: -1.5, expected: "-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}
