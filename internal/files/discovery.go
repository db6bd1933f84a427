package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// StreamNames are the seven known Everion export stream names.
var StreamNames = []string{
	"aggregates",
	"analytics_events",
	"attributes_dailys",
	"everion_events",
	"features",
	"sensor_data",
	"signals",
}

// Discovery provides stream file discovery in one export directory.
type Discovery struct {
	dir    string
	logger *slog.Logger
}

// NewDiscovery creates a discovery instance for the given directory.
func NewDiscovery(dir string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{dir: dir, logger: logger}
}

// FindStreamFiles maps each known stream name to the single file matching
// *<name>* in the directory. Missing and ambiguous streams are left out
// of the result.
func (d *Discovery) FindStreamFiles() (map[string]string, error) {
	info, err := os.Stat(d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat export directory %s: %w", d.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("export path %s is not a directory", d.dir)
	}

	found := make(map[string]string, len(StreamNames))
	for _, name := range StreamNames {
		pattern := filepath.Join(d.dir, "*"+name+"*")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		switch len(matches) {
		case 0:
			d.logger.Warn("No file matches stream pattern, continuing without it",
				slog.String("stream", name),
				slog.String("dir", d.dir))
		case 1:
			found[name] = matches[0]
		default:
			d.logger.Warn("Multiple files match stream pattern, skipping ambiguous stream",
				slog.String("stream", name),
				slog.String("dir", d.dir),
				slog.Int("matches", len(matches)))
		}
	}
	return found, nil
}
