package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/logger"
)

// Loader reads and validates the station catalog file.
type Loader struct {
	filePath string
	logger   logger.Logger
}

// NewLoader creates a catalog loader for the given file path.
func NewLoader(filePath string, loggerClient logger.Logger) *Loader {
	return &Loader{
		filePath: filePath,
		logger:   loggerClient,
	}
}

// Load reads the catalog file and maps it into a Catalog. Malformed
// entries are skipped with a warning rather than failing the whole load;
// an empty resulting catalog is an error because nothing could ever match.
func (l *Loader) Load() (*Catalog, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	stations := make([]domain.Station, 0, len(file.Stations))
	for i, entry := range file.Stations {
		st, err := mapEntry(entry)
		if err != nil {
			l.logger.Warn("skipping malformed catalog entry",
				logger.Int("index", i),
				logger.String("code", entry.Code),
				logger.Error(err))
			continue
		}
		stations = append(stations, st)
	}

	if len(stations) == 0 {
		return nil, fmt.Errorf("catalog %s contains no usable stations", l.filePath)
	}

	return New(stations), nil
}

// mapEntry validates one raw entry and maps it to a domain station.
// Optional fields degrade to empty values; keywords are deduplicated.
func mapEntry(entry StationEntry) (domain.Station, error) {
	code := strings.TrimSpace(entry.Code)
	if code == "" {
		return domain.Station{}, fmt.Errorf("missing code")
	}

	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return domain.Station{}, fmt.Errorf("missing name")
	}

	typ, err := domain.ParseStationType(strings.TrimSpace(entry.Type))
	if err != nil {
		return domain.Station{}, err
	}

	return domain.Station{
		Code:     code,
		Name:     name,
		Region:   strings.TrimSpace(entry.Region),
		Type:     typ,
		Keywords: dedupeKeywords(entry.Keywords),
		Agency:   strings.TrimSpace(entry.Agency),
	}, nil
}

func dedupeKeywords(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(keywords))
	result := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		result = append(result, kw)
	}
	return result
}
