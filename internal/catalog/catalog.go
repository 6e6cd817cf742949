package catalog

import "github.com/hydrokr/stationd/internal/domain"

// Catalog is the static, read-only set of known stations. It is built once
// at startup and never mutated; insertion order is preserved so that search
// results have a deterministic tie-break.
type Catalog struct {
	stations []domain.Station
	byCode   map[string]domain.Station
}

// New builds a catalog from already-validated stations.
func New(stations []domain.Station) *Catalog {
	byCode := make(map[string]domain.Station, len(stations))
	for _, st := range stations {
		// First entry wins; codes are unique per type and near-unique
		// overall.
		if _, ok := byCode[st.Code]; !ok {
			byCode[st.Code] = st
		}
	}
	return &Catalog{stations: stations, byCode: byCode}
}

// All returns the stations in catalog order. Callers must not mutate the
// returned slice.
func (c *Catalog) All() []domain.Station {
	return c.stations
}

// FindByCode returns the station with the given code, if present.
func (c *Catalog) FindByCode(code string) (domain.Station, bool) {
	st, ok := c.byCode[code]
	return st, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.stations)
}

// CountByType returns how many entries exist per station type.
func (c *Catalog) CountByType() map[domain.StationType]int {
	counts := make(map[domain.StationType]int, 3)
	for _, st := range c.stations {
		counts[st.Type]++
	}
	return counts
}
