package catalog

// File is the top-level structure of the catalog YAML file produced by the
// station download/ETL step.
type File struct {
	Stations []StationEntry `yaml:"stations"`
}

// StationEntry is one raw catalog record as written by the ETL step.
// Only code, name and type are mandatory; everything else degrades to
// empty values.
type StationEntry struct {
	Code     string   `yaml:"code"`
	Name     string   `yaml:"name"`
	Region   string   `yaml:"region,omitempty"`
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords,omitempty"`
	Agency   string   `yaml:"agency,omitempty"`
}
