package config

// Driftfile represents the structure of the drift.yaml configuration file.
type Driftfile struct {
	Version string            `yaml:"version"`
	Include []string          `yaml:"include"`
	Exclude []string          `yaml:"exclude"`
	Watch   WatchDTO          `yaml:"watch"`
	Cache   CacheDTO          `yaml:"cache"`
	Style   StyleDTO          `yaml:"style"`
	Rules   map[string]string `yaml:"rules"`
}

// WatchDTO configures the change detector.
type WatchDTO struct {
	Debounce string `yaml:"debounce"`
}

// CacheDTO configures the incremental cache.
type CacheDTO struct {
	Budget         int64  `yaml:"budget"`
	SnapshotTTL    string `yaml:"snapshotTTL"`
	Parallelism    int    `yaml:"parallelism"`
	ExtractTimeout string `yaml:"extractTimeout"`
	MaxFileSize    int64  `yaml:"maxFileSize"`
	Revalidate     bool   `yaml:"revalidate"`
	History        int    `yaml:"history"`
}

// StyleDTO overrides learned style baselines.
type StyleDTO struct {
	SpacingGrid int    `yaml:"spacingGrid"`
	Naming      string `yaml:"naming"`
}
