package domain

import "time"

// Default configuration values.
const (
	// DefaultDebounce is the per-path quiet period before a change settles.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultCacheBudget is the serialized-facts size budget (32 MiB).
	DefaultCacheBudget = int64(32 << 20)
	// DefaultSnapshotTTL is how long a persisted snapshot stays trustworthy.
	DefaultSnapshotTTL = 24 * time.Hour
	// DefaultExtractTimeout is the soft per-file extraction timeout.
	DefaultExtractTimeout = 5 * time.Second
	// DefaultHistory is the metric sample ring buffer size.
	DefaultHistory = 100
	// DefaultMaxFileSize is the per-file size skip policy (1 MiB).
	DefaultMaxFileSize = int64(1 << 20)
)

// DefaultIncludes are the glob patterns watched when none are configured.
var DefaultIncludes = []string{
	"**/*.tsx", "**/*.jsx", "**/*.vue",
	"**/*.css", "**/*.scss", "**/*.less",
	"**/*.html",
}

// DefaultExcludes are glob patterns never observed.
var DefaultExcludes = []string{
	"node_modules/**", ".git/**", "dist/**", "build/**", ".drift/**",
}

// Config carries the session configuration supplied by the configuration
// collaborator. Zero values mean "use the default" (or "learn" for the
// spacing grid and naming convention).
type Config struct {
	Root             string
	Include          []string
	Exclude          []string
	Debounce         time.Duration
	SpacingGrid      int
	Naming           NamingConvention
	Rules            map[RuleID]Severity
	CacheBudget      int64
	SnapshotTTL      time.Duration
	Parallelism      int
	ExtractTimeout   time.Duration
	History          int
	MaxFileSize      int64
	RevalidateOnLoad bool
}

// DefaultRuleSeverities is the severity table applied when a rule has no
// configured severity.
func DefaultRuleSeverities() map[RuleID]Severity {
	return map[RuleID]Severity{
		RuleNaming:         SeverityWarning,
		RuleInlineStyle:    SeverityWarning,
		RuleHardcodedColor: SeverityWarning,
		RuleSpacing:        SeverityWarning,
		RuleTypography:     SeverityWarning,
		RuleComponentDup:   SeverityWarning,
		RuleAccessibility:  SeverityError,
	}
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if len(c.Include) == 0 {
		c.Include = DefaultIncludes
	}
	if len(c.Exclude) == 0 {
		c.Exclude = DefaultExcludes
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.CacheBudget <= 0 {
		c.CacheBudget = DefaultCacheBudget
	}
	if c.SnapshotTTL <= 0 {
		c.SnapshotTTL = DefaultSnapshotTTL
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 4
	}
	if c.ExtractTimeout <= 0 {
		c.ExtractTimeout = DefaultExtractTimeout
	}
	if c.History <= 0 {
		c.History = DefaultHistory
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.Rules == nil {
		c.Rules = make(map[RuleID]Severity)
	}
	for rule, sev := range DefaultRuleSeverities() {
		if _, ok := c.Rules[rule]; !ok {
			c.Rules[rule] = sev
		}
	}
}

// SeverityFor returns the configured severity for a rule.
func (c *Config) SeverityFor(rule RuleID) Severity {
	if sev, ok := c.Rules[rule]; ok {
		return sev
	}
	if sev, ok := DefaultRuleSeverities()[rule]; ok {
		return sev
	}
	return SeverityWarning
}
