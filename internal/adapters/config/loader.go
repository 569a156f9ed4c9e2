// Package config provides the configuration loader for drift.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// DiscoverRoot walks up from cwd to find the directory containing drift.yaml.
// When no config file exists anywhere up the tree, cwd itself is the root.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir := cwd
	for {
		if _, err := os.Stat(filepath.Join(currentDir, domain.ConfigFileName)); err == nil {
			return currentDir, nil
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached filesystem root without finding a config file.
			return cwd, nil
		}
		currentDir = parentDir
	}
}

// Load reads the configuration for the given working directory. A missing
// drift.yaml is not an error; defaults apply with cwd as the root.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}

	cfg := &domain.Config{Root: root}

	configPath := filepath.Join(root, domain.ConfigFileName)
	data, err := os.ReadFile(configPath) //nolint:gosec // Path derives from the discovered root
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file Driftfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	if err := applyFile(cfg, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// applyFile copies parsed DTO values onto the domain config.
func applyFile(cfg *domain.Config, file *Driftfile) error {
	cfg.Include = file.Include
	cfg.Exclude = file.Exclude
	cfg.SpacingGrid = file.Style.SpacingGrid
	cfg.CacheBudget = file.Cache.Budget
	cfg.Parallelism = file.Cache.Parallelism
	cfg.MaxFileSize = file.Cache.MaxFileSize
	cfg.RevalidateOnLoad = file.Cache.Revalidate
	cfg.History = file.Cache.History

	if file.Style.Naming != "" {
		naming, err := parseNaming(file.Style.Naming)
		if err != nil {
			return err
		}
		cfg.Naming = naming
	}

	durations := []struct {
		raw string
		dst *time.Duration
	}{
		{file.Watch.Debounce, &cfg.Debounce},
		{file.Cache.SnapshotTTL, &cfg.SnapshotTTL},
		{file.Cache.ExtractTimeout, &cfg.ExtractTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		}
		*d.dst = parsed
	}

	if len(file.Rules) > 0 {
		cfg.Rules = make(map[domain.RuleID]domain.Severity, len(file.Rules))
		for rule, sev := range file.Rules {
			parsed, err := parseSeverity(sev)
			if err != nil {
				return zerr.With(err, "rule", rule)
			}
			cfg.Rules[domain.RuleID(rule)] = parsed
		}
	}

	return nil
}

func parseSeverity(s string) (domain.Severity, error) {
	switch domain.Severity(s) {
	case domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo, domain.SeverityOff:
		return domain.Severity(s), nil
	default:
		return "", zerr.With(domain.ErrInvalidSeverity, "severity", s)
	}
}

func parseNaming(s string) (domain.NamingConvention, error) {
	switch domain.NamingConvention(s) {
	case domain.NamingPascal, domain.NamingCamel, domain.NamingKebab, domain.NamingSnake:
		return domain.NamingConvention(s), nil
	default:
		return "", zerr.With(domain.ErrInvalidNaming, "naming", s)
	}
}
