package domain

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// NamingConvention is a component naming casing style.
type NamingConvention string

const (
	// NamingPascal is PascalCase.
	NamingPascal NamingConvention = "PascalCase"
	// NamingCamel is camelCase.
	NamingCamel NamingConvention = "camelCase"
	// NamingKebab is kebab-case.
	NamingKebab NamingConvention = "kebab-case"
	// NamingSnake is snake_case.
	NamingSnake NamingConvention = "snake_case"
)

// ColorBuckets groups the learned palette by role.
type ColorBuckets struct {
	Primary   []string `json:"primary,omitempty"`
	Secondary []string `json:"secondary,omitempty"`
	Neutral   []string `json:"neutral,omitempty"`
	Semantic  []string `json:"semantic,omitempty"`
}

// Contains reports whether the color appears in any bucket.
func (b ColorBuckets) Contains(color string) bool {
	for _, bucket := range [][]string{b.Primary, b.Secondary, b.Neutral, b.Semantic} {
		for _, c := range bucket {
			if c == color {
				return true
			}
		}
	}
	return false
}

// Typography is the learned typographic scale, unit-normalized to pixels.
type Typography struct {
	Sizes   []float64 `json:"sizes,omitempty"`
	Weights []int     `json:"weights,omitempty"`
}

// ComponentUsage tracks one distinct component across the fact set.
type ComponentUsage struct {
	Name      string   `json:"name"`
	Count     int      `json:"count"`
	Props     []string `json:"props,omitempty"`
	Locations []string `json:"locations,omitempty"`
}

// DesignPatternProfile is the learned design baseline. It is derived from the
// current fact set, published as an immutable snapshot, and never hand-edited.
type DesignPatternProfile struct {
	SpacingUnit       int              `json:"spacingUnit"`
	SpacingValues     []float64        `json:"spacingValues,omitempty"`
	SpacingConfidence float64          `json:"spacingConfidence"`
	Colors            ColorBuckets     `json:"colors"`
	Typography        Typography       `json:"typography"`
	ComponentUsage    []ComponentUsage `json:"componentUsage,omitempty"`
	Naming            NamingConvention `json:"namingConvention,omitempty"`
}

// Usage returns the usage record for the given component name, if present.
func (p *DesignPatternProfile) Usage(name string) (ComponentUsage, bool) {
	for _, u := range p.ComponentUsage {
		if u.Name == name {
			return u, true
		}
	}
	return ComponentUsage{}, false
}

// Fingerprint returns a cheap content hash of the profile, used to decide
// whether the learned baseline actually changed between batches.
func (p *DesignPatternProfile) Fingerprint() uint64 {
	if p == nil {
		return 0
	}
	// Marshal is deterministic for a fixed struct shape.
	data, err := json.Marshal(p)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
