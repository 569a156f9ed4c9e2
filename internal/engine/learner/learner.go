// Package learner derives the design-pattern baseline from the current fact set.
package learner

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/drift/internal/core/domain"
)

// preferredUnits are the spacing grids the learned GCD snaps to, largest first.
var preferredUnits = []int{16, 8, 4}

// semanticFamilies are substrings marking a color literal as semantic
// (error/warning/success/info) rather than palette material.
var semanticFamilies = []string{"error", "warning", "success", "info", "danger", "alert"}

// canonicalSemanticHexes are exact hex literals conventionally used for
// semantic states.
var canonicalSemanticHexes = map[string]bool{
	"#ff0000": true, "#f00": true,
	"#00ff00": true, "#0f0": true,
	"#ffa500": true,
	"#ffff00": true, "#ff0": true,
	"#0000ff": true, "#00f": true,
}

// paletteCap bounds the primary and secondary color buckets.
const paletteCap = 3

// ExtractProfile learns the design baseline from the given cache entries.
// It is a pure function of its input: identical entries always produce an
// identical profile. Entries are expected sorted by path, which fixes the
// first-seen order used to break frequency ties.
func ExtractProfile(entries []*domain.CacheEntry) *domain.DesignPatternProfile {
	var (
		spacing    []float64
		colorSeq   []string
		sizeSeq    []string
		weightSeq  []string
		components = make(map[string]*domain.ComponentUsage)
		compOrder  []string
	)

	for _, entry := range entries {
		switch facts := entry.Facts.(type) {
		case *domain.ComponentFacts:
			spacing = append(spacing, facts.Spacing...)
			colorSeq = append(colorSeq, facts.Colors...)
			sizeSeq = append(sizeSeq, facts.FontSizes...)
			for _, decl := range facts.Components {
				usage, ok := components[decl.Name]
				if !ok {
					usage = &domain.ComponentUsage{Name: decl.Name}
					components[decl.Name] = usage
					compOrder = append(compOrder, decl.Name)
				}
				usage.Count++
				usage.Props = unionSorted(usage.Props, decl.Props)
				usage.Locations = appendUnique(usage.Locations, entry.Path)
			}
		case *domain.StyleFacts:
			spacing = append(spacing, facts.Spacing...)
			colorSeq = append(colorSeq, facts.Colors...)
			sizeSeq = append(sizeSeq, facts.FontSizes...)
			weightSeq = append(weightSeq, facts.FontWeights...)
		case *domain.MarkupFacts:
			for _, name := range facts.ComponentsUsed {
				usage, ok := components[name]
				if !ok {
					usage = &domain.ComponentUsage{Name: name}
					components[name] = usage
					compOrder = append(compOrder, name)
				}
				usage.Count++
				usage.Locations = appendUnique(usage.Locations, entry.Path)
			}
		}
	}

	profile := &domain.DesignPatternProfile{
		Colors:     bucketColors(colorSeq),
		Typography: learnTypography(sizeSeq, weightSeq),
	}
	profile.SpacingUnit, profile.SpacingConfidence = learnSpacingUnit(spacing)
	profile.SpacingValues = uniqueSortedFloats(spacing)
	profile.ComponentUsage = sortUsage(components, compOrder)
	profile.Naming = inferNaming(compOrder)
	return profile
}

// learnSpacingUnit picks the GCD of all observed spacing magnitudes, snapped
// to the largest preferred unit that divides it. Confidence is the share of
// observed values divisible by the chosen unit.
func learnSpacingUnit(values []float64) (int, float64) {
	ints := make([]int, 0, len(values))
	for _, v := range values {
		magnitude := int(math.Round(math.Abs(v)))
		if magnitude > 0 {
			ints = append(ints, magnitude)
		}
	}
	if len(ints) == 0 {
		return 0, 0
	}

	unit := ints[0]
	for _, v := range ints[1:] {
		unit = gcd(unit, v)
	}
	for _, preferred := range preferredUnits {
		if unit%preferred == 0 {
			unit = preferred
			break
		}
	}

	divisible := 0
	for _, v := range ints {
		if v%unit == 0 {
			divisible++
		}
	}
	return unit, float64(divisible) / float64(len(ints)) * 100
}

// bucketColors classifies each distinct color and assigns the remainder to
// primary/secondary by frequency, first-seen order breaking ties.
func bucketColors(colors []string) domain.ColorBuckets {
	counts := make(map[string]int)
	var order []string
	for _, raw := range colors {
		c := strings.ToLower(strings.TrimSpace(raw))
		if c == "" {
			continue
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}

	var buckets domain.ColorBuckets
	var remaining []string
	for _, c := range order {
		switch {
		case isGrayscale(c):
			buckets.Neutral = append(buckets.Neutral, c)
		case isSemantic(c):
			buckets.Semantic = append(buckets.Semantic, c)
		default:
			remaining = append(remaining, c)
		}
	}

	// Stable sort keeps first-seen order among equal frequencies.
	sort.SliceStable(remaining, func(i, j int) bool {
		return counts[remaining[i]] > counts[remaining[j]]
	})
	for i, c := range remaining {
		switch {
		case i < paletteCap:
			buckets.Primary = append(buckets.Primary, c)
		case i < 2*paletteCap:
			buckets.Secondary = append(buckets.Secondary, c)
		}
	}
	return buckets
}

// isGrayscale reports whether a hex literal has equal RGB channels.
func isGrayscale(color string) bool {
	if !strings.HasPrefix(color, "#") {
		return color == "white" || color == "black" || color == "gray" || color == "grey"
	}
	hex := color[1:]
	switch len(hex) {
	case 3:
		return hex[0] == hex[1] && hex[1] == hex[2]
	case 6:
		return hex[0:2] == hex[2:4] && hex[2:4] == hex[4:6]
	default:
		return false
	}
}

// isSemantic reports whether a color belongs to a canonical state family.
func isSemantic(color string) bool {
	if canonicalSemanticHexes[color] {
		return true
	}
	for _, family := range semanticFamilies {
		if strings.Contains(color, family) {
			return true
		}
	}
	return false
}

// learnTypography normalizes size literals to pixels and weight keywords to
// their numeric values, deduplicated and sorted.
func learnTypography(sizes, weights []string) domain.Typography {
	var t domain.Typography

	seenSizes := make(map[float64]bool)
	for _, raw := range sizes {
		px, ok := NormalizeFontSize(raw)
		if !ok || seenSizes[px] {
			continue
		}
		seenSizes[px] = true
		t.Sizes = append(t.Sizes, px)
	}
	sort.Float64s(t.Sizes)

	seenWeights := make(map[int]bool)
	for _, raw := range weights {
		w, ok := normalizeFontWeight(raw)
		if !ok || seenWeights[w] {
			continue
		}
		seenWeights[w] = true
		t.Weights = append(t.Weights, w)
	}
	sort.Ints(t.Weights)
	return t
}

// NormalizeFontSize converts a CSS size literal to pixels. rem and em scale
// by the conventional 16px root; bare numbers are taken as pixels already.
func NormalizeFontSize(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	factor := 1.0
	switch {
	case strings.HasSuffix(s, "rem"):
		s, factor = strings.TrimSuffix(s, "rem"), 16
	case strings.HasSuffix(s, "em"):
		s, factor = strings.TrimSuffix(s, "em"), 16
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "pt"):
		s, factor = strings.TrimSuffix(s, "pt"), 4.0/3.0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v * factor, true
}

// normalizeFontWeight converts a weight literal to its numeric value.
func normalizeFontWeight(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "normal", "regular":
		return 400, true
	case "bold":
		return 700, true
	case "lighter":
		return 300, true
	case "bolder":
		return 800, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > 1000 {
		return 0, false
	}
	return v, true
}

// sortUsage orders component usage by count descending, first-seen on ties.
func sortUsage(components map[string]*domain.ComponentUsage, order []string) []domain.ComponentUsage {
	out := make([]domain.ComponentUsage, 0, len(order))
	for _, name := range order {
		out = append(out, *components[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// inferNaming returns the majority casing style of the component names.
func inferNaming(names []string) domain.NamingConvention {
	if len(names) == 0 {
		return ""
	}
	counts := make(map[domain.NamingConvention]int)
	for _, name := range names {
		counts[ClassifyCasing(name)]++
	}

	best, bestCount := domain.NamingConvention(""), 0
	for _, conv := range []domain.NamingConvention{
		domain.NamingPascal, domain.NamingCamel, domain.NamingKebab, domain.NamingSnake,
	} {
		if counts[conv] > bestCount {
			best, bestCount = conv, counts[conv]
		}
	}
	return best
}

// ClassifyCasing determines the casing style of a single identifier.
// Identifiers that fit no style classify as PascalCase when they start with
// an upper-case letter and camelCase otherwise.
func ClassifyCasing(name string) domain.NamingConvention {
	switch {
	case strings.Contains(name, "-"):
		return domain.NamingKebab
	case strings.Contains(name, "_"):
		return domain.NamingSnake
	case name != "" && name[0] >= 'A' && name[0] <= 'Z':
		return domain.NamingPascal
	default:
		return domain.NamingCamel
	}
}

// unionSorted merges two prop sets into a sorted, deduplicated slice.
func unionSorted(existing, add []string) []string {
	seen := make(map[string]bool, len(existing)+len(add))
	out := make([]string, 0, len(existing)+len(add))
	for _, s := range existing {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range add {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// appendUnique appends s if it is not already the last or any prior element.
func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// uniqueSortedFloats deduplicates and sorts the observed spacing values.
func uniqueSortedFloats(values []float64) []float64 {
	seen := make(map[float64]bool, len(values))
	out := make([]float64, 0, len(values))
	for _, v := range values {
		v = math.Abs(v)
		if v == 0 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
