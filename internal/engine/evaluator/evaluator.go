// Package evaluator checks the current fact set against the learned baseline.
package evaluator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
	"go.trai.ch/drift/internal/engine/learner"
)

// duplicationThreshold is the minimum usage count before a component is
// considered established enough to flag look-alike variants against.
const duplicationThreshold = 3

// Report is the outcome of one drift evaluation over the full fact set.
type Report struct {
	Violations          []domain.Violation
	Score               int
	FilesWithViolations int
	TotalFiles          int
}

// Rule checks one entry against the profile and returns its findings.
// Rules are pure functions and must not mutate their inputs.
type Rule func(entry *domain.CacheEntry, profile *domain.DesignPatternProfile, cfg *domain.Config) []domain.Violation

// ruleTable binds each rule ID to its implementation.
var ruleTable = []struct {
	id   domain.RuleID
	rule Rule
}{
	{domain.RuleNaming, checkNaming},
	{domain.RuleInlineStyle, checkInlineStyles},
	{domain.RuleHardcodedColor, checkHardcodedColors},
	{domain.RuleSpacing, checkSpacing},
	{domain.RuleTypography, checkTypography},
	{domain.RuleComponentDup, checkComponentDuplication},
	{domain.RuleAccessibility, checkAccessibility},
}

// Evaluator runs the rule table over cache entries.
type Evaluator struct {
	logger ports.Logger
}

// New creates an evaluator. The logger receives rule panics, which are
// recovered per file and never abort an evaluation.
func New(logger ports.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Evaluate applies every enabled rule to every entry and aggregates the
// compliance score. A panicking rule is recovered and counts as zero
// violations for that file only; findings from other files are unaffected.
func (e *Evaluator) Evaluate(entries []*domain.CacheEntry, profile *domain.DesignPatternProfile, cfg *domain.Config) Report {
	report := Report{TotalFiles: len(entries)}

	for _, entry := range entries {
		found := e.evaluateEntry(entry, profile, cfg)
		if len(found) > 0 {
			report.FilesWithViolations++
			report.Violations = append(report.Violations, found...)
		}
	}

	report.Score = score(report)
	return report
}

// evaluateEntry runs all rules for a single entry with panic isolation.
func (e *Evaluator) evaluateEntry(entry *domain.CacheEntry, profile *domain.DesignPatternProfile, cfg *domain.Config) (found []domain.Violation) {
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Warn(fmt.Sprintf("rule panic evaluating %s: %v", entry.Path, r))
			}
			found = nil
		}
	}()

	for _, binding := range ruleTable {
		severity := cfg.SeverityFor(binding.id)
		if severity == domain.SeverityOff {
			continue
		}
		for _, v := range binding.rule(entry, profile, cfg) {
			v.Rule = binding.id
			v.Severity = severity
			v.Path = entry.Path
			found = append(found, v)
		}
	}
	return found
}

// score computes the compliance score, clamped to [0,100].
func score(r Report) int {
	errs, warns := 0, 0
	for _, v := range r.Violations {
		switch v.Severity {
		case domain.SeverityError:
			errs++
		case domain.SeverityWarning:
			warns++
		}
	}

	spread := 0
	if r.TotalFiles > 0 {
		spread = int(math.Round(100 * float64(r.FilesWithViolations) / float64(r.TotalFiles)))
	}

	s := 100 - 5*errs - 2*warns - spread
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// checkNaming flags component declarations that do not follow the configured
// or learned casing convention.
func checkNaming(entry *domain.CacheEntry, profile *domain.DesignPatternProfile, cfg *domain.Config) []domain.Violation {
	facts, ok := entry.Facts.(*domain.ComponentFacts)
	if !ok {
		return nil
	}
	convention := cfg.Naming
	if convention == "" {
		convention = profile.Naming
	}
	if convention == "" {
		return nil
	}

	var out []domain.Violation
	for _, decl := range facts.Components {
		if learner.ClassifyCasing(decl.Name) == convention {
			continue
		}
		out = append(out, domain.Violation{
			Message:      fmt.Sprintf("component %q does not follow %s", decl.Name, convention),
			SuggestedFix: fmt.Sprintf("rename %q to match %s", decl.Name, convention),
		})
	}
	return out
}

// checkInlineStyles flags any inline style usage in component files.
func checkInlineStyles(entry *domain.CacheEntry, _ *domain.DesignPatternProfile, _ *domain.Config) []domain.Violation {
	facts, ok := entry.Facts.(*domain.ComponentFacts)
	if !ok || facts.InlineStyles == 0 {
		return nil
	}
	return []domain.Violation{{
		Message:      fmt.Sprintf("%d inline style(s) found", facts.InlineStyles),
		SuggestedFix: "move inline styles into a stylesheet or design tokens",
	}}
}

// checkHardcodedColors flags color literals in component files that fall
// outside the learned palette.
func checkHardcodedColors(entry *domain.CacheEntry, profile *domain.DesignPatternProfile, _ *domain.Config) []domain.Violation {
	facts, ok := entry.Facts.(*domain.ComponentFacts)
	if !ok {
		return nil
	}

	var out []domain.Violation
	seen := make(map[string]bool)
	for _, raw := range facts.Colors {
		color := strings.ToLower(strings.TrimSpace(raw))
		if color == "" || seen[color] || profile.Colors.Contains(color) {
			continue
		}
		seen[color] = true
		out = append(out, domain.Violation{
			Message:      fmt.Sprintf("hardcoded color %q is not in the learned palette", color),
			SuggestedFix: "use a palette token instead of a raw color literal",
		})
	}
	return out
}

// checkSpacing flags spacing values not divisible by the spacing unit.
// A configured grid overrides the learned unit.
func checkSpacing(entry *domain.CacheEntry, profile *domain.DesignPatternProfile, cfg *domain.Config) []domain.Violation {
	unit := cfg.SpacingGrid
	if unit == 0 {
		unit = profile.SpacingUnit
	}
	if unit <= 1 {
		return nil
	}

	var values []float64
	switch facts := entry.Facts.(type) {
	case *domain.ComponentFacts:
		values = facts.Spacing
	case *domain.StyleFacts:
		values = facts.Spacing
	default:
		return nil
	}

	var out []domain.Violation
	seen := make(map[float64]bool)
	for _, v := range values {
		magnitude := math.Abs(v)
		if magnitude == 0 || seen[magnitude] {
			continue
		}
		seen[magnitude] = true
		if math.Mod(magnitude, float64(unit)) != 0 {
			out = append(out, domain.Violation{
				Message:      fmt.Sprintf("spacing value %g is not on the %dpx grid", v, unit),
				SuggestedFix: fmt.Sprintf("round %g to a multiple of %d", v, unit),
			})
		}
	}
	return out
}

// checkTypography flags font sizes outside the learned typographic scale.
func checkTypography(entry *domain.CacheEntry, profile *domain.DesignPatternProfile, _ *domain.Config) []domain.Violation {
	if len(profile.Typography.Sizes) == 0 {
		return nil
	}

	var sizes []string
	switch facts := entry.Facts.(type) {
	case *domain.ComponentFacts:
		sizes = facts.FontSizes
	case *domain.StyleFacts:
		sizes = facts.FontSizes
	default:
		return nil
	}

	var out []domain.Violation
	seen := make(map[float64]bool)
	for _, raw := range sizes {
		px, ok := learner.NormalizeFontSize(raw)
		if !ok || seen[px] {
			continue
		}
		seen[px] = true
		if !containsFloat(profile.Typography.Sizes, px) {
			out = append(out, domain.Violation{
				Message:      fmt.Sprintf("font size %s (%gpx) is outside the learned scale", raw, px),
				SuggestedFix: "use a size from the typographic scale",
			})
		}
	}
	return out
}

// checkComponentDuplication flags component names that look like unmanaged
// variants of an established, more-used component.
func checkComponentDuplication(entry *domain.CacheEntry, profile *domain.DesignPatternProfile, _ *domain.Config) []domain.Violation {
	facts, ok := entry.Facts.(*domain.ComponentFacts)
	if !ok {
		return nil
	}

	var out []domain.Violation
	for _, decl := range facts.Components {
		base := preferredBase(decl.Name, profile)
		if base == "" {
			continue
		}
		out = append(out, domain.Violation{
			Message:      fmt.Sprintf("component %q looks like a variant of %q", decl.Name, base),
			SuggestedFix: fmt.Sprintf("extend %q with props instead of a new component", base),
		})
	}
	return out
}

// preferredBase returns the established component this name appears to be a
// variant of, picking the most-used candidate on ties.
func preferredBase(name string, profile *domain.DesignPatternProfile) string {
	own, _ := profile.Usage(name)

	candidates := make([]domain.ComponentUsage, 0, 2)
	for _, usage := range profile.ComponentUsage {
		if usage.Name == name || !strings.Contains(name, usage.Name) {
			continue
		}
		if usage.Count < duplicationThreshold || usage.Count <= own.Count {
			continue
		}
		candidates = append(candidates, usage)
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Count > candidates[j].Count })
	return candidates[0].Name
}

// checkAccessibility flags unlabeled interactive controls and images without
// alt text.
func checkAccessibility(entry *domain.CacheEntry, _ *domain.DesignPatternProfile, _ *domain.Config) []domain.Violation {
	var out []domain.Violation
	switch facts := entry.Facts.(type) {
	case *domain.ComponentFacts:
		if facts.UnlabeledControls > 0 {
			out = append(out, domain.Violation{
				Message:      fmt.Sprintf("%d interactive control(s) without an accessible label", facts.UnlabeledControls),
				SuggestedFix: "add aria-label or associated label elements",
			})
		}
	case *domain.MarkupFacts:
		if facts.UnlabeledControls > 0 {
			out = append(out, domain.Violation{
				Message:      fmt.Sprintf("%d interactive control(s) without an accessible label", facts.UnlabeledControls),
				SuggestedFix: "add aria-label or associated label elements",
			})
		}
		if missing := facts.Images - facts.ImagesWithAlt; missing > 0 {
			out = append(out, domain.Violation{
				Message:      fmt.Sprintf("%d image(s) missing alt text", missing),
				SuggestedFix: "add alt attributes describing the image content",
			})
		}
	}
	return out
}

func containsFloat(values []float64, v float64) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
