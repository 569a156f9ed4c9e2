package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/engine/evaluator"
)

func testConfig() *domain.Config {
	cfg := &domain.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func violationsFor(report evaluator.Report, rule domain.RuleID) []domain.Violation {
	var out []domain.Violation
	for _, v := range report.Violations {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}

func TestEvaluate_SpacingOffGridValue(t *testing.T) {
	cfg := testConfig()
	cfg.SpacingGrid = 8

	entry := &domain.CacheEntry{
		Path:  "src/Button.tsx",
		Facts: &domain.ComponentFacts{Spacing: []float64{8, 16, 24, 7}},
	}

	report := evaluator.New(nil).Evaluate(
		[]*domain.CacheEntry{entry}, &domain.DesignPatternProfile{}, cfg,
	)

	spacing := violationsFor(report, domain.RuleSpacing)
	require.Len(t, spacing, 1, "exactly one spacing violation")
	assert.Contains(t, spacing[0].Message, "7")
	assert.Equal(t, "src/Button.tsx", spacing[0].Path)
	assert.Equal(t, domain.SeverityWarning, spacing[0].Severity)
}

func TestEvaluate_ComponentDuplication(t *testing.T) {
	profile := &domain.DesignPatternProfile{
		ComponentUsage: []domain.ComponentUsage{
			{Name: "Button", Count: 23},
			{Name: "SubmitButton", Count: 1},
		},
	}
	entry := &domain.CacheEntry{
		Path:  "src/SubmitButton.tsx",
		Facts: &domain.ComponentFacts{Components: []domain.ComponentDecl{{Name: "SubmitButton"}}},
	}

	report := evaluator.New(nil).Evaluate([]*domain.CacheEntry{entry}, profile, testConfig())

	dup := violationsFor(report, domain.RuleComponentDup)
	require.Len(t, dup, 1)
	assert.Contains(t, dup[0].Message, `"Button"`, "names the preferred component")
	assert.Contains(t, dup[0].SuggestedFix, `"Button"`)
}

func TestEvaluate_NoDuplicationBelowThreshold(t *testing.T) {
	profile := &domain.DesignPatternProfile{
		ComponentUsage: []domain.ComponentUsage{
			{Name: "Button", Count: 2},
			{Name: "SubmitButton", Count: 1},
		},
	}
	entry := &domain.CacheEntry{
		Path:  "src/SubmitButton.tsx",
		Facts: &domain.ComponentFacts{Components: []domain.ComponentDecl{{Name: "SubmitButton"}}},
	}

	report := evaluator.New(nil).Evaluate([]*domain.CacheEntry{entry}, profile, testConfig())
	assert.Empty(t, violationsFor(report, domain.RuleComponentDup))
}

func TestEvaluate_NamingConvention(t *testing.T) {
	cfg := testConfig()
	cfg.Naming = domain.NamingPascal

	entry := &domain.CacheEntry{
		Path: "src/widgets.tsx",
		Facts: &domain.ComponentFacts{Components: []domain.ComponentDecl{
			{Name: "GoodWidget"},
			{Name: "bad_widget"},
		}},
	}

	report := evaluator.New(nil).Evaluate(
		[]*domain.CacheEntry{entry}, &domain.DesignPatternProfile{}, cfg,
	)

	naming := violationsFor(report, domain.RuleNaming)
	require.Len(t, naming, 1)
	assert.Contains(t, naming[0].Message, "bad_widget")
}

func TestEvaluate_HardcodedColorOutsidePalette(t *testing.T) {
	profile := &domain.DesignPatternProfile{
		Colors: domain.ColorBuckets{Primary: []string{"#336699"}},
	}
	entry := &domain.CacheEntry{
		Path:  "src/Button.tsx",
		Facts: &domain.ComponentFacts{Colors: []string{"#336699", "#BADA55", "#bada55"}},
	}

	report := evaluator.New(nil).Evaluate([]*domain.CacheEntry{entry}, profile, testConfig())

	colors := violationsFor(report, domain.RuleHardcodedColor)
	require.Len(t, colors, 1, "palette hits and duplicates are not reported")
	assert.Contains(t, colors[0].Message, "#bada55")
}

func TestEvaluate_Accessibility(t *testing.T) {
	entries := []*domain.CacheEntry{
		{
			Path:  "src/Form.tsx",
			Facts: &domain.ComponentFacts{UnlabeledControls: 2},
		},
		{
			Path:  "index.html",
			Facts: &domain.MarkupFacts{Images: 3, ImagesWithAlt: 1},
		},
	}

	report := evaluator.New(nil).Evaluate(entries, &domain.DesignPatternProfile{}, testConfig())

	a11y := violationsFor(report, domain.RuleAccessibility)
	require.Len(t, a11y, 2)
	for _, v := range a11y {
		assert.Equal(t, domain.SeverityError, v.Severity, "accessibility defaults to error")
	}
}

func TestEvaluate_OffSuppressesRule(t *testing.T) {
	cfg := testConfig()
	cfg.Rules[domain.RuleInlineStyle] = domain.SeverityOff

	entry := &domain.CacheEntry{
		Path:  "src/Button.tsx",
		Facts: &domain.ComponentFacts{InlineStyles: 4},
	}

	report := evaluator.New(nil).Evaluate(
		[]*domain.CacheEntry{entry}, &domain.DesignPatternProfile{}, cfg,
	)
	assert.Empty(t, report.Violations)
	assert.Equal(t, 100, report.Score)
}

func TestEvaluate_ScoreBoundsAndMonotonicity(t *testing.T) {
	cfg := testConfig()
	cfg.SpacingGrid = 8

	clean := &domain.CacheEntry{
		Path:  "src/Clean.tsx",
		Facts: &domain.ComponentFacts{Spacing: []float64{8, 16}},
	}
	report := evaluator.New(nil).Evaluate(
		[]*domain.CacheEntry{clean}, &domain.DesignPatternProfile{}, cfg,
	)
	assert.Equal(t, 100, report.Score)

	// Pile on errors: the score degrades monotonically and clamps at zero.
	prev := 100
	entries := []*domain.CacheEntry{clean}
	for i := 0; i < 30; i++ {
		entries = append(entries, &domain.CacheEntry{
			Path:  "src/Broken.tsx",
			Facts: &domain.ComponentFacts{UnlabeledControls: 1},
		})
		report = evaluator.New(nil).Evaluate(entries, &domain.DesignPatternProfile{}, cfg)
		assert.LessOrEqual(t, report.Score, prev)
		assert.GreaterOrEqual(t, report.Score, 0)
		assert.LessOrEqual(t, report.Score, 100)
		prev = report.Score
	}
	assert.Zero(t, report.Score)
}

func TestEvaluate_ScoreFormula(t *testing.T) {
	cfg := testConfig()
	cfg.SpacingGrid = 8

	entries := []*domain.CacheEntry{
		{
			// 1 error (accessibility) + 1 warning (spacing).
			Path:  "src/Broken.tsx",
			Facts: &domain.ComponentFacts{Spacing: []float64{7}, UnlabeledControls: 1},
		},
		{
			Path:  "src/Clean.tsx",
			Facts: &domain.ComponentFacts{Spacing: []float64{8}},
		},
	}

	report := evaluator.New(nil).Evaluate(entries, &domain.DesignPatternProfile{}, cfg)

	// 100 - 5*1 - 2*1 - round(100*1/2) = 43
	assert.Equal(t, 43, report.Score)
	assert.Equal(t, 1, report.FilesWithViolations)
	assert.Equal(t, 2, report.TotalFiles)
}

func TestEvaluate_RulePanicIsIsolated(t *testing.T) {
	cfg := testConfig()
	cfg.Naming = domain.NamingPascal

	entries := []*domain.CacheEntry{
		{
			// A typed-nil facts pointer makes every component rule panic
			// for this entry.
			Path:  "src/Poison.tsx",
			Facts: (*domain.ComponentFacts)(nil),
		},
		{
			Path:  "src/Form.tsx",
			Facts: &domain.ComponentFacts{UnlabeledControls: 1},
		},
	}

	report := evaluator.New(nil).Evaluate(entries, &domain.DesignPatternProfile{}, cfg)

	a11y := violationsFor(report, domain.RuleAccessibility)
	require.Len(t, a11y, 1, "findings from healthy files survive a poisoned one")
	assert.Equal(t, "src/Form.tsx", a11y[0].Path)
	assert.Equal(t, 1, report.FilesWithViolations)
}
