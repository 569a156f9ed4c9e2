package domain

// Severity is the reporting level of a violation.
type Severity string

const (
	// SeverityError counts 5 points against the compliance score.
	SeverityError Severity = "error"
	// SeverityWarning counts 2 points against the compliance score.
	SeverityWarning Severity = "warning"
	// SeverityInfo is reported but does not affect the score.
	SeverityInfo Severity = "info"
	// SeverityOff suppresses emission of the rule entirely.
	SeverityOff Severity = "off"
)

// RuleID names a drift rule.
type RuleID string

const (
	// RuleNaming checks component names against the configured casing.
	RuleNaming RuleID = "naming-convention"
	// RuleInlineStyle flags inline style usage.
	RuleInlineStyle RuleID = "inline-style"
	// RuleHardcodedColor flags color literals outside the learned palette.
	RuleHardcodedColor RuleID = "hardcoded-color"
	// RuleSpacing flags spacing values not divisible by the spacing unit.
	RuleSpacing RuleID = "spacing-violation"
	// RuleTypography flags typography values outside the learned scale.
	RuleTypography RuleID = "typography-violation"
	// RuleComponentDup flags names suggesting unmanaged variants of an
	// existing, more-used component.
	RuleComponentDup RuleID = "component-duplication"
	// RuleAccessibility flags missing accessibility labels and alt text.
	RuleAccessibility RuleID = "missing-accessibility"
)

// Violation is a single rule finding. Violations are produced fresh per
// evaluation and never mutated after creation.
type Violation struct {
	Rule         RuleID   `json:"rule"`
	Severity     Severity `json:"severity"`
	Path         string   `json:"path"`
	Message      string   `json:"message"`
	SuggestedFix string   `json:"suggestedFix,omitempty"`
}
