package text

import (
	"context"
	"io"
	"regexp"
)

// Rule defines a single pattern substitution
type Rule struct {
	// Name identifies the rule in hit counts and logs
	Name string

	// Pattern is matched against the whole buffer, not line by line
	Pattern *regexp.Regexp

	// Template is expanded for every match (see regexp.Regexp.Expand)
	Template string
}

// RuleHit records how many matches a rule replaced
type RuleHit struct {
	Name  string
	Count int
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made across all rules
	ReplacementCount int

	// Hits has one entry per rule, in rule order
	Hits []RuleHit

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies the rules to the content, in order. Each rule sees
	// the output of the rule before it.
	ReplaceText(ctx context.Context, content io.Reader, rules []Rule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []Rule) error
}
