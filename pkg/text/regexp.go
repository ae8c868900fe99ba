package text

import (
	"context"
	"io"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// templateRef matches $$, ${name} and $name references in an expansion template
var templateRef = regexp.MustCompile(`\$(?:\$|\{(\w+)\}|(\w+))`)

// RegexpReplacer implements TextReplacer with global regexp substitution
type RegexpReplacer struct{}

// NewRegexpReplacer creates a new RegexpReplacer
func NewRegexpReplacer() *RegexpReplacer {
	return &RegexpReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []Rule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	if err := r.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	logger := zerolog.Ctx(ctx)

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		Hits:            make([]RuleHit, 0, len(rules)),
	}

	currentContent := string(originalContent)
	for _, rule := range rules {
		count := len(rule.Pattern.FindAllStringIndex(currentContent, -1))
		result.Hits = append(result.Hits, RuleHit{Name: rule.Name, Count: count})
		if count == 0 {
			continue
		}

		newContent := rule.Pattern.ReplaceAllString(currentContent, rule.Template)
		logger.Debug().Str("rule", rule.Name).Int("count", count).Msg("applied rule")

		// a match can expand to itself
		if newContent != currentContent {
			result.WasModified = true
		}
		result.ReplacementCount += count
		currentContent = newContent
	}

	result.ModifiedContent = []byte(currentContent)
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RegexpReplacer) ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if rule.Pattern == nil {
			return errors.Errorf("rule %d (%s): pattern is required", i, rule.Name)
		}
		if err := checkTemplate(rule.Pattern, rule.Template); err != nil {
			return errors.Errorf("rule %d (%s): %w", i, rule.Name, err)
		}
	}
	return nil
}

// checkTemplate rejects references to groups the pattern does not define.
// regexp expands those to the empty string without complaint.
func checkTemplate(pattern *regexp.Regexp, template string) error {
	for _, m := range templateRef.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name == "" {
			continue
		}
		if n, err := strconv.Atoi(name); err == nil {
			if n > pattern.NumSubexp() {
				return errors.Errorf("template references group %d, pattern has %d", n, pattern.NumSubexp())
			}
			continue
		}
		if pattern.SubexpIndex(name) < 0 {
			return errors.Errorf("template references unknown group %q", name)
		}
	}
	return nil
}
