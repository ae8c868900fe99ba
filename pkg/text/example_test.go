package text_test

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/logrewrite/pkg/text"
)

func ExampleRegexpReplacer_ReplaceText() {
	replacer := text.NewRegexpReplacer()

	rules := []text.Rule{
		{
			Name:     "greeting",
			Pattern:  regexp.MustCompile(`Hello (\w+)`),
			Template: "Hi ${1}",
		},
		{
			Name:     "world",
			Pattern:  regexp.MustCompile(`World`),
			Template: "Universe",
		},
	}

	result, err := replacer.ReplaceText(context.Background(), strings.NewReader("Hello World!"), rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Original: %s\n", result.OriginalContent)
	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Original: Hello World!
	// Modified: Hi Universe!
	// Changes: 2
	// Was Modified: true
}

func ExampleRegexpReplacer_ValidateRules() {
	replacer := text.NewRegexpReplacer()

	rules := []text.Rule{
		{Name: "ok", Pattern: regexp.MustCompile(`(foo)`), Template: "${1}bar"},
		{Name: "broken", Pattern: regexp.MustCompile(`baz`), Template: "${1}"},
	}

	err := replacer.ValidateRules(rules)
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: rule 1 (broken): template references group 1, pattern has 0
}
