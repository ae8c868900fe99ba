package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/logrewrite/pkg/config"
	"github.com/walteh/logrewrite/pkg/text"
)

var quotes = []struct {
	name string
	char string
}{
	{name: "single", char: "'"},
	{name: "double", char: `"`},
}

// CallRules builds the rules rewriting debug-print calls into debug-level
// logging calls: plain literals for both quote styles first, then literals
// containing an interpolation marker. Literals never span a line break, so an
// unterminated quote cannot swallow the lines after it.
func CallRules(cfg *config.Config) []text.Rule {
	call := regexp.QuoteMeta(cfg.DebugCall)
	accessor := escapeTemplate(cfg.Accessor)

	rules := make([]text.Rule, 0, 2*len(quotes))
	for _, kind := range []string{"plain", "interpolated"} {
		for _, q := range quotes {
			other := `[^` + q.char + `\n]`
			literal := `(` + other + `+)`
			if kind == "interpolated" {
				literal = `(` + other + `*\$` + other + `+)`
			}
			rules = append(rules, text.Rule{
				Name:     fmt.Sprintf("%s/%s/%s", cfg.DebugCall, kind, q.name),
				Pattern:  regexp.MustCompile(call + `\(` + q.char + literal + q.char + `\);`),
				Template: accessor + ".debug(" + q.char + "${1}" + q.char + ");",
			})
		}
	}
	return rules
}

// ReclassifyRules builds one rule per marker and quote style, in marker order.
// They only match the debug-level calls CallRules produces.
func ReclassifyRules(cfg *config.Config) []text.Rule {
	debugCall := regexp.QuoteMeta(cfg.Accessor) + `\.debug\(`
	accessor := escapeTemplate(cfg.Accessor)

	rules := make([]text.Rule, 0, len(cfg.Markers)*len(quotes))
	for _, marker := range cfg.Markers {
		for _, q := range quotes {
			rules = append(rules, text.Rule{
				Name:     fmt.Sprintf("%s→%s/%s", marker.Emoji, marker.Level, q.name),
				Pattern:  regexp.MustCompile(debugCall + q.char + regexp.QuoteMeta(marker.Emoji) + ` ([^` + q.char + `\n]+)` + q.char + `\);`),
				Template: accessor + "." + marker.Level + "(" + q.char + "${1}" + q.char + ");",
			})
		}
	}
	return rules
}

// escapeTemplate keeps a literal $ in configured text from being read as a group reference
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
