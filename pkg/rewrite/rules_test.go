package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/logrewrite/pkg/config"
	"github.com/walteh/logrewrite/pkg/text"
)

func TestCallRules(t *testing.T) {
	rules := CallRules(config.Default())
	require.Len(t, rules, 4)
	require.NoError(t, text.NewRegexpReplacer().ValidateRules(rules))

	assert.Equal(t, []string{
		"debugPrint/plain/single",
		"debugPrint/plain/double",
		"debugPrint/interpolated/single",
		"debugPrint/interpolated/double",
	}, ruleNames(rules))

	tests := []struct {
		name  string
		input string
		rule  int
		want  string
	}{
		{name: "plain_single", input: `debugPrint('hello');`, rule: 0, want: `AppLogger().debug('hello');`},
		{name: "plain_double", input: `debugPrint("hello");`, rule: 1, want: `AppLogger().debug("hello");`},
		{name: "interpolated_single", input: `debugPrint('id: $id');`, rule: 2, want: `AppLogger().debug('id: $id');`},
		{name: "interpolated_double", input: `debugPrint("id: ${user.id}");`, rule: 3, want: `AppLogger().debug("id: ${user.id}");`},
		{name: "interpolated_needs_dollar", input: `debugPrint('hello');`, rule: 2, want: `debugPrint('hello');`},
		{name: "other_quote_inside", input: `debugPrint("it's");`, rule: 1, want: `AppLogger().debug("it's");`},
		{name: "own_quote_inside", input: `debugPrint('it's');`, rule: 0, want: `debugPrint('it's');`},
		{name: "empty_literal", input: `debugPrint('');`, rule: 0, want: `debugPrint('');`},
		{name: "no_line_break", input: "debugPrint('a\nb');", rule: 0, want: "debugPrint('a\nb');"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := rules[tt.rule]
			assert.Equal(t, tt.want, rule.Pattern.ReplaceAllString(tt.input, rule.Template))
		})
	}
}

func TestReclassifyRules(t *testing.T) {
	rules := ReclassifyRules(config.Default())
	require.Len(t, rules, 14, "seven markers, two quote styles")
	require.NoError(t, text.NewRegexpReplacer().ValidateRules(rules))

	assert.Equal(t, "❌→error/single", rules[0].Name)
	assert.Equal(t, "❌→error/double", rules[1].Name)
	assert.Equal(t, "⚠️→warning/single", rules[2].Name)

	apply := func(s string) string {
		for _, rule := range rules {
			s = rule.Pattern.ReplaceAllString(s, rule.Template)
		}
		return s
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "error", input: `AppLogger().debug('❌ Failed to load');`, want: `AppLogger().error('Failed to load');`},
		{name: "warning", input: `AppLogger().debug("⚠️ Slow response");`, want: `AppLogger().warning("Slow response");`},
		{name: "info_check", input: `AppLogger().debug("✅ Saved");`, want: `AppLogger().info("Saved");`},
		{name: "info_bell", input: `AppLogger().debug('🔔 Ping');`, want: `AppLogger().info('Ping');`},
		{name: "info_target", input: `AppLogger().debug('🎯 Hit');`, want: `AppLogger().info('Hit');`},
		{name: "info_building", input: `AppLogger().debug('🏛️ Arena ready');`, want: `AppLogger().info('Arena ready');`},
		{name: "info_rocket", input: `AppLogger().debug("🚀 Launch $id");`, want: `AppLogger().info("Launch $id");`},
		{name: "marker_needs_space", input: `AppLogger().debug('❌Failed');`, want: `AppLogger().debug('❌Failed');`},
		{name: "marker_not_leading", input: `AppLogger().debug('Failed ❌ x');`, want: `AppLogger().debug('Failed ❌ x');`},
		{name: "unknown_marker", input: `AppLogger().debug('🐛 bug');`, want: `AppLogger().debug('🐛 bug');`},
		{name: "only_debug_calls", input: `AppLogger().info('❌ x');`, want: `AppLogger().info('❌ x');`},
		{name: "raw_print_untouched", input: `debugPrint('❌ x');`, want: `debugPrint('❌ x');`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apply(tt.input))
		})
	}
}

func TestRules_CustomAccessor(t *testing.T) {
	cfg := config.Default().Merge(&config.Config{
		Accessor:  "$log",
		DebugCall: "console.log",
		Markers:   []config.Marker{{Emoji: "❌", Level: config.LevelError}},
	})

	call := CallRules(cfg)[0]
	assert.Equal(t, `$log.debug('x');`, call.Pattern.ReplaceAllString(`console.log('x');`, call.Template))
	assert.Equal(t, `consoleXlog('x');`, call.Pattern.ReplaceAllString(`consoleXlog('x');`, call.Template), "dot is literal")

	reclassify := ReclassifyRules(cfg)[0]
	assert.Equal(t, `$log.error('x');`, reclassify.Pattern.ReplaceAllString(`$log.debug('❌ x');`, reclassify.Template))
}

func ruleNames(rules []text.Rule) []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return names
}
