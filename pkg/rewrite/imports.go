package rewrite

import (
	"regexp"
	"strings"

	"github.com/walteh/logrewrite/pkg/config"
)

// importLine matches an import statement up to its semicolon, which may span lines
var importLine = regexp.MustCompile(`import [^;]+;`)

// HasLoggerImport reports whether any known spelling of the logging import is
// present anywhere in content.
func HasLoggerImport(cfg *config.Config, content string) bool {
	for _, known := range cfg.KnownImports {
		if strings.Contains(content, known) {
			return true
		}
	}
	return false
}

// NeedsImport reports whether content prints but lacks the logging import
func NeedsImport(cfg *config.Config, content string) bool {
	if HasLoggerImport(cfg, content) {
		return false
	}
	for _, trigger := range cfg.ImportTriggers {
		if strings.Contains(content, trigger) {
			return true
		}
	}
	return false
}

// SelectImport picks the import line from the path alone. The first route whose
// marker appears in the path wins; the directory depth is not computed.
func SelectImport(cfg *config.Config, path string) string {
	for _, route := range cfg.ImportRoutes {
		if strings.Contains(path, route.Contains) {
			return route.Import
		}
	}
	return cfg.DefaultImport
}

// InsertImport inserts line on its own line right after the last import
// statement. Without an import statement to anchor on, content is returned as is.
func InsertImport(content, line string) (string, bool) {
	matches := importLine.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content, false
	}
	end := matches[len(matches)-1][1]
	return content[:end] + "\n" + line + content[end:], true
}
