// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Levels understood by the logging facade
const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

const loggerImport = "core/logging/app_logger.dart"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🧭 ImportRoute picks the import line for files whose path contains a marker
type ImportRoute struct {
	Contains string `json:"contains" yaml:"contains" hcl:"contains"`
	Import   string `json:"import" yaml:"import" hcl:"import"`
}

// 🏷️ Marker promotes a debug call whose text starts with Emoji to Level
type Marker struct {
	Emoji string `json:"emoji" yaml:"emoji" hcl:"emoji"`
	Level string `json:"level" yaml:"level" hcl:"level"`
}

// 📚 Config is the rewrite table
type Config struct {
	Accessor       string        `json:"accessor,omitempty" yaml:"accessor,omitempty" hcl:"accessor,optional"`                      // Logging facade accessor, e.g. AppLogger()
	DebugCall      string        `json:"debug_call,omitempty" yaml:"debug_call,omitempty" hcl:"debug_call,optional"`                // Call rewritten by the call pass
	ImportTriggers []string      `json:"import_triggers,omitempty" yaml:"import_triggers,omitempty" hcl:"import_triggers,optional"` // Substrings that make an import necessary
	KnownImports   []string      `json:"known_imports,omitempty" yaml:"known_imports,omitempty" hcl:"known_imports,optional"`       // Spellings that count as already imported
	DefaultImport  string        `json:"default_import,omitempty" yaml:"default_import,omitempty" hcl:"default_import,optional"`    // Import used when no route matches
	ImportRoutes   []ImportRoute `json:"import_routes,omitempty" yaml:"import_routes,omitempty" hcl:"import_route,block"`           // Checked in order against the file path
	Markers        []Marker      `json:"markers,omitempty" yaml:"markers,omitempty" hcl:"marker,block"`                             // Checked in order by the reclassification pass
	Exclude        []string      `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`                         // doublestar globs of files left alone
}

// 🏭 Default returns the built-in rewrite table
func Default() *Config {
	oneUp := "import '../" + loggerImport + "';"
	threeUp := "import '../../../" + loggerImport + "';"

	return &Config{
		Accessor:       "AppLogger()",
		DebugCall:      "debugPrint",
		ImportTriggers: []string{"debugPrint(", "print("},
		KnownImports: []string{
			"import '../" + loggerImport + "'",
			"import '../../" + loggerImport + "'",
			"import '../../../" + loggerImport + "'",
		},
		DefaultImport: oneUp,
		ImportRoutes: []ImportRoute{
			{Contains: "/screens/", Import: oneUp},
			{Contains: "/features/", Import: threeUp},
			{Contains: "/models/", Import: oneUp},
		},
		Markers: []Marker{
			{Emoji: "❌", Level: LevelError},
			{Emoji: "⚠️", Level: LevelWarning},
			{Emoji: "✅", Level: LevelInfo},
			{Emoji: "🔔", Level: LevelInfo},
			{Emoji: "🎯", Level: LevelInfo},
			{Emoji: "🏛️", Level: LevelInfo},
			{Emoji: "🚀", Level: LevelInfo},
		},
	}
}

// 🔀 Merge returns a copy of c with every field set in other replacing c's
func (c *Config) Merge(other *Config) *Config {
	merged := *c
	if other == nil {
		return &merged
	}
	if other.Accessor != "" {
		merged.Accessor = other.Accessor
	}
	if other.DebugCall != "" {
		merged.DebugCall = other.DebugCall
	}
	if other.ImportTriggers != nil {
		merged.ImportTriggers = other.ImportTriggers
	}
	if other.KnownImports != nil {
		merged.KnownImports = other.KnownImports
	}
	if other.DefaultImport != "" {
		merged.DefaultImport = other.DefaultImport
	}
	if other.ImportRoutes != nil {
		merged.ImportRoutes = other.ImportRoutes
	}
	if other.Markers != nil {
		merged.Markers = other.Markers
	}
	if other.Exclude != nil {
		merged.Exclude = other.Exclude
	}
	return &merged
}

// ✅ Validate checks the table is usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Accessor) == "" {
		return errors.New("accessor is required")
	}
	if strings.TrimSpace(c.DebugCall) == "" {
		return errors.New("debug_call is required")
	}
	if c.DefaultImport == "" {
		return errors.New("default_import is required")
	}
	if !c.recognizes(c.DefaultImport) {
		return errors.Errorf("default_import %q contains none of known_imports", c.DefaultImport)
	}
	for i, route := range c.ImportRoutes {
		if route.Contains == "" {
			return errors.Errorf("import route %d: contains is required", i)
		}
		if route.Import == "" {
			return errors.Errorf("import route %d: import is required", i)
		}
		if !c.recognizes(route.Import) {
			return errors.Errorf("import route %d: import %q contains none of known_imports", i, route.Import)
		}
	}
	for i, marker := range c.Markers {
		if marker.Emoji == "" {
			return errors.Errorf("marker %d: emoji is required", i)
		}
		switch marker.Level {
		case LevelDebug, LevelInfo, LevelWarning, LevelError:
		default:
			return errors.Errorf("marker %d: unknown level %q", i, marker.Level)
		}
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// recognizes reports whether an inserted import line would be found again by
// the known_imports check, which keeps a second run from inserting it twice.
func (c *Config) recognizes(line string) bool {
	for _, known := range c.KnownImports {
		if known != "" && strings.Contains(line, known) {
			return true
		}
	}
	return false
}

// 🚫 Excluded reports whether path matches one of the exclude globs.
// Patterns are matched against the cleaned path as given on the command line,
// so a relative pattern like lib/** only matches relative paths; use **/ to
// match anywhere.
func (c *Config) Excluded(path string) bool {
	slashed := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
	for _, pattern := range c.Exclude {
		// patterns were validated, Match cannot fail
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// 🎯 Load reads a config file and merges it over the defaults
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	loaded, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg := Default().Merge(loaded)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
