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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const screenSource = `import 'package:flutter/material.dart';

void load() {
  debugPrint('❌ Failed to load');
  debugPrint("✅ Saved");
}
`

const screenRewritten = `import 'package:flutter/material.dart';
import '../core/logging/app_logger.dart';

void load() {
  AppLogger().error('Failed to load');
  AppLogger().info("Saved");
}
`

func TestExecute(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name       string
		setup      func(t *testing.T, dir string) []string
		wantCode   int
		wantOutput []string
		validate   func(t *testing.T, dir string)
	}{
		{
			name:       "no_arguments",
			setup:      func(t *testing.T, dir string) []string { return nil },
			wantCode:   1,
			wantOutput: []string{"Usage: logrewrite [flags] <file_path>"},
		},
		{
			name: "too_many_arguments",
			setup: func(t *testing.T, dir string) []string {
				return []string{"a.dart", "b.dart"}
			},
			wantCode:   1,
			wantOutput: []string{"Usage: logrewrite [flags] <file_path>"},
		},
		{
			name: "file_not_found",
			setup: func(t *testing.T, dir string) []string {
				return []string{filepath.Join(dir, "missing.dart")}
			},
			wantCode:   1,
			wantOutput: []string{"File not found: "},
		},
		{
			name: "rewrites_file",
			setup: func(t *testing.T, dir string) []string {
				return []string{writeFixture(t, dir, "lib/screens/home.dart", screenSource)}
			},
			wantCode:   0,
			wantOutput: []string{"✅ Replaced debug prints in "},
			validate: func(t *testing.T, dir string) {
				assertFile(t, filepath.Join(dir, "lib/screens/home.dart"), screenRewritten)
			},
		},
		{
			name: "nothing_to_rewrite",
			setup: func(t *testing.T, dir string) []string {
				return []string{writeFixture(t, dir, "lib/main.dart", "void main() {}\n")}
			},
			wantCode:   0,
			wantOutput: []string{"ℹ️ No debug prints found in "},
			validate: func(t *testing.T, dir string) {
				assertFile(t, filepath.Join(dir, "lib/main.dart"), "void main() {}\n")
			},
		},
		{
			name: "warns_when_import_cannot_be_placed",
			setup: func(t *testing.T, dir string) []string {
				return []string{writeFixture(t, dir, "lib/main.dart", "void main() { debugPrint('start'); }\n")}
			},
			wantCode: 0,
			wantOutput: []string{
				"⚠️  No import statement in ",
				"import '../core/logging/app_logger.dart';",
				"✅ Replaced debug prints in ",
			},
			validate: func(t *testing.T, dir string) {
				assertFile(t, filepath.Join(dir, "lib/main.dart"), "void main() { AppLogger().debug('start'); }\n")
			},
		},
		{
			name: "dry_run_with_diff_and_stats",
			setup: func(t *testing.T, dir string) []string {
				path := writeFixture(t, dir, "lib/screens/home.dart", screenSource)
				return []string{"--dry-run", "--diff", "--stats", path}
			},
			wantCode: 0,
			wantOutput: []string{
				"@@",
				"debugPrint/plain/single",
				"❌→error/single",
				"would rewrite",
				"✅ Would replace debug prints in ",
			},
			validate: func(t *testing.T, dir string) {
				assertFile(t, filepath.Join(dir, "lib/screens/home.dart"), screenSource)
			},
		},
		{
			name: "config_excludes_file",
			setup: func(t *testing.T, dir string) []string {
				cfg := writeFixture(t, dir, "logrewrite.yaml", "exclude:\n  - \"**/*.g.dart\"\n")
				path := writeFixture(t, dir, "lib/models/user.g.dart", screenSource)
				return []string{"--config", cfg, path}
			},
			wantCode:   0,
			wantOutput: []string{"ℹ️ Skipped excluded file "},
			validate: func(t *testing.T, dir string) {
				assertFile(t, filepath.Join(dir, "lib/models/user.g.dart"), screenSource)
			},
		},
		{
			name: "invalid_config",
			setup: func(t *testing.T, dir string) []string {
				cfg := writeFixture(t, dir, "logrewrite.yaml", "invalid: yaml: :")
				path := writeFixture(t, dir, "lib/main.dart", screenSource)
				return []string{"-c", cfg, path}
			},
			wantCode:   1,
			wantOutput: []string{"loading config"},
			validate: func(t *testing.T, dir string) {
				assertFile(t, filepath.Join(dir, "lib/main.dart"), screenSource)
			},
		},
		{
			name: "unknown_flag",
			setup: func(t *testing.T, dir string) []string {
				return []string{"--recursive", "lib"}
			},
			wantCode:   1,
			wantOutput: []string{"unknown flag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := tt.setup(t, dir)

			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			code := execute(context.Background(), args, stdout, stderr)

			assert.Equal(t, tt.wantCode, code, "exit code should match; stdout: %s stderr: %s", stdout, stderr)
			for _, want := range tt.wantOutput {
				assert.Contains(t, stdout.String(), want, "output should contain expected message")
			}
			if tt.validate != nil {
				tt.validate(t, dir)
			}
		})
	}
}

func TestExecute_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "lib/screens/home.dart", screenSource)

	first := &bytes.Buffer{}
	require.Equal(t, 0, execute(context.Background(), []string{path}, first, &bytes.Buffer{}))
	assert.Contains(t, first.String(), "Replaced debug prints")

	second := &bytes.Buffer{}
	require.Equal(t, 0, execute(context.Background(), []string{path}, second, &bytes.Buffer{}))
	assert.Contains(t, second.String(), "No debug prints found")

	assertFile(t, path, screenRewritten)
}

func TestExecute_Debug(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "lib/screens/home.dart", screenSource)

	stderr := &bytes.Buffer{}
	require.Equal(t, 0, execute(context.Background(), []string{"--debug", path}, &bytes.Buffer{}, stderr))
	assert.Contains(t, stderr.String(), "applied rule")
	assert.Contains(t, stderr.String(), "inserted logger import")
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()
	require.NotNil(t, cmd, "command should not be nil")
	assert.Equal(t, "logrewrite", cmd.Name(), "command name should match")
	assert.NotEmpty(t, cmd.Short, "should have short description")
	for _, flag := range []string{"config", "debug", "dry-run", "diff", "stats"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %s should exist", flag)
	}
}

func writeFixture(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating fixture dir")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing fixture")
	return path
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(filepath.FromSlash(path))
	require.NoError(t, err, "reading %s", path)
	assert.Equal(t, want, string(got), "content of %s", path)
}
