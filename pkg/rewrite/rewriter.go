package rewrite

import (
	"bytes"
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/logrewrite/pkg/config"
	"github.com/walteh/logrewrite/pkg/sourcefile"
	"github.com/walteh/logrewrite/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// Options controls RewriteFile
type Options struct {
	// DryRun computes the result without writing the file
	DryRun bool

	// Diff fills Result.Diff
	Diff bool
}

// Result describes what a rewrite did to one file
type Result struct {
	Path string

	// Excluded is set when the path matched an exclude glob and nothing ran
	Excluded bool

	// ImportLine is the inserted import, empty when none was inserted
	ImportLine string

	Calls        *text.ReplacementResult
	Reclassified *text.ReplacementResult

	Original []byte
	Content  []byte

	// Written is set by RewriteFile once the new content is on disk
	Written bool

	// Diff is the patch from Original to Content, filled by RewriteFile when Options.Diff is set
	Diff string

	// UnanchoredImport is the import that was needed but had no import statement to follow
	UnanchoredImport string
}

// Changed reports whether the rewritten content differs from the original
func (r *Result) Changed() bool {
	return !bytes.Equal(r.Original, r.Content)
}

// Hits returns the per-rule counts of both passes, call rules first
func (r *Result) Hits() []text.RuleHit {
	var hits []text.RuleHit
	if r.Calls != nil {
		hits = append(hits, r.Calls.Hits...)
	}
	if r.Reclassified != nil {
		hits = append(hits, r.Reclassified.Hits...)
	}
	return hits
}

// Rewriter applies a rewrite table to files
type Rewriter struct {
	cfg             *config.Config
	replacer        text.TextReplacer
	callRules       []text.Rule
	reclassifyRules []text.Rule
}

// New builds a Rewriter for cfg
func New(cfg *config.Config) (*Rewriter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	r := &Rewriter{
		cfg:             cfg,
		replacer:        text.NewRegexpReplacer(),
		callRules:       CallRules(cfg),
		reclassifyRules: ReclassifyRules(cfg),
	}

	if err := r.replacer.ValidateRules(r.callRules); err != nil {
		return nil, errors.Errorf("building call rules: %w", err)
	}
	if err := r.replacer.ValidateRules(r.reclassifyRules); err != nil {
		return nil, errors.Errorf("building reclassification rules: %w", err)
	}

	return r, nil
}

// Apply rewrites content in memory. path only drives the import choice and
// the exclude globs; nothing is read or written.
func (r *Rewriter) Apply(ctx context.Context, path string, content []byte) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()
	ctx = logger.WithContext(ctx)

	result := &Result{
		Path:     path,
		Original: content,
		Content:  content,
	}

	if r.cfg.Excluded(path) {
		logger.Debug().Msg("path is excluded")
		result.Excluded = true
		return result, nil
	}

	buf := string(content)

	if NeedsImport(r.cfg, buf) {
		line := SelectImport(r.cfg, path)
		if updated, ok := InsertImport(buf, line); ok {
			logger.Debug().Str("import", line).Msg("inserted logger import")
			buf = updated
			result.ImportLine = line
		} else {
			logger.Debug().Str("import", line).Msg("no import statement to anchor the logger import on")
			result.UnanchoredImport = line
		}
	}

	calls, err := r.replacer.ReplaceText(ctx, strings.NewReader(buf), r.callRules)
	if err != nil {
		return nil, errors.Errorf("rewriting calls: %w", err)
	}
	result.Calls = calls

	reclassified, err := r.replacer.ReplaceText(ctx, bytes.NewReader(calls.ModifiedContent), r.reclassifyRules)
	if err != nil {
		return nil, errors.Errorf("reclassifying calls: %w", err)
	}
	result.Reclassified = reclassified
	result.Content = reclassified.ModifiedContent

	logger.Debug().
		Bool("import_added", result.ImportLine != "").
		Int("calls", calls.ReplacementCount).
		Int("reclassified", reclassified.ReplacementCount).
		Bool("changed", result.Changed()).
		Msg("rewrite applied")

	return result, nil
}

// RewriteFile loads path, applies the rewrite and writes the file back when
// its content changed, unless opts.DryRun is set.
func (r *Rewriter) RewriteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	file, err := sourcefile.Load(path)
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	result, err := r.Apply(ctx, path, file.Content)
	if err != nil {
		return nil, err
	}

	file.Content = result.Content
	if opts.Diff {
		result.Diff = file.Diff()
	}

	if opts.DryRun {
		return result, nil
	}

	written, err := file.Save()
	if err != nil {
		return nil, errors.Errorf("saving %s: %w", path, err)
	}
	result.Written = written

	return result, nil
}

// Rewrite rewrites the file at path in place and reports whether it changed.
// An unchanged file is not touched.
func (r *Rewriter) Rewrite(ctx context.Context, path string) (bool, error) {
	result, err := r.RewriteFile(ctx, path, Options{})
	if err != nil {
		return false, err
	}
	return result.Written, nil
}
