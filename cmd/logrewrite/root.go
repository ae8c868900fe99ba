package main

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/logrewrite/pkg/config"
	"github.com/walteh/logrewrite/pkg/log"
	"github.com/walteh/logrewrite/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

const usageLine = "Usage: logrewrite [flags] <file_path>"

var (
	errUsage    = errors.Base("wrong number of arguments")
	errNotFound = errors.Base("file not found")
)

// rootOpts holds the flags of the root command
type rootOpts struct {
	configFile string
	debug      bool
	dryRun     bool
	diff       bool
	stats      bool
}

// NewCommand creates the root command
func NewCommand() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "logrewrite [flags] <file_path>",
		Short: "Rewrite debugPrint calls in one file into leveled AppLogger calls",
		Long: `logrewrite rewrites debug prints in a single source file:
1. Adds the AppLogger import after the last import if the file prints
2. Turns debugPrint('...'); into AppLogger().debug('...');
3. Promotes debug calls starting with ❌, ⚠️, ✅, 🔔, 🎯, 🏛️ or 🚀
4. Writes the file back only if something changed

The rewrite is textual and best effort; it does not parse the file.`,
		Version:       GetVersionInfo().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), cmd.OutOrStdout(), opts.debug))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), args[0])
		},
	}

	cmd.SetVersionTemplate(FormatVersion())
	addRootFlags(cmd, opts)

	return cmd
}

// addRootFlags adds the flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "rewrite table file (.json, .yaml, .hcl) merged over the defaults")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "report what would change without writing")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "print the patch of the change")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print how often each rule matched")
}

// setupLogging swaps the loggers in ctx for ones at the requested level
func setupLogging(ctx context.Context, console io.Writer, debug bool) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.Ctx(ctx).Level(level)
	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(console, zlog))
}

func (o *rootOpts) run(ctx context.Context, path string) error {
	console := log.FromContext(ctx)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			console.Errorf("File not found: %s", path)
			return errNotFound
		}
		return errors.Errorf("checking %s: %w", path, err)
	}

	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(ctx, o.configFile)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	rw, err := rewrite.New(cfg)
	if err != nil {
		return errors.Errorf("creating rewriter: %w", err)
	}

	result, err := rw.RewriteFile(ctx, path, rewrite.Options{DryRun: o.dryRun, Diff: o.diff})
	if err != nil {
		return errors.Errorf("rewriting: %w", err)
	}

	if o.diff {
		console.Diff(result.Diff)
	}

	if result.UnanchoredImport != "" {
		console.Warningf("No import statement in %s to place %s after; add it by hand", path, result.UnanchoredImport)
	}

	if o.stats {
		console.LogFileOperation(ctx, fileOperation(result, o.dryRun))
		if !result.Excluded {
			if err := console.RuleStats(result.Hits()); err != nil {
				return err
			}
		}
	}

	switch {
	case result.Excluded:
		console.Infof("Skipped excluded file %s", path)
	case result.Changed() && o.dryRun:
		console.Successf("Would replace debug prints in %s", path)
	case result.Changed():
		console.Successf("Replaced debug prints in %s", path)
	default:
		console.Infof("No debug prints found in %s", path)
	}

	return nil
}

func fileOperation(result *rewrite.Result, dryRun bool) log.FileOperation {
	op := log.FileOperation{
		Path:        result.Path,
		IsModified:  result.Changed(),
		IsExcluded:  result.Excluded,
		ImportAdded: result.ImportLine != "",
	}
	if result.Calls != nil {
		op.Calls = result.Calls.ReplacementCount
	}
	if result.Reclassified != nil {
		op.Reclassified = result.Reclassified.ReplacementCount
	}

	switch {
	case result.Excluded:
		op.Status = "excluded"
	case !result.Changed():
		op.Status = "no change"
	case dryRun:
		op.Status = "would rewrite"
	default:
		op.Status = "rewritten"
	}
	return op
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	ctx = setupLogging(zlog.WithContext(ctx), stdout, false)
	console := log.FromContext(ctx)

	// cobra falls back to os.Args on nil
	if args == nil {
		args = []string{}
	}

	cmd := NewCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		console.Plain(usageLine)
	case errors.Is(err, errNotFound):
		// already reported
	default:
		console.Error(err.Error())
	}
	return 1
}
