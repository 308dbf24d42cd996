package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/modcheck/pkg/config"
	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/observability"
	"github.com/Sumatoshi-tech/modcheck/pkg/report"
	"github.com/Sumatoshi-tech/modcheck/pkg/rules"
	"github.com/Sumatoshi-tech/modcheck/pkg/rules/requiredmodules"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
)

// ErrASTWithPaths is returned when --ast is combined with path arguments.
var ErrASTWithPaths = errors.New("--ast cannot be combined with paths")

// checkFlags are the check-only overrides of config values.
type checkFlags struct {
	format      string
	noColor     bool
	sourceType  string
	require     []string
	extensions  []string
	exclude     []string
	workers     int
	metricsFile string
	ast         string
}

// checkInput selects what runCheck lints: source paths or one serialized AST.
type checkInput struct {
	paths   []string
	astPath string
	stdin   io.Reader
}

// NewCheckCommand creates the check command.
func NewCheckCommand(opts *globalOptions) *cobra.Command {
	return newCheckCommandWithDeps(opts, observability.Init)
}

func newCheckCommandWithDeps(opts *globalOptions, initFn observabilityInit) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report mandatory modules that files never load",
		Long: `Lint JavaScript and TypeScript files for mandatory modules.

Directories are walked recursively; node_modules, .git and vendored
directories are skipped. Exit status is 1 when errors were found (warnings
alone exit 0, see rules.severity) and 2 on configuration errors.

Examples:
  modcheck check --require fs --require common src/
  modcheck check -f json .
  modcheck check --source-type script legacy/app.js
  modcheck parse -f compact app.js | modcheck check --ast -`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			if err := flags.apply(cmd, cfg); err != nil {
				return usageError(err)
			}

			if flags.ast != "" && len(args) > 0 {
				return usageError(ErrASTWithPaths)
			}

			input := checkInput{paths: args, astPath: flags.ast, stdin: cmd.InOrStdin()}

			return runCheck(cmd.Context(), cfg, input, opts.quiet, initFn, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", config.DefaultOutputFormat, "output format (text, compact, table, json, yaml)")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&flags.sourceType, "source-type", config.DefaultSourceType, "parse mode (auto, module, script)")
	cmd.Flags().StringSliceVarP(&flags.require, "require", "r", nil, "mandatory module name (repeatable, replaces rules.required_modules)")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to check (replaces extensions)")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "directory names to skip (replaces exclude)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "number of parallel workers (default: number of CPUs)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	cmd.Flags().StringVar(&flags.ast, "ast", "", "lint a serialized AST (JSON from parse, - for stdin) instead of source files")

	return cmd
}

// apply copies explicitly set flags over the loaded config.
func (flags *checkFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("format") {
		cfg.Output.Format = flags.format
	}

	if changed("no-color") {
		cfg.Output.NoColor = flags.noColor
	}

	if changed("source-type") {
		cfg.SourceType = flags.sourceType
	}

	if changed("require") {
		cfg.Rules.RequiredModules = flags.require
	}

	if changed("ext") {
		cfg.Extensions = flags.extensions
	}

	if changed("exclude") {
		cfg.Exclude = flags.exclude
	}

	if changed("workers") {
		cfg.Workers = flags.workers
	}

	if changed("metrics-file") {
		cfg.Telemetry.MetricsFile = flags.metricsFile
	}

	return cfg.Validate()
}

func runCheck(
	ctx context.Context,
	cfg *config.Config,
	input checkInput,
	quiet bool,
	initFn observabilityInit,
	out io.Writer,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	providers, err := startObservability(initFn, observabilityConfig(cfg, observability.ModeCLI))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer shutdownObservability(providers)

	linter, err := newProjectLinter(cfg, providers)
	if err != nil {
		return usageError(err)
	}

	var (
		results []lint.FileResult
		start   time.Time
		span    trace.Span
	)

	if input.astPath != "" {
		src, filename, readErr := readSource(input.stdin, input.astPath, "")
		if readErr != nil {
			return usageError(readErr)
		}

		ctx, span = startCheckSpan(ctx, providers, 1)
		defer span.End()

		start = time.Now()
		results = []lint.FileResult{lintAST(linter, cfg, filename, src)}
	} else {
		paths := input.paths
		if len(paths) == 0 {
			paths = []string{"."}
		}

		files, collectErr := lint.CollectFiles(paths, lint.FileFilter{Extensions: cfg.Extensions, Exclude: cfg.Exclude})
		if collectErr != nil {
			return usageError(collectErr)
		}

		ctx, span = startCheckSpan(ctx, providers, len(files))
		defer span.End()

		start = time.Now()
		results = linter.LintFiles(ctx, files)
	}

	summary := report.Summarize(results, time.Since(start))

	providers.Logger.DebugContext(ctx, "check finished",
		"files", summary.Files, "problems", summary.Problems, "failed", summary.Failed)

	renderErr := report.Render(out, cfg.Output.Format, results, summary, report.Options{
		NoColor: cfg.Output.NoColor,
		Quiet:   quiet,
	})
	if renderErr != nil {
		return fmt.Errorf("render report: %w", renderErr)
	}

	if summary.HasErrors() {
		return &ExitError{Code: ExitProblems}
	}

	return nil
}

// startCheckSpan opens the root span of one check run.
func startCheckSpan(ctx context.Context, providers observability.Providers, files int) (context.Context, trace.Span) {
	if providers.Tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	return providers.Tracer.Start(ctx, "modcheck.check",
		trace.WithAttributes(attribute.Int("modcheck.files", files)))
}

// lintAST decodes a serialized AST and lints it. The mode comes from
// --source-type when set, otherwise from the filename and top-level imports.
func lintAST(linter *lint.Linter, cfg *config.Config, filename string, src []byte) lint.FileResult {
	result := lint.FileResult{Filename: filename, Bytes: len(src)}

	root, err := uast.DecodeJSON(bytes.NewReader(src))
	if err != nil {
		result.Err = err

		return result
	}

	result.SourceType = uast.DetectSourceType(filename, root, cfg.ParsedSourceType())
	result.Diagnostics = linter.LintTree(filename, root, result.SourceType)

	return result
}

// newProjectLinter wires the built-in rules, config and telemetry into a Linter.
func newProjectLinter(cfg *config.Config, providers observability.Providers) (*lint.Linter, error) {
	registry, err := rules.NewRegistry()
	if err != nil {
		return nil, err
	}

	opts := []lint.Option{
		lint.WithSourceType(cfg.ParsedSourceType()),
		lint.WithWorkers(cfg.Workers),
		lint.WithLogger(providers.Logger),
		lint.WithSeverity(requiredmodules.Name, cfg.RuleSeverity()),
	}

	if providers.Tracer != nil {
		opts = append(opts, lint.WithTracer(providers.Tracer))
	}

	if providers.Meter != nil {
		metrics, metricsErr := observability.NewLintMetrics(providers.Meter)
		if metricsErr != nil {
			return nil, metricsErr
		}

		opts = append(opts, lint.WithRecorder(metrics))
	}

	return lint.NewLinter(registry, cfg.RuleOptions(), opts...)
}
