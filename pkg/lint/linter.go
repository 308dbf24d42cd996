package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// tracerName is the default OTel tracer name for the lint package.
const tracerName = "modcheck"

// FileResult is the outcome of linting one file. Err is set when the file
// could not be read or parsed; such files carry no diagnostics.
type FileResult struct {
	Filename    string
	SourceType  uast.SourceType
	Bytes       int
	Diagnostics []Diagnostic
	Err         error
}

// Recorder receives one callback per linted file.
type Recorder interface {
	RecordFile(ctx context.Context, result FileResult, duration time.Duration)
}

// binarySniffLength is how many leading bytes are searched for a NUL byte,
// the same heuristic Git uses.
const binarySniffLength = 8000

// ErrBinaryFile marks a file skipped because it is not text.
var ErrBinaryFile = errors.New("binary file")

func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), binarySniffLength)], 0) >= 0
}

type configuredRule struct {
	rule     Rule
	options  []any
	severity Severity
}

// Linter runs a fixed set of configured rules over sources.
type Linter struct {
	parser     *uast.Parser
	rules      []configuredRule
	sourceType uast.SourceType
	workers    int
	tracer     trace.Tracer
	recorder   Recorder
	logger     *slog.Logger
	severities map[string]Severity
}

// Option configures a Linter.
type Option func(*Linter)

// WithParser shares an existing parser instead of creating one.
func WithParser(parser *uast.Parser) Option {
	return func(linter *Linter) { linter.parser = parser }
}

// WithSourceType forces every file into the given source type.
func WithSourceType(sourceType uast.SourceType) Option {
	return func(linter *Linter) { linter.sourceType = sourceType }
}

// WithWorkers sets the LintFiles concurrency. Values below 1 mean NumCPU.
func WithWorkers(workers int) Option {
	return func(linter *Linter) { linter.workers = workers }
}

// WithTracer sets the tracer used for per-file spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(linter *Linter) { linter.tracer = tracer }
}

// WithRecorder sets a per-file metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(linter *Linter) { linter.recorder = recorder }
}

// WithSeverity sets the severity of one rule's diagnostics. Rules without
// one report SeverityError.
func WithSeverity(rule string, severity Severity) Option {
	return func(linter *Linter) {
		if linter.severities == nil {
			linter.severities = make(map[string]Severity)
		}

		linter.severities[rule] = severity
	}
}

// WithLogger sets the logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(linter *Linter) { linter.logger = logger }
}

// NewLinter validates rule options against the registry and builds a Linter.
// Rules run in name order.
func NewLinter(registry *Registry, enabled map[string][]any, opts ...Option) (*Linter, error) {
	linter := &Linter{
		sourceType: uast.SourceTypeAuto,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(linter)
	}

	if linter.parser == nil {
		parser, err := uast.NewParser()
		if err != nil {
			return nil, fmt.Errorf("create parser: %w", err)
		}

		linter.parser = parser
	}

	if linter.workers < 1 {
		linter.workers = runtime.NumCPU()
	}

	for _, name := range registry.Names() {
		options, ok := enabled[name]
		if !ok {
			continue
		}

		if err := registry.ValidateOptions(name, options); err != nil {
			return nil, err
		}

		rule, err := registry.Get(name)
		if err != nil {
			return nil, err
		}

		severity, ok := linter.severities[name]
		if !ok {
			severity = SeverityError
		}

		linter.rules = append(linter.rules, configuredRule{rule: rule, options: options, severity: severity})
	}

	for name := range enabled {
		if _, err := registry.Get(name); err != nil {
			return nil, err
		}
	}

	return linter, nil
}

// Parser returns the parser the Linter uses.
func (linter *Linter) Parser() *uast.Parser {
	return linter.parser
}

// LintSource parses and lints one in-memory source.
func (linter *Linter) LintSource(ctx context.Context, filename string, src []byte) (FileResult, error) {
	ctx, span := linter.startSpan(ctx, filename)
	defer span.End()

	start := time.Now()
	result := linter.lintSource(ctx, filename, src)

	linter.finish(ctx, span, result, time.Since(start))

	return result, result.Err
}

// LintTree lints an already parsed tree. sourceType may be SourceTypeAuto.
func (linter *Linter) LintTree(filename string, root *node.Node, sourceType uast.SourceType) []Diagnostic {
	if sourceType == uast.SourceTypeAuto {
		sourceType = uast.DetectSourceType(filename, root, linter.sourceType)
	}

	traverser := NewTraverser()
	contexts := make([]*Context, 0, len(linter.rules))

	for _, configured := range linter.rules {
		ruleCtx := NewContext(configured.rule, filename, sourceType, configured.options)
		ruleCtx.severity = configured.severity
		traverser.Register(configured.rule.Create(ruleCtx))
		contexts = append(contexts, ruleCtx)
	}

	traverser.Traverse(root)

	var diags []Diagnostic
	for _, ruleCtx := range contexts {
		diags = append(diags, ruleCtx.Diagnostics()...)
	}

	SortDiagnostics(diags)

	return diags
}

// LintFiles lints files concurrently. Results keep the order of paths.
func (linter *Linter) LintFiles(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))
	sem := make(chan struct{}, linter.workers)
	wg := sync.WaitGroup{}

	for idx, path := range paths {
		wg.Add(1)

		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = FileResult{Filename: path, Err: ctx.Err()}

				return
			}

			defer func() { <-sem }()

			results[idx] = linter.lintFile(ctx, path)
		}()
	}

	wg.Wait()

	return results
}

func (linter *Linter) lintFile(ctx context.Context, path string) FileResult {
	ctx, span := linter.startSpan(ctx, path)
	defer span.End()

	start := time.Now()

	var result FileResult

	if err := ctx.Err(); err != nil {
		result = FileResult{Filename: path, Err: err}
	} else if content, readErr := os.ReadFile(path); readErr != nil {
		result = FileResult{Filename: path, Err: fmt.Errorf("read %s: %w", path, readErr)}
	} else if isBinary(content) {
		result = FileResult{Filename: path, Bytes: len(content), Err: fmt.Errorf("%w: %s", ErrBinaryFile, path)}
	} else {
		result = linter.lintSource(ctx, path, content)
	}

	linter.finish(ctx, span, result, time.Since(start))

	return result
}

func (linter *Linter) lintSource(ctx context.Context, filename string, src []byte) FileResult {
	result := FileResult{Filename: filename, Bytes: len(src)}

	root, err := linter.parser.Parse(ctx, filename, src)
	if err != nil {
		result.Err = fmt.Errorf("parse %s: %w", filename, err)

		return result
	}

	result.SourceType = uast.DetectSourceType(filename, root, linter.sourceType)
	result.Diagnostics = linter.LintTree(filename, root, result.SourceType)

	return result
}

func (linter *Linter) startSpan(ctx context.Context, filename string) (context.Context, trace.Span) {
	tracer := linter.tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return tracer.Start(ctx, "modcheck.lint.file",
		trace.WithAttributes(attribute.String("modcheck.file", filename)))
}

func (linter *Linter) finish(ctx context.Context, span trace.Span, result FileResult, duration time.Duration) {
	span.SetAttributes(
		attribute.String("modcheck.source_type", string(result.SourceType)),
		attribute.Int("modcheck.diagnostics", len(result.Diagnostics)),
	)

	switch {
	case result.Err != nil && !errors.Is(result.Err, context.Canceled):
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())
		linter.logger.WarnContext(ctx, "lint failed", "file", result.Filename, "error", result.Err)
	case result.Err == nil:
		linter.logger.DebugContext(ctx, "linted",
			"file", result.Filename,
			"source_type", result.SourceType,
			"diagnostics", len(result.Diagnostics),
			"duration", duration,
		)
	}

	if linter.recorder != nil {
		linter.recorder.RecordFile(ctx, result, duration)
	}
}
