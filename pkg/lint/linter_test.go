package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
)

type countingRecorder struct {
	mu      sync.Mutex
	files   []string
	failed  int
	reports int
}

func (rec *countingRecorder) RecordFile(_ context.Context, result lint.FileResult, _ time.Duration) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.files = append(rec.files, result.Filename)
	rec.reports += len(result.Diagnostics)

	if result.Err != nil {
		rec.failed++
	}
}

func newStubLinter(t *testing.T, opts ...lint.Option) *lint.Linter {
	t.Helper()

	registry, err := lint.NewRegistry(&stubRule{name: "calls", kind: "CallExpression"})
	require.NoError(t, err)

	linter, err := lint.NewLinter(registry, map[string][]any{"calls": nil}, opts...)
	require.NoError(t, err)

	return linter
}

func TestNewLinter_UnknownRule(t *testing.T) {
	t.Parallel()

	registry, err := lint.NewRegistry(&stubRule{name: "calls"})
	require.NoError(t, err)

	_, err = lint.NewLinter(registry, map[string][]any{"other": nil})
	require.ErrorIs(t, err, lint.ErrUnknownRule)
}

func TestNewLinter_InvalidOptions(t *testing.T) {
	t.Parallel()

	registry, err := lint.NewRegistry(&stubRule{name: "calls", schema: `{"type":"array","maxItems":0}`})
	require.NoError(t, err)

	_, err = lint.NewLinter(registry, map[string][]any{"calls": {"x"}})
	require.ErrorIs(t, err, lint.ErrInvalidOptions)
}

func TestLinter_LintSource(t *testing.T) {
	t.Parallel()

	linter := newStubLinter(t)

	result, err := linter.LintSource(context.Background(), "a.js", []byte("f();\n\n  g(h());\n"))
	require.NoError(t, err)

	assert.Equal(t, uast.SourceTypeScript, result.SourceType)
	require.Len(t, result.Diagnostics, 3)

	first := result.Diagnostics[0]
	assert.Equal(t, "calls", first.RuleID)
	assert.Equal(t, "saw CallExpression", first.Message)
	assert.Equal(t, lint.SeverityError, first.Severity)
	assert.Equal(t, "a.js", first.Filename)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 1, first.Column)

	assert.Equal(t, 3, result.Diagnostics[1].Line)
	assert.Equal(t, 3, result.Diagnostics[1].Column)
	assert.Equal(t, 3, result.Diagnostics[2].Line)
	assert.Equal(t, 5, result.Diagnostics[2].Column)
}

func TestLinter_LintSourceParseError(t *testing.T) {
	t.Parallel()

	linter := newStubLinter(t)

	result, err := linter.LintSource(context.Background(), "a.go", []byte("package a"))
	require.ErrorIs(t, err, uast.ErrUnsupportedFile)
	assert.Empty(t, result.Diagnostics)
}

func TestLinter_SourceTypeOverride(t *testing.T) {
	t.Parallel()

	linter := newStubLinter(t, lint.WithSourceType(uast.SourceTypeModule))

	result, err := linter.LintSource(context.Background(), "a.cjs", []byte("f();\n"))
	require.NoError(t, err)
	assert.Equal(t, uast.SourceTypeModule, result.SourceType)
}

func TestLinter_WithSeverity(t *testing.T) {
	t.Parallel()

	linter := newStubLinter(t, lint.WithSeverity("calls", lint.SeverityWarning), lint.WithSeverity("unused", lint.SeverityError))

	result, err := linter.LintSource(context.Background(), "a.js", []byte("f();\n"))
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, lint.SeverityWarning, result.Diagnostics[0].Severity)
}

func TestLinter_LintFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "b.mjs"),
		filepath.Join(dir, "missing.js"),
	}

	require.NoError(t, os.WriteFile(paths[0], []byte("f(); g();\n"), 0o600))
	require.NoError(t, os.WriteFile(paths[1], []byte("export const x = 1;\n"), 0o600))

	recorder := &countingRecorder{}
	linter := newStubLinter(t, lint.WithWorkers(2), lint.WithRecorder(recorder))

	results := linter.LintFiles(context.Background(), paths)
	require.Len(t, results, 3)

	assert.Equal(t, paths[0], results[0].Filename)
	assert.Len(t, results[0].Diagnostics, 2)
	require.NoError(t, results[0].Err)

	assert.Equal(t, uast.SourceTypeModule, results[1].SourceType)
	assert.Empty(t, results[1].Diagnostics)

	require.ErrorIs(t, results[2].Err, os.ErrNotExist)

	assert.ElementsMatch(t, paths, recorder.files)
	assert.Equal(t, 1, recorder.failed)
	assert.Equal(t, 2, recorder.reports)
}

func TestLinter_LintFilesCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	linter := newStubLinter(t, lint.WithWorkers(1))
	results := linter.LintFiles(ctx, []string{"a.js", "b.js"})

	for _, result := range results {
		require.ErrorIs(t, result.Err, context.Canceled)
	}
}

func TestLinter_EmptyRuleAddsNothing(t *testing.T) {
	t.Parallel()

	registry, err := lint.NewRegistry(&stubRule{name: "noop"})
	require.NoError(t, err)

	linter, err := lint.NewLinter(registry, map[string][]any{"noop": nil})
	require.NoError(t, err)

	result, err := linter.LintSource(context.Background(), "a.js", []byte("f();\n"))
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestLinter_LintFilesSkipsBinary(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blob.js")
	require.NoError(t, os.WriteFile(path, []byte("f();\x00\x01\x02"), 0o600))

	linter := newStubLinter(t)
	results := linter.LintFiles(context.Background(), []string{path})

	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, lint.ErrBinaryFile)
	assert.Empty(t, results[0].Diagnostics)
}
