package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/rules/requiredmodules"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
)

// CheckResult is the structured result of modcheck_check.
type CheckResult struct {
	Filename    string            `json:"filename"`
	SourceType  uast.SourceType   `json:"source_type"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// handleCheck processes modcheck_check tool calls.
func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input CheckInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateCode(input.Code); err != nil {
		return errorResult(err)
	}

	filename := inputFilename(input.Filename)
	if !s.parser.IsSupported(filename) {
		return errorResult(fmt.Errorf("%w: %s", ErrUnsupportedFile, filename))
	}

	sourceType, err := uast.ParseSourceType(input.SourceType)
	if err != nil {
		return errorResult(err)
	}

	severity, err := lint.ParseSeverity(input.Severity)
	if err != nil {
		return errorResult(err)
	}

	options := make([]any, 0, len(input.RequiredModules))
	for _, name := range input.RequiredModules {
		options = append(options, name)
	}

	linter, err := lint.NewLinter(s.registry, map[string][]any{requiredmodules.Name: options},
		lint.WithParser(s.parser),
		lint.WithSourceType(sourceType),
		lint.WithLogger(s.logger),
		lint.WithSeverity(requiredmodules.Name, severity),
	)
	if err != nil {
		return errorResult(err)
	}

	result, err := linter.LintSource(ctx, filename, []byte(input.Code))
	if err != nil {
		return errorResult(err)
	}

	diags := result.Diagnostics
	if diags == nil {
		diags = []lint.Diagnostic{}
	}

	return jsonResult(CheckResult{
		Filename:    filename,
		SourceType:  result.SourceType,
		Diagnostics: diags,
	})
}
