package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameCheck = "modcheck_check"
	ToolNameUAST  = "uast_parse"
)

// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
const MaxCodeInputBytes = 1 << 20

// defaultFilename is used when the caller does not name the source.
const defaultFilename = "input.js"

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrUnsupportedFile indicates the filename is not JavaScript or TypeScript.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// CheckInput is the input schema for the modcheck_check tool.
type CheckInput struct {
	Code            string   `json:"code"                  jsonschema:"JavaScript or TypeScript source to check"`
	Filename        string   `json:"filename,omitempty"    jsonschema:"file name used for language and module detection (default input.js)"`
	RequiredModules []string `json:"required_modules"      jsonschema:"module names that must be imported or required"`
	SourceType      string   `json:"source_type,omitempty" jsonschema:"module, script or auto (default auto)"`
	Severity        string   `json:"severity,omitempty"    jsonschema:"error or warning (default error)"`
}

// UASTParseInput is the input schema for the uast_parse tool.
type UASTParseInput struct {
	Code     string `json:"code"               jsonschema:"source code to parse"`
	Filename string `json:"filename,omitempty" jsonschema:"file name used for language detection (default input.js)"`
	Query    string `json:"query,omitempty"    jsonschema:"optional node type filter (e.g. ImportDeclaration)"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateCode checks common code input constraints.
func validateCode(code string) error {
	if code == "" {
		return ErrEmptyCode
	}

	if len(code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	return nil
}

// inputFilename keeps only the base name so callers cannot point at paths.
func inputFilename(name string) string {
	if name == "" {
		return defaultFilename
	}

	return filepath.Base(filepath.Clean(name))
}
