package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(ServerDeps{})
	require.NoError(t, err)

	return srv
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestHandleCheck_ReportsMissingModules(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, output, err := srv.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{
		Code:            "import x from '../common/index.mjs';\nimport fs from 'fs';\n",
		Filename:        "app.mjs",
		RequiredModules: []string{"common", "fs", "path"},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var decoded CheckResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))

	assert.Equal(t, "app.mjs", decoded.Filename)
	assert.Equal(t, uast.SourceTypeModule, decoded.SourceType)
	require.Len(t, decoded.Diagnostics, 1)
	assert.Equal(t, `Mandatory module "path" must be loaded.`, decoded.Diagnostics[0].Message)

	structured, ok := output.Data.(CheckResult)
	require.True(t, ok)
	assert.Len(t, structured.Diagnostics, 1)
}

func TestHandleCheck_ScriptMode(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, _, err := srv.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{
		Code:            "const fs = require('fs');\nimport('path');\n",
		RequiredModules: []string{"fs", "path"},
		SourceType:      "script",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var decoded CheckResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))

	assert.Equal(t, defaultFilename, decoded.Filename)
	assert.Equal(t, uast.SourceTypeScript, decoded.SourceType)
	require.Len(t, decoded.Diagnostics, 1)
	assert.Contains(t, decoded.Diagnostics[0].Message, `"path"`)
}

func TestHandleCheck_WarningSeverity(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, _, err := srv.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{
		Code:            "require('fs');\n",
		RequiredModules: []string{"path"},
		Severity:        "warn",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var decoded CheckResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))

	require.Len(t, decoded.Diagnostics, 1)
	assert.Equal(t, lint.SeverityWarning, decoded.Diagnostics[0].Severity)
}

func TestHandleCheck_NoRequiredModules(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, _, err := srv.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{
		Code: "let a = 1;\n",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"diagnostics": []`)
}

func TestHandleCheck_InvalidInput(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		name  string
		input CheckInput
		want  string
	}{
		{name: "empty code", input: CheckInput{}, want: "code parameter is required"},
		{
			name:  "too large",
			input: CheckInput{Code: strings.Repeat("a", MaxCodeInputBytes+1)},
			want:  "exceeds maximum size",
		},
		{
			name:  "unsupported file",
			input: CheckInput{Code: "x", Filename: "main.go"},
			want:  "unsupported file type",
		},
		{
			name:  "bad source type",
			input: CheckInput{Code: "x", SourceType: "commonjs"},
			want:  "invalid source type",
		},
		{
			name:  "bad severity",
			input: CheckInput{Code: "x", Severity: "fatal"},
			want:  "invalid severity",
		},
		{
			name:  "duplicate modules",
			input: CheckInput{Code: "x", RequiredModules: []string{"fs", "fs"}},
			want:  "invalid rule options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, _, err := srv.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestHandleUASTParse(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, _, err := srv.handleUASTParse(context.Background(), &mcpsdk.CallToolRequest{}, UASTParseInput{
		Code:     "import fs from 'fs';\nconst p = require('path');\n",
		Filename: "app.mjs",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Program")
	assert.Contains(t, text, "ImportDeclaration")
	assert.Contains(t, text, "CallExpression")
}

func TestHandleUASTParse_Query(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, output, err := srv.handleUASTParse(context.Background(), &mcpsdk.CallToolRequest{}, UASTParseInput{
		Code:  "import a from 'a';\nimport b from 'b';\nfoo();\n",
		Query: "ImportDeclaration",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	root, ok := output.Data.(*node.Node)
	require.True(t, ok)
	assert.Equal(t, filteredType, root.Type)
	assert.Len(t, root.Children, 2)

	text := resultText(t, result)
	assert.Contains(t, text, string(filteredType))
	assert.NotContains(t, text, "CallExpression")
}

func TestHandleUASTParse_EmptyCode(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, _, err := srv.handleUASTParse(context.Background(), &mcpsdk.CallToolRequest{}, UASTParseInput{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "code parameter is required")
}

func TestInputFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, defaultFilename, inputFilename(""))
	assert.Equal(t, "a.ts", inputFilename("../../etc/a.ts"))
	assert.Equal(t, "b.cjs", inputFilename("b.cjs"))
}
