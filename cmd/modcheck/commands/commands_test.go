package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/modcheck/pkg/rules/requiredmodules"
)

func executeRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRoot_RegistersCommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"check", "parse", "validate", "rules", "lsp", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestParse_JSONFromStdin(t *testing.T) {
	t.Parallel()

	out, err := executeRoot(t, "import fs from 'fs';\n", "parse", "--filename", "a.mjs", "-")
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "Program", tree["type"])
	assert.Contains(t, out, "ImportDeclaration")
}

func TestParse_Tree(t *testing.T) {
	t.Parallel()

	out, err := executeRoot(t, "const p = require('path');\n", "parse", "-f", "tree", "-")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "Program"))
	assert.Contains(t, out, "  ")
	assert.Contains(t, out, `Identifier "require" [Callee]`)
	assert.Contains(t, out, `Literal "path" [Argument]`)
}

func TestParse_YAML(t *testing.T) {
	t.Parallel()

	out, err := executeRoot(t, "import x from 'y';\n", "parse", "-f", "yaml", "--filename", "a.mjs", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "type: Program")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := executeRoot(t, "x", "parse", "-f", "xml", "-")
	assert.ErrorIs(t, err, ErrUnsupportedParseFormat)
	assert.Equal(t, ExitUsage, exitCode(err))

	_, err = executeRoot(t, "", "parse", "/definitely/not/here.js")
	assert.Equal(t, ExitUsage, exitCode(err))
}

func TestValidate_RoundTrip(t *testing.T) {
	t.Parallel()

	tree, err := executeRoot(t, "import fs from 'fs';\n", "parse", "--filename", "a.mjs", "-")
	require.NoError(t, err)

	out, err := executeRoot(t, tree, "validate", "--no-color", "-")
	require.NoError(t, err)
	assert.Equal(t, "AST is valid (stdin)\n", out)
}

func TestValidate_SchemaViolation(t *testing.T) {
	t.Parallel()

	out, err := executeRoot(t, `{"type": 42}`, "validate", "--no-color", "-")

	assert.ErrorIs(t, err, ErrInvalidTree)
	assert.Equal(t, ExitProblems, exitCode(err))
	assert.Contains(t, out, "AST validation failed (stdin)")
	assert.Contains(t, out, "  - ")
}

func TestValidate_MalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := executeRoot(t, `{not json`, "validate", "--no-color", "-")

	assert.Equal(t, ExitUsage, exitCode(err))
}

func TestCheck_ASTFromStdin(t *testing.T) {
	t.Parallel()

	tree, err := executeRoot(t, "import fs from 'fs';\n", "parse", "--filename", "a.mjs", "-")
	require.NoError(t, err)

	out, err := executeRoot(t, tree, "check", "--ast", "-", "-r", "fs", "-r", "common", "-f", "compact")

	assert.Equal(t, ExitProblems, exitCode(err))
	assert.Contains(t, out, `stdin.js:1:1: error: Mandatory module "common" must be loaded.`)
	assert.NotContains(t, out, `"fs"`)
}

func TestCheck_ASTSourceTypeFlag(t *testing.T) {
	t.Parallel()

	tree, err := executeRoot(t, "require('fs');\n", "parse", "--filename", "a.cjs", "-")
	require.NoError(t, err)

	out, err := executeRoot(t, tree, "check", "--ast", "-", "-r", "fs", "-f", "compact")
	require.NoError(t, err)
	assert.NotContains(t, out, "Mandatory module")

	out, err = executeRoot(t, tree, "check", "--ast", "-", "-r", "fs", "-f", "compact", "--source-type", "module")

	assert.Equal(t, ExitProblems, exitCode(err))
	assert.Contains(t, out, `Mandatory module "fs" must be loaded.`)
}

func TestCheck_ASTFile(t *testing.T) {
	t.Parallel()

	tree, err := executeRoot(t, "require('../common/index.mjs');\n", "parse", "--filename", "a.js", "-")
	require.NoError(t, err)

	astPath := writeFile(t, t.TempDir(), "tree.json", tree)

	out, err := executeRoot(t, "", "check", "--ast", astPath, "-r", "common", "-f", "compact")
	require.NoError(t, err)
	assert.NotContains(t, out, "Mandatory module")
}

func TestCheck_ASTErrors(t *testing.T) {
	t.Parallel()

	_, err := executeRoot(t, `{"type": 42}`, "check", "--ast", "-", "-r", "fs")
	assert.Equal(t, ExitProblems, exitCode(err))

	_, err = executeRoot(t, "", "check", "--ast", "-", "src/")
	require.ErrorIs(t, err, ErrASTWithPaths)
	assert.Equal(t, ExitUsage, exitCode(err))

	_, err = executeRoot(t, "", "check", "--ast", "does-not-exist.json", "-r", "fs")
	assert.Equal(t, ExitUsage, exitCode(err))
}

func TestRules_Table(t *testing.T) {
	t.Parallel()

	out, err := executeRoot(t, "", "rules")
	require.NoError(t, err)

	assert.Contains(t, out, requiredmodules.Name)
	assert.Contains(t, out, "require that certain modules are loaded")
	assert.Contains(t, out, "1 rules")
}

func TestRules_JSON(t *testing.T) {
	t.Parallel()

	out, err := executeRoot(t, "", "rules", "--json")
	require.NoError(t, err)

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, requiredmodules.Name, infos[0].Name)
	assert.Equal(t, requiredmodules.MessageMissing, infos[0].Messages[requiredmodules.MessageIDMissing])
	assert.Contains(t, string(infos[0].Schema), "uniqueItems")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := executeRoot(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "modcheck "))
}

func TestExitError(t *testing.T) {
	t.Parallel()

	silent := &ExitError{Code: ExitProblems}
	assert.Equal(t, "exit status 1", silent.Error())
	assert.NoError(t, silent.Unwrap())

	wrapped := usageError(ErrInvalidTree)
	assert.ErrorIs(t, wrapped, ErrInvalidTree)
	assert.Equal(t, ExitUsage, exitCode(wrapped))
}
