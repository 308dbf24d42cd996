package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// ErrUnsupportedParseFormat indicates an unknown parse output format.
var ErrUnsupportedParseFormat = errors.New("unsupported format")

const (
	parseFormatJSON    = "json"
	parseFormatCompact = "compact"
	parseFormatYAML    = "yaml"
	parseFormatTree    = "tree"

	stdinName = "-"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var format, filename string

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the AST the checker walks",
		Long: `Parse a JavaScript or TypeScript file and print its AST.

Examples:
  modcheck parse app.mjs
  modcheck parse -f tree app.js
  cat app.js | modcheck parse --filename app.js -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], filename, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", parseFormatJSON, "output format (json, compact, yaml, tree)")
	cmd.Flags().StringVar(&filename, "filename", "", "file name used for language detection when reading stdin")

	return cmd
}

func runParse(cmd *cobra.Command, input, filename, format string, out io.Writer) error {
	src, name, err := readSource(cmd.InOrStdin(), input, filename)
	if err != nil {
		return usageError(err)
	}

	parser, err := uast.NewParser()
	if err != nil {
		return fmt.Errorf("create parser: %w", err)
	}

	root, err := parser.Parse(cmd.Context(), name, src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	return writeTree(out, root, format)
}

func readSource(stdin io.Reader, input, filename string) ([]byte, string, error) {
	if input == stdinName {
		if filename == "" {
			filename = "stdin.js"
		}

		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return src, filename, nil
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", input, err)
	}

	if filename == "" {
		filename = input
	}

	return src, filename, nil
}

func writeTree(out io.Writer, root *node.Node, format string) error {
	switch format {
	case parseFormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(root)
	case parseFormatCompact:
		return json.NewEncoder(out).Encode(root)
	case parseFormatYAML:
		enc := yaml.NewEncoder(out)
		defer enc.Close()

		return enc.Encode(root.ToMap())
	case parseFormatTree:
		return writeIndented(out, root, 0)
	default:
		return usageError(fmt.Errorf("%w: %s", ErrUnsupportedParseFormat, format))
	}
}

// writeIndented prints one node per line: type, token, roles and start position.
func writeIndented(out io.Writer, current *node.Node, depth int) error {
	var line strings.Builder

	line.WriteString(strings.Repeat("  ", depth))
	line.WriteString(string(current.Type))

	if current.Token != "" {
		fmt.Fprintf(&line, " %q", current.Token)
	}

	if len(current.Roles) > 0 {
		roles := make([]string, 0, len(current.Roles))
		for _, role := range current.Roles {
			roles = append(roles, string(role))
		}

		fmt.Fprintf(&line, " [%s]", strings.Join(roles, ","))
	}

	if current.Pos != nil {
		fmt.Fprintf(&line, " %d:%d", current.Pos.StartLine, current.Pos.StartCol)
	}

	if _, err := fmt.Fprintln(out, line.String()); err != nil {
		return err
	}

	for _, child := range current.Children {
		if err := writeIndented(out, child, depth+1); err != nil {
			return err
		}
	}

	return nil
}
