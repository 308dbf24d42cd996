package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
)

// ErrInvalidTree reports a serialized AST that does not match the schema.
var ErrInvalidTree = errors.New("AST validation failed")

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *globalOptions) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a serialized AST against the schema",
		Long: `Validate an AST JSON document (as printed by "modcheck parse") against
the embedded schema.

Examples:
  modcheck validate tree.json
  modcheck parse app.js | modcheck validate -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.InOrStdin(), args[0], noColor, opts.quiet, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(stdin io.Reader, input string, noColor, quiet bool, out io.Writer) error {
	var (
		data  []byte
		err   error
		label = input
	)

	if input == stdinName {
		label = "stdin"
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}

	if err != nil {
		return usageError(fmt.Errorf("read %s: %w", label, err))
	}

	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	if noColor {
		good.DisableColor()
		bad.DisableColor()
	}

	problems, err := uast.ValidateJSON(data)
	if err != nil {
		return usageError(err)
	}

	if len(problems) == 0 {
		if !quiet {
			good.Fprintf(out, "AST is valid (%s)\n", label)
		}

		return nil
	}

	bad.Fprintf(out, "AST validation failed (%s)\n", label)

	for _, problem := range problems {
		bad.Fprintf(out, "  - %s\n", problem)
	}

	return &ExitError{Code: ExitProblems, Err: fmt.Errorf("%w: %d errors", ErrInvalidTree, len(problems))}
}
