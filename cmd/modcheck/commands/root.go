// Package commands implements the modcheck CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitProblems = 1
	ExitUsage    = 2
)

// ExitError carries a process exit code out of RunE. A nil Err exits
// silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	verbose    bool
	quiet      bool
}

// NewRootCommand builds the modcheck command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "modcheck",
		Short: "Check that JavaScript sources load their mandatory modules",
		Long: `modcheck reports every mandatory module a JavaScript or TypeScript file
never imports (ES modules) or requires (CommonJS).

Commands:
  check     Lint files and directories
  parse     Print the AST the checker walks
  validate  Validate a serialized AST against the schema
  rules     List the built-in rules
  lsp       Serve diagnostics to editors
  mcp       Serve tools to AI agents`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./.modcheck.yaml or $HOME/.modcheck.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(NewCheckCommand(opts))
	rootCmd.AddCommand(NewParseCommand())
	rootCmd.AddCommand(NewValidateCommand(opts))
	rootCmd.AddCommand(NewRulesCommand())
	rootCmd.AddCommand(NewLSPCommand(opts))
	rootCmd.AddCommand(NewMCPCommand(opts))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
