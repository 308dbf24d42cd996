package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/modcheck/pkg/lsp"
	"github.com/Sumatoshi-tech/modcheck/pkg/observability"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Long: `Start an LSP server on stdio. Open, changed and saved documents are
checked with the project configuration and diagnostics are published back
to the editor.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			providers, err := startObservability(observability.Init, observabilityConfig(cfg, observability.ModeLSP))
			if err != nil {
				return err
			}
			defer shutdownObservability(providers)

			linter, err := newProjectLinter(cfg, providers)
			if err != nil {
				return usageError(err)
			}

			return lsp.NewServer(linter, providers.Logger).Run()
		},
	}
}
