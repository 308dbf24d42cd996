package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/modcheck/pkg/mcp"
	"github.com/Sumatoshi-tech/modcheck/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(opts *globalOptions) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes these tools:
  - modcheck_check: report mandatory modules missing from inline code
  - uast_parse: parse inline code into the AST the checker walks`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			obsCfg := observabilityConfig(cfg, observability.ModeMCP)
			obsCfg.LogJSON = true

			if debug {
				obsCfg.LogLevel = slog.LevelDebug
			}

			providers, err := startObservability(observability.Init, obsCfg)
			if err != nil {
				return err
			}
			defer shutdownObservability(providers)

			deps := mcp.ServerDeps{Logger: providers.Logger, Tracer: providers.Tracer}

			if providers.Meter != nil {
				metrics, metricsErr := observability.NewRequestMetrics(providers.Meter)
				if metricsErr != nil {
					return metricsErr
				}

				deps.Metrics = metrics
			}

			srv, err := mcp.NewServer(deps)
			if err != nil {
				return err
			}

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
