package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/rules"
)

// ruleInfo is the JSON shape of one listed rule.
type ruleInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Messages    map[string]string `json:"messages"`
	Schema      json.RawMessage   `json:"schema,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:           "rules",
		Short:         "List the built-in rules",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := rules.NewRegistry()
			if err != nil {
				return err
			}

			return writeRules(cmd.OutOrStdout(), registry, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print rule metadata as JSON")

	return cmd
}

func writeRules(out io.Writer, registry *lint.Registry, asJSON bool) error {
	infos := make([]ruleInfo, 0, len(registry.Names()))

	for _, name := range registry.Names() {
		rule, err := registry.Get(name)
		if err != nil {
			return err
		}

		meta := rule.Meta()
		info := ruleInfo{Name: meta.Name, Description: meta.Description, Messages: meta.Messages}

		if meta.Schema != "" {
			info.Schema = json.RawMessage(meta.Schema)
		}

		infos = append(infos, info)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(infos)
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Rule", "Description", "Options"})

	for _, info := range infos {
		options := "none"
		if len(info.Schema) > 0 {
			options = string(info.Schema)
		}

		tbl.AppendRow(table.Row{info.Name, info.Description, options})
	}

	tbl.Render()

	_, err := fmt.Fprintf(out, "%d rules\n", len(infos))

	return err
}
