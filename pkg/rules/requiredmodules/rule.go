// Package requiredmodules implements the required-modules rule: every
// configured module must be imported (module files) or required (script
// files) somewhere in the file.
package requiredmodules

import (
	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// Rule metadata.
const (
	Name             = "required-modules"
	MessageIDMissing = "requiredModuleMissing"
	MessageMissing   = `Mandatory module "{{moduleName}}" must be loaded.`

	optionsSchema = `{"type":"array","items":{"type":"string"},"uniqueItems":true}`
)

// Rule is the required-modules lint rule.
type Rule struct{}

// New creates the rule.
func New() *Rule {
	return &Rule{}
}

// Meta implements lint.Rule.
func (*Rule) Meta() lint.RuleMeta {
	return lint.RuleMeta{
		Name:        Name,
		Description: "require that certain modules are loaded",
		Messages:    map[string]string{MessageIDMissing: MessageMissing},
		Schema:      optionsSchema,
	}
}

// Create implements lint.Rule. An empty module list registers no listeners.
func (*Rule) Create(ctx *lint.Context) lint.Listeners {
	required := RequiredNames(ctx.Options)
	if len(required) == 0 {
		return lint.Listeners{}
	}

	checker := NewChecker(required, ModeFor(ctx.IsModule()))

	return lint.Listeners{
		string(checker.Mode().Kind()): checker.Visit,
		lint.ProgramExit: func(program *node.Node) {
			for _, name := range checker.Missing() {
				ctx.Report(lint.Descriptor{
					Node:      program,
					MessageID: MessageIDMissing,
					Data:      map[string]string{"moduleName": name},
				})
			}
		},
	}
}

// RequiredNames extracts module names from rule options. Non-string entries
// are dropped; the options schema rejects them before a Linter is built.
func RequiredNames(options []any) []string {
	names := make([]string, 0, len(options))

	for _, option := range options {
		if name, ok := option.(string); ok {
			names = append(names, name)
		}
	}

	return names
}
