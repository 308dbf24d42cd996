// Package rules assembles the built-in lint rules.
package rules

import (
	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/rules/requiredmodules"
)

// Builtin returns fresh instances of every built-in rule.
func Builtin() []lint.Rule {
	return []lint.Rule{
		requiredmodules.New(),
	}
}

// NewRegistry returns a registry holding the built-in rules.
func NewRegistry() (*lint.Registry, error) {
	return lint.NewRegistry(Builtin()...)
}
