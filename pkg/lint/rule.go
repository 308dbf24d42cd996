// Package lint is a small rule engine over ESTree-shaped node trees. Rules
// register per-kind listeners, the traverser drives them depth-first, and the
// Linter turns reports into position-anchored diagnostics.
package lint

import (
	"strings"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// ExitSuffix marks a listener key as a post-order (exit) callback.
const ExitSuffix = ":exit"

// ProgramExit is the end-of-traversal listener key. It fires exactly once,
// after every node has been visited.
const ProgramExit = string(node.TypeProgram) + ExitSuffix

// Listener is a callback invoked for one node.
type Listener func(*node.Node)

// Listeners maps node kinds (optionally suffixed with ExitSuffix) to callbacks.
type Listeners map[string]Listener

// RuleMeta describes a rule.
type RuleMeta struct {
	Name        string
	Description string
	// Messages maps message ids to templates with {{ name }} placeholders.
	Messages map[string]string
	// Schema is the JSON schema for the rule's options, or empty for none.
	Schema string
}

// Rule is a lint rule. Create is called once per linted file; the returned
// listeners and any state they close over belong to that file only.
type Rule interface {
	Meta() RuleMeta
	Create(ctx *Context) Listeners
}

// splitKey separates a listener key into its node kind and exit flag.
func splitKey(key string) (string, bool) {
	if kind, found := strings.CutSuffix(key, ExitSuffix); found {
		return kind, true
	}

	return key, false
}
