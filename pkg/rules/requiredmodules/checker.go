package requiredmodules

import (
	"slices"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// Checker tracks the required modules referenced by one file.
type Checker struct {
	required []string
	resolver *Resolver
	mode     Mode
	found    []string
}

// NewChecker creates a checker for one file traversal.
func NewChecker(required []string, mode Mode) *Checker {
	return &Checker{
		required: required,
		resolver: NewResolver(required),
		mode:     mode,
	}
}

// Mode returns the checker's mode.
func (checker *Checker) Mode() Mode {
	return checker.mode
}

// Visit records the canonical name referenced by n, if any.
func (checker *Checker) Visit(n *node.Node) {
	raw, ok := checker.mode.Reference(n)
	if !ok {
		return
	}

	if name, resolved := checker.resolver.Resolve(raw); resolved {
		checker.found = append(checker.found, name)
	}
}

// Found returns the canonical names recorded so far, duplicates included.
func (checker *Checker) Found() []string {
	return checker.found
}

// Missing returns the required names never found, in configured order.
func (checker *Checker) Missing() []string {
	var missing []string

	for _, name := range checker.required {
		if !slices.Contains(checker.found, name) {
			missing = append(missing, name)
		}
	}

	return missing
}
