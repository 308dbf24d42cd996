package requiredmodules

import (
	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

const requireCallee = "require"

// Mode picks the single node kind that counts as a module reference.
type Mode interface {
	// Kind is the node kind the mode listens to.
	Kind() node.Type
	// Reference extracts the literal path from a node of that kind.
	Reference(n *node.Node) (string, bool)
}

// DeclarativeMode treats import declarations as references.
type DeclarativeMode struct{}

// Kind implements Mode.
func (DeclarativeMode) Kind() node.Type { return node.TypeImportDeclaration }

// Reference returns the import's source literal.
func (DeclarativeMode) Reference(n *node.Node) (string, bool) {
	return n.Source().ConstantString()
}

// CallMode treats require("...") calls as references.
type CallMode struct{}

// Kind implements Mode.
func (CallMode) Kind() node.Type { return node.TypeCallExpression }

// Reference accepts only a bare `require` identifier callee whose first
// argument is a string literal. Extra arguments are ignored.
func (CallMode) Reference(n *node.Node) (string, bool) {
	if !n.Callee().IsIdentifierNamed(requireCallee) {
		return "", false
	}

	args := n.Arguments()
	if len(args) == 0 {
		return "", false
	}

	return args[0].ConstantString()
}

// ModeFor returns the mode for a file's parsing metadata.
func ModeFor(isModule bool) Mode {
	if isModule {
		return DeclarativeMode{}
	}

	return CallMode{}
}
