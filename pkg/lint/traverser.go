package lint

import (
	"slices"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// Traverser walks a node tree depth-first, calling enter listeners in
// pre-order and exit listeners in post-order. Several listeners may share a
// kind; they run in registration order.
type Traverser struct {
	enter map[node.Type][]Listener
	exit  map[node.Type][]Listener
}

// NewTraverser creates an empty Traverser.
func NewTraverser() *Traverser {
	return &Traverser{
		enter: make(map[node.Type][]Listener),
		exit:  make(map[node.Type][]Listener),
	}
}

// Register adds all listeners of one rule instance. Keys are registered in
// sorted order so that runs are reproducible.
func (t *Traverser) Register(listeners Listeners) {
	for _, key := range sortedKeys(listeners) {
		listener := listeners[key]
		if listener == nil {
			continue
		}

		kind, isExit := splitKey(key)
		if isExit {
			t.exit[node.Type(kind)] = append(t.exit[node.Type(kind)], listener)
		} else {
			t.enter[node.Type(kind)] = append(t.enter[node.Type(kind)], listener)
		}
	}
}

// Empty reports whether no listener is registered.
func (t *Traverser) Empty() bool {
	return len(t.enter) == 0 && len(t.exit) == 0
}

// Traverse starts traversal from the root node.
func (t *Traverser) Traverse(root *node.Node) {
	if root == nil || t.Empty() {
		return
	}

	t.traverseRecursive(root)
}

func (t *Traverser) traverseRecursive(n *node.Node) {
	for _, listener := range t.enter[n.Type] {
		listener(n)
	}

	for _, child := range n.Children {
		if child != nil {
			t.traverseRecursive(child)
		}
	}

	for _, listener := range t.exit[n.Type] {
		listener(n)
	}
}

func sortedKeys(listeners Listeners) []string {
	keys := make([]string, 0, len(listeners))
	for key := range listeners {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
