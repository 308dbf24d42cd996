package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// stubRule reports one message per node kind it is told to watch.
type stubRule struct {
	name   string
	schema string
	kind   string
}

func (rule *stubRule) Meta() lint.RuleMeta {
	return lint.RuleMeta{
		Name:     rule.name,
		Messages: map[string]string{"seen": "saw {{ kind }}"},
		Schema:   rule.schema,
	}
}

func (rule *stubRule) Create(ctx *lint.Context) lint.Listeners {
	if rule.kind == "" {
		return lint.Listeners{}
	}

	return lint.Listeners{
		rule.kind: func(n *node.Node) {
			ctx.Report(lint.Descriptor{Node: n, MessageID: "seen", Data: map[string]string{"kind": string(n.Type)}})
		},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry, err := lint.NewRegistry(&stubRule{name: "b"}, &stubRule{name: "a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, registry.Names())

	rule, err := registry.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", rule.Meta().Name)

	_, err = registry.Get("missing")
	require.ErrorIs(t, err, lint.ErrUnknownRule)

	require.ErrorIs(t, registry.Register(&stubRule{name: "a"}), lint.ErrDuplicateRule)
}

func TestRegistry_BadSchema(t *testing.T) {
	t.Parallel()

	_, err := lint.NewRegistry(&stubRule{name: "a", schema: `{"type": 5}`})
	require.Error(t, err)
}

func TestRegistry_ValidateOptions(t *testing.T) {
	t.Parallel()

	registry, err := lint.NewRegistry(
		&stubRule{name: "strings", schema: `{"type":"array","items":{"type":"string"},"uniqueItems":true}`},
		&stubRule{name: "free"},
	)
	require.NoError(t, err)

	require.NoError(t, registry.ValidateOptions("strings", nil))
	require.NoError(t, registry.ValidateOptions("strings", []any{"a", "b"}))
	require.ErrorIs(t, registry.ValidateOptions("strings", []any{"a", "a"}), lint.ErrInvalidOptions)
	require.ErrorIs(t, registry.ValidateOptions("strings", []any{true}), lint.ErrInvalidOptions)
	require.NoError(t, registry.ValidateOptions("free", []any{1, "x", nil}))
	require.ErrorIs(t, registry.ValidateOptions("nope", nil), lint.ErrUnknownRule)
}
