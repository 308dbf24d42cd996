package uast

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

func TestDecodeJSON_RoundTrip(t *testing.T) {
	t.Parallel()

	root := parseJS(t, "a.js", "require('./fs');\n")

	data, err := json.Marshal(root)
	require.NoError(t, err)

	decoded, err := DecodeJSON(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, root, decoded)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing type", doc: `{"token":"x"}`},
		{name: "unknown field", doc: `{"type":"Program","kind":"x"}`},
		{name: "non-string prop", doc: `{"type":"Literal","props":{"kind":1}}`},
		{name: "bad child", doc: `{"type":"Program","children":[{"roles":["Source"]}]}`},
		{name: "negative position", doc: `{"type":"Program","pos":{"start_line":-1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeJSON(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, ErrInvalidAST)
		})
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	t.Parallel()

	_, err := DecodeJSON(strings.NewReader(`{"type":`))
	require.ErrorIs(t, err, ErrInvalidAST)
}

func TestValidateJSON(t *testing.T) {
	t.Parallel()

	violations, err := ValidateJSON([]byte(`{"type":"Program","children":[{"type":"Literal","token":"fs"}]}`))
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = ValidateJSON([]byte(`{"children":[]}`))
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	assert.Contains(t, violations[0], "type")

	decoded, err := DecodeJSON(strings.NewReader(`{"type":"Literal","token":"fs","props":{"kind":"string"}}`))
	require.NoError(t, err)

	value, ok := decoded.ConstantString()
	require.True(t, ok)
	assert.Equal(t, "fs", value)
	assert.Equal(t, node.TypeLiteral, decoded.Type)
}
