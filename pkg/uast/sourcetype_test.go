package uast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

func TestParseSourceType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    SourceType
		wantErr bool
	}{
		{in: "", want: SourceTypeAuto},
		{in: "auto", want: SourceTypeAuto},
		{in: " Module ", want: SourceTypeModule},
		{in: "script", want: SourceTypeScript},
		{in: "commonjs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSourceType(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSourceType)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectSourceType(t *testing.T) {
	t.Parallel()

	withImport := parseJS(t, "a.js", "import a from './a';\n")
	withExport := parseJS(t, "a.js", "export const a = 1;\n")
	withRequire := parseJS(t, "a.js", "require('./a');\n")
	nestedImport := parseJS(t, "a.js", "function f() { return import('./a'); }\n")

	tests := []struct {
		name     string
		filename string
		root     *node.Node
		override SourceType
		want     SourceType
	}{
		{name: "mjs extension", filename: "a.mjs", root: withRequire, want: SourceTypeModule},
		{name: "cjs extension", filename: "a.cjs", root: withImport, want: SourceTypeScript},
		{name: "mts extension", filename: "a.mts", want: SourceTypeModule},
		{name: "cts extension", filename: "a.CTS", want: SourceTypeScript},
		{name: "top-level import", filename: "a.js", root: withImport, want: SourceTypeModule},
		{name: "top-level export", filename: "a.js", root: withExport, want: SourceTypeModule},
		{name: "require only", filename: "a.js", root: withRequire, want: SourceTypeScript},
		{name: "dynamic import only", filename: "a.js", root: nestedImport, want: SourceTypeScript},
		{name: "nil root", filename: "a.js", want: SourceTypeScript},
		{name: "override module", filename: "a.cjs", root: withRequire, override: SourceTypeModule, want: SourceTypeModule},
		{name: "override script", filename: "a.mjs", root: withImport, override: SourceTypeScript, want: SourceTypeScript},
		{name: "auto override", filename: "a.js", root: withImport, override: SourceTypeAuto, want: SourceTypeModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, DetectSourceType(tt.filename, tt.root, tt.override))
		})
	}
}
