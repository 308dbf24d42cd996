package uast

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// SourceType tells whether a file is parsed with declarative import syntax.
type SourceType string

// Known source types. SourceTypeAuto defers the decision to DetectSourceType.
const (
	SourceTypeAuto   SourceType = "auto"
	SourceTypeModule SourceType = "module"
	SourceTypeScript SourceType = "script"
)

// ParseSourceType converts a configuration value into a SourceType. The empty
// string means auto.
func ParseSourceType(value string) (SourceType, error) {
	switch SourceType(strings.ToLower(strings.TrimSpace(value))) {
	case "", SourceTypeAuto:
		return SourceTypeAuto, nil
	case SourceTypeModule:
		return SourceTypeModule, nil
	case SourceTypeScript:
		return SourceTypeScript, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSourceType, value)
	}
}

var extensionSourceTypes = map[string]SourceType{
	".mjs": SourceTypeModule,
	".mts": SourceTypeModule,
	".cjs": SourceTypeScript,
	".cts": SourceTypeScript,
}

// DetectSourceType decides the parsing mode of a file. An explicit override
// wins; otherwise .mjs/.mts are modules, .cjs/.cts are scripts, and any other
// file is a module only when its Program has a top-level import or export.
func DetectSourceType(filename string, root *node.Node, override SourceType) SourceType {
	if override == SourceTypeModule || override == SourceTypeScript {
		return override
	}

	if st, ok := extensionSourceTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return st
	}

	if root == nil {
		return SourceTypeScript
	}

	for _, child := range root.Children {
		if child.HasAnyType(
			node.TypeImportDeclaration,
			node.TypeExportNamedDeclaration,
			node.TypeExportDefault,
			node.TypeExportAll,
		) {
			return SourceTypeModule
		}
	}

	return SourceTypeScript
}
