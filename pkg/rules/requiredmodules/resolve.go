package requiredmodules

import (
	"path"
	"strings"
)

// Alias for the shared test helper entry point. Any parent-relative path to
// common/index.mjs resolves to CommonModule.
const (
	CommonAlias  = "../common/index.mjs"
	CommonModule = "common"

	commonAliasTarget = "common/index.mjs"
	parentPrefix      = "../"

	// builtinScheme prefixes Node.js core modules ("node:fs").
	builtinScheme = "node:"
)

// moduleExtensions are the file extensions stripped from relative or absolute
// paths. Bare specifiers keep their dots: "lodash.merge" is a package name.
var moduleExtensions = map[string]struct{}{
	".js": {}, ".mjs": {}, ".cjs": {},
	".ts": {}, ".mts": {}, ".cts": {},
	".json": {}, ".node": {},
}

// Resolver maps literal import paths to canonical required-module names.
type Resolver struct {
	required map[string]struct{}
}

// NewResolver creates a resolver for the given required names.
func NewResolver(required []string) *Resolver {
	set := make(map[string]struct{}, len(required))
	for _, name := range required {
		set[name] = struct{}{}
	}

	return &Resolver{required: set}
}

// Resolve returns the canonical name for a literal path, or false when the
// path names no required module. The alias always resolves, whether or not
// CommonModule is required.
func (resolver *Resolver) Resolve(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)

	if isCommonAlias(trimmed) {
		return CommonModule, true
	}

	base := basename(trimmed)
	if resolver.isRequired(base) {
		return base, true
	}

	if builtin, ok := strings.CutPrefix(base, builtinScheme); ok && resolver.isRequired(builtin) {
		return builtin, true
	}

	if isPathSpecifier(trimmed) {
		if stem, ok := moduleStem(base); ok && resolver.isRequired(stem) {
			return stem, true
		}
	}

	return "", false
}

func (resolver *Resolver) isRequired(name string) bool {
	if name == "" {
		return false
	}

	_, ok := resolver.required[name]

	return ok
}

func isCommonAlias(value string) bool {
	rest, found := strings.CutPrefix(value, parentPrefix)
	if !found {
		return false
	}

	for {
		next, more := strings.CutPrefix(rest, parentPrefix)
		if !more {
			break
		}

		rest = next
	}

	return rest == commonAliasTarget
}

// isPathSpecifier reports whether value is a relative or absolute path
// rather than a package name.
func isPathSpecifier(value string) bool {
	return strings.HasPrefix(value, "./") ||
		strings.HasPrefix(value, "../") ||
		strings.HasPrefix(value, "/")
}

func moduleStem(base string) (string, bool) {
	ext := path.Ext(base)
	if _, ok := moduleExtensions[ext]; !ok {
		return "", false
	}

	return strings.TrimSuffix(base, ext), true
}

// basename is the final "/"-separated segment of value, ignoring trailing
// separators.
func basename(value string) string {
	value = strings.TrimRight(value, "/")

	return value[strings.LastIndexByte(value, '/')+1:]
}
