package uast

import (
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/typescript"
	"github.com/src-d/enry/v2"
)

// Supported language names.
const (
	LanguageJavaScript = "javascript"
	LanguageTypeScript = "typescript"
)

// languageFuncs maps language names to their tree-sitter GetLanguage functions.
var languageFuncs = map[string]func() unsafe.Pointer{
	LanguageJavaScript: javascript.GetLanguage,
	LanguageTypeScript: typescript.GetLanguage,
}

// extensionLanguages maps lower-cased file extensions to language names.
var extensionLanguages = map[string]string{
	".js":  LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".cjs": LanguageJavaScript,
	".ts":  LanguageTypeScript,
	".mts": LanguageTypeScript,
	".cts": LanguageTypeScript,
}

// enryLanguages maps enry's linguist names to language names.
var enryLanguages = map[string]string{
	"JavaScript": LanguageJavaScript,
	"TypeScript": LanguageTypeScript,
}

var languageCache sync.Map

// GetLanguage returns the tree-sitter Language for the given name, or nil if not supported.
func GetLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang
}

// DetectLanguage returns the language for a file. The extension decides when it
// is known; otherwise enry inspects the name and content (shebang, heuristics).
// Returns "" for unsupported files.
func DetectLanguage(filename string, content []byte) string {
	if lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(filename))]; ok {
		return lang
	}

	if content == nil {
		return ""
	}

	return enryLanguages[enry.GetLanguage(filepath.Base(filename), content)]
}

// IsVendored reports whether a path points into vendored or generated
// dependency trees such as node_modules.
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}
