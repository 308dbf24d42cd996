// Package uast turns JavaScript and TypeScript source files into ESTree-shaped
// node trees using tree-sitter grammars.
package uast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// Sentinel errors for parser operations.
var (
	ErrUnsupportedFile      = errors.New("unsupported file type")
	errLanguageNotAvailable = errors.New("tree-sitter language not available")
	errNoRootNode           = errors.New("parser: no root node")
	errPoolType             = errors.New("parser: pool returned unexpected type")
)

// Parser is the entry point for source parsing. It keeps one pool of
// tree-sitter parsers per language and is safe for concurrent use.
type Parser struct {
	pools map[string]*sync.Pool
}

// NewParser creates a Parser for every supported language.
func NewParser() (*Parser, error) {
	parser := &Parser{pools: make(map[string]*sync.Pool, len(languageFuncs))}

	for name := range languageFuncs {
		lang := GetLanguage(name)
		if lang == nil {
			return nil, fmt.Errorf("%w: %s", errLanguageNotAvailable, name)
		}

		parser.pools[name] = &sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		}
	}

	return parser, nil
}

// IsSupported returns true if the given filename has a supported extension.
func (parser *Parser) IsSupported(filename string) bool {
	return DetectLanguage(filename, nil) != ""
}

// Parse parses a file and returns its AST. The language is taken from the
// extension, falling back to content detection.
func (parser *Parser) Parse(ctx context.Context, filename string, content []byte) (*node.Node, error) {
	lang := DetectLanguage(filename, content)
	if lang == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}

	return parser.ParseLanguage(ctx, lang, content)
}

// ParseLanguage parses content with an explicitly chosen language.
func (parser *Parser) ParseLanguage(ctx context.Context, lang string, content []byte) (*node.Node, error) {
	pool, ok := parser.pools[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errLanguageNotAvailable, lang)
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", lang, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	return newLowerer(content).lower(root), nil
}
