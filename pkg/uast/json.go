package uast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/spec"
)

// Sentinel errors for AST decoding.
var (
	ErrInvalidAST        = errors.New("invalid AST")
	ErrInvalidSourceType = errors.New("invalid source type")
)

// ValidateJSON checks a serialized AST against the embedded schema. It returns
// the schema violations as "field: description" strings; a nil slice with a
// nil error means the document is valid.
func ValidateJSON(data []byte) ([]string, error) {
	schemaBytes, err := spec.SchemaFS.ReadFile(spec.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAST, err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, verr.Field()+": "+verr.Description())
	}

	return violations, nil
}

// DecodeJSON reads a serialized AST, validates it and decodes it.
func DecodeJSON(reader io.Reader) (*node.Node, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read AST: %w", err)
	}

	violations, err := ValidateJSON(data)
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAST, strings.Join(violations, "; "))
	}

	var root node.Node

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAST, err)
	}

	return &root, nil
}
