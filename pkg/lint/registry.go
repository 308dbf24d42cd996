package lint

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Registry errors.
var (
	ErrUnknownRule    = errors.New("unknown rule")
	ErrDuplicateRule  = errors.New("rule already registered")
	ErrInvalidOptions = errors.New("invalid rule options")
)

// Registry holds rules by name.
type Registry struct {
	rules   map[string]Rule
	schemas map[string]*gojsonschema.Schema
	mu      sync.RWMutex
}

// NewRegistry creates a registry with the given rules.
func NewRegistry(rules ...Rule) (*Registry, error) {
	registry := &Registry{
		rules:   make(map[string]Rule, len(rules)),
		schemas: make(map[string]*gojsonschema.Schema, len(rules)),
	}

	for _, rule := range rules {
		if err := registry.Register(rule); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Register adds a rule and compiles its options schema.
func (registry *Registry) Register(rule Rule) error {
	meta := rule.Meta()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.rules[meta.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, meta.Name)
	}

	if meta.Schema != "" {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(meta.Schema))
		if err != nil {
			return fmt.Errorf("compile schema for %s: %w", meta.Name, err)
		}

		registry.schemas[meta.Name] = schema
	}

	registry.rules[meta.Name] = rule

	return nil
}

// Get returns the rule with the given name.
func (registry *Registry) Get(name string) (Rule, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	rule, ok := registry.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}

	return rule, nil
}

// Names returns the registered rule names in sorted order.
func (registry *Registry) Names() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.rules))
	for name := range registry.rules {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// ValidateOptions checks options against the rule's schema. Rules without a
// schema accept anything.
func (registry *Registry) ValidateOptions(name string, options []any) error {
	if _, err := registry.Get(name); err != nil {
		return err
	}

	registry.mu.RLock()
	schema := registry.schemas[name]
	registry.mu.RUnlock()

	if schema == nil {
		return nil
	}

	if options == nil {
		options = []any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(options))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidOptions, name, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, verr.String())
	}

	return fmt.Errorf("%w: %s: %s", ErrInvalidOptions, name, strings.Join(problems, "; "))
}
