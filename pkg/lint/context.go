package lint

import (
	"github.com/Sumatoshi-tech/modcheck/pkg/uast"
	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// Descriptor is what a rule passes to Context.Report. Either MessageID (looked
// up in the rule's RuleMeta.Messages) or Message must be set.
type Descriptor struct {
	Node      *node.Node
	MessageID string
	Message   string
	Data      map[string]string
}

// Context is handed to Rule.Create for one file.
type Context struct {
	Filename   string
	SourceType uast.SourceType
	Options    []any

	meta     RuleMeta
	severity Severity
	reports  []Diagnostic
}

// NewContext creates a rule context. The Linter builds one per rule and file;
// tests can use it to drive a rule directly.
func NewContext(rule Rule, filename string, sourceType uast.SourceType, options []any) *Context {
	return &Context{
		Filename:   filename,
		SourceType: sourceType,
		Options:    options,
		meta:       rule.Meta(),
		severity:   SeverityError,
	}
}

// IsModule reports whether the file uses declarative import syntax.
func (ctx *Context) IsModule() bool {
	return ctx.SourceType == uast.SourceTypeModule
}

// Report records a diagnostic anchored at desc.Node.
func (ctx *Context) Report(desc Descriptor) {
	template := desc.Message
	if desc.MessageID != "" {
		template = ctx.meta.Messages[desc.MessageID]
	}

	diag := Diagnostic{
		RuleID:    ctx.meta.Name,
		MessageID: desc.MessageID,
		Message:   Interpolate(template, desc.Data),
		Severity:  ctx.severity,
		Filename:  ctx.Filename,
		Line:      1,
		Column:    1,
	}

	if desc.Node != nil && desc.Node.Pos != nil {
		diag.Line = int(desc.Node.Pos.StartLine)
		diag.Column = int(desc.Node.Pos.StartCol)
		diag.EndLine = int(desc.Node.Pos.EndLine)
		diag.EndColumn = int(desc.Node.Pos.EndCol)
	}

	ctx.reports = append(ctx.reports, diag)
}

// Diagnostics returns everything reported so far.
func (ctx *Context) Diagnostics() []Diagnostic {
	return ctx.reports
}
