package uast

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// Tree-sitter node types with a dedicated lowering.
const (
	tsProgram          = "program"
	tsImportStatement  = "import_statement"
	tsExportStatement  = "export_statement"
	tsCallExpression   = "call_expression"
	tsNewExpression    = "new_expression"
	tsMemberExpression = "member_expression"
	tsArguments        = "arguments"
	tsImport           = "import"
	tsIdentifier       = "identifier"
	tsPropertyIdent    = "property_identifier"
	tsShorthandIdent   = "shorthand_property_identifier"
	tsString           = "string"
	tsTemplateString   = "template_string"
	tsTemplateSubst    = "template_substitution"
	tsNumber           = "number"
	tsTrue             = "true"
	tsFalse            = "false"
	tsNull             = "null"
	tsRegex            = "regex"
	tsParenthesized    = "parenthesized_expression"
	tsComment          = "comment"
	tsHashBang         = "hash_bang_line"
)

// ESTree kinds without a named constant in the node package.
const (
	typeNewExpression    node.Type = "NewExpression"
	typeTaggedTemplate   node.Type = "TaggedTemplateExpression"
	exportDefaultPrefix            = "export default"
	exportAllMarker                = "*"
)

// lowerer converts a tree-sitter syntax tree into an ESTree-shaped node tree.
type lowerer struct {
	source []byte
}

func newLowerer(source []byte) *lowerer {
	return &lowerer{source: source}
}

// lower converts one tree-sitter node. It returns nil for nodes that have no
// ESTree counterpart (comments, hash-bang lines).
func (lw *lowerer) lower(tsNode sitter.Node, roles ...node.Role) *node.Node {
	switch tsNode.Type() {
	case tsComment, tsHashBang:
		return nil
	case tsParenthesized:
		return lw.lowerParenthesized(tsNode, roles)
	case tsProgram:
		return lw.lowerProgram(tsNode, roles)
	case tsImportStatement:
		return lw.lowerImport(tsNode, roles)
	case tsExportStatement:
		return lw.lowerExport(tsNode, roles)
	case tsCallExpression:
		return lw.lowerCall(tsNode, roles)
	case tsNewExpression:
		return lw.lowerNew(tsNode, roles)
	case tsMemberExpression:
		return lw.lowerMember(tsNode, roles)
	case tsIdentifier, tsPropertyIdent, tsShorthandIdent:
		return lw.leaf(tsNode, node.TypeIdentifier, lw.text(tsNode), roles)
	case tsString:
		return lw.lowerString(tsNode, roles)
	case tsTemplateString:
		return lw.lowerTemplate(tsNode, roles)
	case tsNumber:
		return lw.literal(tsNode, node.LiteralNumber, lw.text(tsNode), roles)
	case tsTrue, tsFalse:
		return lw.literal(tsNode, node.LiteralBoolean, lw.text(tsNode), roles)
	case tsNull:
		return lw.literal(tsNode, node.LiteralNull, "", roles)
	case tsRegex:
		return lw.literal(tsNode, node.LiteralRegExp, lw.text(tsNode), roles)
	default:
		return lw.lowerGeneric(tsNode, node.Type(tsNode.Type()), roles)
	}
}

func (lw *lowerer) lowerGeneric(tsNode sitter.Node, nodeType node.Type, roles []node.Role) *node.Node {
	result := lw.leaf(tsNode, nodeType, "", roles)
	lw.appendNamedChildren(result, tsNode)

	return result
}

// lowerProgram anchors the Program at the start of the source, ahead of any
// leading blank lines or comments.
func (lw *lowerer) lowerProgram(tsNode sitter.Node, roles []node.Role) *node.Node {
	program := lw.lowerGeneric(tsNode, node.TypeProgram, roles)

	program.Pos.StartLine = 1
	program.Pos.StartCol = 1
	program.Pos.StartOffset = 0

	return program
}

func (lw *lowerer) lowerParenthesized(tsNode sitter.Node, roles []node.Role) *node.Node {
	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.Type() == tsComment {
			continue
		}

		return lw.lower(child, roles...)
	}

	return lw.lowerGeneric(tsNode, node.Type(tsNode.Type()), roles)
}

func (lw *lowerer) lowerImport(tsNode sitter.Node, roles []node.Role) *node.Node {
	result := lw.leaf(tsNode, node.TypeImportDeclaration, "", roles)
	source := tsNode.ChildByFieldName("source")

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if sameNode(child, source) {
			lw.appendLowered(result, child, node.RoleSource)

			continue
		}

		lw.appendLowered(result, child)
	}

	return result
}

func (lw *lowerer) lowerExport(tsNode sitter.Node, roles []node.Role) *node.Node {
	nodeType := node.TypeExportNamedDeclaration
	source := tsNode.ChildByFieldName("source")

	switch {
	case strings.HasPrefix(lw.text(tsNode), exportDefaultPrefix):
		nodeType = node.TypeExportDefault
	case !source.IsNull() && lw.hasChildOfType(tsNode, exportAllMarker):
		nodeType = node.TypeExportAll
	}

	result := lw.leaf(tsNode, nodeType, "", roles)

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if sameNode(child, source) {
			lw.appendLowered(result, child, node.RoleSource)

			continue
		}

		lw.appendLowered(result, child)
	}

	return result
}

func (lw *lowerer) lowerCall(tsNode sitter.Node, roles []node.Role) *node.Node {
	callee := tsNode.ChildByFieldName("function")
	args := tsNode.ChildByFieldName("arguments")

	if !callee.IsNull() && callee.Type() == tsImport {
		result := lw.leaf(tsNode, node.TypeImportExpression, "", roles)
		lw.appendArguments(result, args, node.RoleSource)

		return result
	}

	if !args.IsNull() && args.Type() == tsTemplateString {
		result := lw.leaf(tsNode, typeTaggedTemplate, "", roles)
		lw.appendLowered(result, callee, node.RoleCallee)
		lw.appendLowered(result, args)

		return result
	}

	result := lw.leaf(tsNode, node.TypeCallExpression, "", roles)
	lw.appendLowered(result, callee, node.RoleCallee)
	lw.appendArguments(result, args, node.RoleArgument)

	return result
}

func (lw *lowerer) lowerNew(tsNode sitter.Node, roles []node.Role) *node.Node {
	result := lw.leaf(tsNode, typeNewExpression, "", roles)
	lw.appendLowered(result, tsNode.ChildByFieldName("constructor"), node.RoleCallee)
	lw.appendArguments(result, tsNode.ChildByFieldName("arguments"), node.RoleArgument)

	return result
}

func (lw *lowerer) lowerMember(tsNode sitter.Node, roles []node.Role) *node.Node {
	result := lw.leaf(tsNode, node.TypeMemberExpression, "", roles)
	lw.appendLowered(result, tsNode.ChildByFieldName("object"), node.RoleObject)
	lw.appendLowered(result, tsNode.ChildByFieldName("property"), node.RoleProperty)

	return result
}

func (lw *lowerer) lowerString(tsNode sitter.Node, roles []node.Role) *node.Node {
	raw := lw.text(tsNode)

	return lw.literal(tsNode, node.LiteralString, unquoteJS(raw), roles)
}

func (lw *lowerer) lowerTemplate(tsNode sitter.Node, roles []node.Role) *node.Node {
	raw := lw.text(tsNode)
	result := lw.leaf(tsNode, node.TypeTemplateLiteral, "", roles)
	result.Props = map[string]string{node.PropRaw: raw}

	substituted := false

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.Type() != tsTemplateSubst {
			continue
		}

		substituted = true

		lw.appendNamedChildren(result, child)
	}

	if !substituted && len(raw) >= 2 {
		result.Token = raw[1 : len(raw)-1]
	}

	return result
}

// appendArguments flattens an `arguments` node into role-tagged children of parent.
func (lw *lowerer) appendArguments(parent *node.Node, args sitter.Node, role node.Role) {
	if args.IsNull() {
		return
	}

	if args.Type() != tsArguments {
		lw.appendLowered(parent, args, role)

		return
	}

	for idx := range args.NamedChildCount() {
		lw.appendLowered(parent, args.NamedChild(idx), role)
	}
}

func (lw *lowerer) appendNamedChildren(parent *node.Node, tsNode sitter.Node) {
	for idx := range tsNode.NamedChildCount() {
		lw.appendLowered(parent, tsNode.NamedChild(idx))
	}
}

func (lw *lowerer) appendLowered(parent *node.Node, tsNode sitter.Node, roles ...node.Role) {
	if tsNode.IsNull() {
		return
	}

	if lowered := lw.lower(tsNode, roles...); lowered != nil {
		parent.AddChild(lowered)
	}
}

func (lw *lowerer) hasChildOfType(tsNode sitter.Node, typ string) bool {
	for idx := range tsNode.ChildCount() {
		if tsNode.Child(idx).Type() == typ {
			return true
		}
	}

	return false
}

func (lw *lowerer) literal(tsNode sitter.Node, kind, value string, roles []node.Role) *node.Node {
	result := lw.leaf(tsNode, node.TypeLiteral, value, roles)
	result.Props = map[string]string{
		node.PropLiteralKind: kind,
		node.PropRaw:         lw.text(tsNode),
	}

	return result
}

func (lw *lowerer) leaf(tsNode sitter.Node, nodeType node.Type, token string, roles []node.Role) *node.Node {
	return &node.Node{
		Type:  nodeType,
		Token: token,
		Roles: roles,
		Pos:   lw.positions(tsNode),
	}
}

// positions extracts position information from the tree-sitter node.
func (lw *lowerer) positions(tsNode sitter.Node) *node.Positions {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()

	return node.NewPositions(
		uint(start.Row)+1,
		uint(start.Column)+1,
		uint(tsNode.StartByte()),
		uint(end.Row)+1,
		uint(end.Column)+1,
		uint(tsNode.EndByte()),
	)
}

func (lw *lowerer) text(tsNode sitter.Node) string {
	start := tsNode.StartByte()
	end := tsNode.EndByte()

	if int(end) > len(lw.source) || start > end {
		return ""
	}

	return string(lw.source[start:end])
}

// sameNode reports whether two handles refer to the same syntax node.
func sameNode(left, right sitter.Node) bool {
	if left.IsNull() || right.IsNull() {
		return false
	}

	return left.StartByte() == right.StartByte() &&
		left.EndByte() == right.EndByte() &&
		left.Type() == right.Type()
}

// unquoteJS decodes a quoted JavaScript string literal the way an ESTree
// Literal value is computed. Unknown escapes decode to the escaped character.
func unquoteJS(raw string) string {
	if len(raw) < 2 {
		return raw
	}

	inner := raw[1 : len(raw)-1]
	if !strings.Contains(inner, `\`) {
		return inner
	}

	runes := []rune(inner)

	var decoded strings.Builder

	for idx := 0; idx < len(runes); idx++ {
		if runes[idx] != '\\' || idx+1 == len(runes) {
			decoded.WriteRune(runes[idx])

			continue
		}

		idx++

		value, consumed := decodeEscape(runes[idx:])
		if value >= 0 {
			decoded.WriteRune(value)
		}

		idx += consumed - 1
	}

	return decoded.String()
}

// decodeEscape decodes the escape starting after a backslash. It returns the
// rune (or -1 for a line continuation) and how many runes it consumed.
func decodeEscape(rest []rune) (rune, int) {
	switch ch := rest[0]; ch {
	case 'n':
		return '\n', 1
	case 't':
		return '\t', 1
	case 'r':
		return '\r', 1
	case '\r':
		if len(rest) > 1 && rest[1] == '\n' {
			return -1, 2
		}

		return -1, 1
	case 'b':
		return '\b', 1
	case 'f':
		return '\f', 1
	case 'v':
		return '\v', 1
	case '\n', '\u2028', '\u2029':
		return -1, 1
	case 'x':
		if value, ok := parseHex(rest[1:min(3, len(rest))], 2); ok {
			return value, 3
		}

		return ch, 1
	case 'u':
		return decodeUnicodeEscape(rest)
	default:
		if ch >= '0' && ch <= '7' {
			return decodeOctal(rest)
		}

		return ch, 1
	}
}

// decodeUnicodeEscape handles \uXXXX, \u{X...} and UTF-16 surrogate pairs.
func decodeUnicodeEscape(rest []rune) (rune, int) {
	if len(rest) > 1 && rest[1] == '{' {
		end := slices.Index(rest, '}')
		if end > 2 {
			if value, ok := parseHex(rest[2:end], end-2); ok && value <= unicode.MaxRune {
				return value, end + 1
			}
		}

		return 'u', 1
	}

	if len(rest) < 5 {
		return 'u', 1
	}

	high, ok := parseHex(rest[1:5], 4)
	if !ok {
		return 'u', 1
	}

	if utf16.IsSurrogate(high) && len(rest) >= 11 && rest[5] == '\\' && rest[6] == 'u' {
		if low, lowOK := parseHex(rest[7:11], 4); lowOK {
			if pair := utf16.DecodeRune(high, low); pair != unicode.ReplacementChar {
				return pair, 11
			}
		}
	}

	return high, 5
}

// decodeOctal handles legacy octal escapes, including \0.
func decodeOctal(rest []rune) (rune, int) {
	limit := 3
	if rest[0] > '3' {
		limit = 2
	}

	var value rune

	consumed := 0
	for consumed < limit && consumed < len(rest) && rest[consumed] >= '0' && rest[consumed] <= '7' {
		value = value*8 + rest[consumed] - '0'
		consumed++
	}

	return value, consumed
}

func parseHex(digits []rune, want int) (rune, bool) {
	if len(digits) != want || want == 0 {
		return 0, false
	}

	value, err := strconv.ParseUint(string(digits), 16, 32)
	if err != nil {
		return 0, false
	}

	return rune(value), true
}
