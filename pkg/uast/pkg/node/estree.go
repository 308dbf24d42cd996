package node

// ESTree node kinds produced by the JavaScript parser.
const (
	TypeProgram                Type = "Program"
	TypeImportDeclaration      Type = "ImportDeclaration"
	TypeImportExpression       Type = "ImportExpression"
	TypeExportNamedDeclaration Type = "ExportNamedDeclaration"
	TypeExportDefault          Type = "ExportDefaultDeclaration"
	TypeExportAll              Type = "ExportAllDeclaration"
	TypeCallExpression         Type = "CallExpression"
	TypeMemberExpression       Type = "MemberExpression"
	TypeIdentifier             Type = "Identifier"
	TypeLiteral                Type = "Literal"
	TypeTemplateLiteral        Type = "TemplateLiteral"
)

// Roles label the slot a child fills in its parent.
const (
	RoleSource   Role = "Source"
	RoleCallee   Role = "Callee"
	RoleArgument Role = "Argument"
	RoleObject   Role = "Object"
	RoleProperty Role = "Property"
)

// Property keys stored in Node.Props.
const (
	PropLiteralKind = "kind"
	PropRaw         = "raw"
)

// Literal kinds stored under PropLiteralKind.
const (
	LiteralString  = "string"
	LiteralNumber  = "number"
	LiteralBoolean = "boolean"
	LiteralNull    = "null"
	LiteralRegExp  = "regexp"
)

// ConstantString reports whether the node is a constant string expression
// and returns its value. Only string literals qualify; template literals,
// identifiers and other expressions never do, even when their runtime value
// would be a string.
func (targetNode *Node) ConstantString() (string, bool) {
	if targetNode == nil || targetNode.Type != TypeLiteral {
		return "", false
	}

	if targetNode.Props[PropLiteralKind] != LiteralString {
		return "", false
	}

	return targetNode.Token, true
}

// IsIdentifierNamed reports whether the node is a bare identifier with the given name.
func (targetNode *Node) IsIdentifierNamed(name string) bool {
	return targetNode != nil && targetNode.Type == TypeIdentifier && targetNode.Token == name
}

// Callee returns the callee of a call expression, or nil.
func (targetNode *Node) Callee() *Node {
	return targetNode.ChildWithRole(RoleCallee)
}

// Arguments returns the arguments of a call expression in source order.
func (targetNode *Node) Arguments() []*Node {
	return targetNode.ChildrenWithRole(RoleArgument)
}

// Source returns the source literal of an import declaration, or nil.
func (targetNode *Node) Source() *Node {
	return targetNode.ChildWithRole(RoleSource)
}
