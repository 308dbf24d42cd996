// Package node provides the canonical AST node structure used by the linter,
// together with the operations rules need for traversal and inspection.
package node

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Role labels the syntactic slot a node occupies inside its parent
// (for example the callee of a call, or the source of an import).
type Role string

// Type is the ESTree-style kind of a node (for example "CallExpression").
type Type string

// Positions represents the byte and line/col offsets for a node.
// All fields are 1-based except StartOffset/EndOffset, which are byte offsets.
type Positions struct {
	StartLine   uint `json:"start_line,omitempty"`
	StartCol    uint `json:"start_col,omitempty"`
	StartOffset uint `json:"start_offset,omitempty"`
	EndLine     uint `json:"end_line,omitempty"`
	EndCol      uint `json:"end_col,omitempty"`
	EndOffset   uint `json:"end_offset,omitempty"`
}

// NewPositions creates a Positions value from its six components.
func NewPositions(startLine, startCol, startOffset, endLine, endCol, endOffset uint) *Positions {
	return &Positions{
		StartLine:   startLine,
		StartCol:    startCol,
		StartOffset: startOffset,
		EndLine:     endLine,
		EndCol:      endCol,
		EndOffset:   endOffset,
	}
}

// Node is the canonical AST node structure.
//
// Fields:
//
//	Type: node kind (e.g., "ImportDeclaration", "Identifier").
//	Token: identifier name or literal value for leaf nodes.
//	Roles: slot labels inside the parent (see Role).
//	Pos: source code position info (optional).
//	Props: additional properties (literal kind, raw text, operator).
//	Children: child nodes (ordered).
type Node struct {
	Token    string            `json:"token,omitempty"`
	Type     Type              `json:"type,omitempty"`
	Roles    []Role            `json:"roles,omitempty"`
	Pos      *Positions        `json:"pos,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// NodeBuilder provides a fluent interface for building Node instances.
type NodeBuilder struct {
	node *Node
}

// NewBuilder creates a new NodeBuilder.
func NewBuilder() *NodeBuilder {
	return &NodeBuilder{node: &Node{}}
}

// WithType sets the node type.
func (builder *NodeBuilder) WithType(nodeType Type) *NodeBuilder {
	builder.node.Type = nodeType

	return builder
}

// WithToken sets the node token.
func (builder *NodeBuilder) WithToken(token string) *NodeBuilder {
	builder.node.Token = token

	return builder
}

// WithRoles sets the node roles.
func (builder *NodeBuilder) WithRoles(roles ...Role) *NodeBuilder {
	builder.node.Roles = roles

	return builder
}

// WithPosition sets the node position.
func (builder *NodeBuilder) WithPosition(pos *Positions) *NodeBuilder {
	builder.node.Pos = pos

	return builder
}

// WithProp sets a single property.
func (builder *NodeBuilder) WithProp(key, value string) *NodeBuilder {
	if builder.node.Props == nil {
		builder.node.Props = make(map[string]string, 1)
	}

	builder.node.Props[key] = value

	return builder
}

// WithChildren appends children to the node.
func (builder *NodeBuilder) WithChildren(children ...*Node) *NodeBuilder {
	builder.node.Children = append(builder.node.Children, children...)

	return builder
}

// Build returns the final Node.
func (builder *NodeBuilder) Build() *Node {
	return builder.node
}

// AddChild appends a child node to n.
func (targetNode *Node) AddChild(child *Node) {
	targetNode.Children = append(targetNode.Children, child)
}

// ChildWithRole returns the first child carrying the given role, or nil.
func (targetNode *Node) ChildWithRole(role Role) *Node {
	if targetNode == nil {
		return nil
	}

	for _, child := range targetNode.Children {
		if child.HasAnyRole(role) {
			return child
		}
	}

	return nil
}

// ChildrenWithRole returns all children carrying the given role, in order.
func (targetNode *Node) ChildrenWithRole(role Role) []*Node {
	if targetNode == nil {
		return nil
	}

	var result []*Node

	for _, child := range targetNode.Children {
		if child.HasAnyRole(role) {
			result = append(result, child)
		}
	}

	return result
}

// HasAnyRole checks if the node has any of the given roles.
func (targetNode *Node) HasAnyRole(roles ...Role) bool {
	if targetNode == nil || len(targetNode.Roles) == 0 {
		return false
	}

	for _, role := range roles {
		if slices.Contains(targetNode.Roles, role) {
			return true
		}
	}

	return false
}

// HasAnyType checks if the node has any of the given types.
func (targetNode *Node) HasAnyType(nodeTypes ...Type) bool {
	if targetNode == nil {
		return false
	}

	return slices.Contains(nodeTypes, targetNode.Type)
}

// ToMap converts the node to a map representation.
func (targetNode *Node) ToMap() map[string]any {
	if targetNode == nil {
		return nil
	}

	result := map[string]any{"type": string(targetNode.Type)}

	if targetNode.Token != "" {
		result["token"] = targetNode.Token
	}

	if len(targetNode.Roles) > 0 {
		roles := make([]string, len(targetNode.Roles))
		for idx, role := range targetNode.Roles {
			roles[idx] = string(role)
		}

		result["roles"] = roles
	}

	if len(targetNode.Props) > 0 {
		result["props"] = targetNode.Props
	}

	if targetNode.Pos != nil {
		result["pos"] = map[string]any{
			"start_line":   targetNode.Pos.StartLine,
			"start_col":    targetNode.Pos.StartCol,
			"start_offset": targetNode.Pos.StartOffset,
			"end_line":     targetNode.Pos.EndLine,
			"end_col":      targetNode.Pos.EndCol,
			"end_offset":   targetNode.Pos.EndOffset,
		}
	}

	if len(targetNode.Children) > 0 {
		children := make([]map[string]any, len(targetNode.Children))
		for idx, child := range targetNode.Children {
			children[idx] = child.ToMap()
		}

		result["children"] = children
	}

	return result
}

// String returns a string representation of the node.
func (targetNode *Node) String() string {
	if targetNode == nil {
		return "nil"
	}

	var buf strings.Builder

	buf.WriteString("Node{")
	buf.WriteString("Type:")
	buf.WriteString(string(targetNode.Type))

	if targetNode.Token != "" {
		buf.WriteString(",Token:")
		buf.WriteString(targetNode.Token)
	}

	if len(targetNode.Roles) > 0 {
		buf.WriteString(",Roles:[")

		for idx, role := range targetNode.Roles {
			if idx > 0 {
				buf.WriteString(" ")
			}

			buf.WriteString(string(role))
		}

		buf.WriteString("]")
	}

	if len(targetNode.Props) > 0 {
		fmt.Fprintf(&buf, ",Props:%v", targetNode.Props)
	}

	if len(targetNode.Children) > 0 {
		buf.WriteString(",Children:")
		buf.WriteString(strconv.Itoa(len(targetNode.Children)))
	}

	buf.WriteString("}")

	return buf.String()
}
