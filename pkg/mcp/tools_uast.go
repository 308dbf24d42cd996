package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/modcheck/pkg/uast/pkg/node"
)

// filteredType labels the synthetic root returned for filtered queries.
const filteredType node.Type = "FilteredResults"

// handleUASTParse processes uast_parse tool calls.
func (s *Server) handleUASTParse(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input UASTParseInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateCode(input.Code); err != nil {
		return errorResult(err)
	}

	filename := inputFilename(input.Filename)
	if !s.parser.IsSupported(filename) {
		return errorResult(fmt.Errorf("%w: %s", ErrUnsupportedFile, filename))
	}

	root, err := s.parser.Parse(ctx, filename, []byte(input.Code))
	if err != nil {
		return errorResult(fmt.Errorf("parse code: %w", err))
	}

	if input.Query != "" {
		root = filterNodesByType(root, node.Type(input.Query))
	}

	return jsonResult(root)
}

// filterNodesByType collects the outermost nodes of the given type under a
// synthetic root.
func filterNodesByType(root *node.Node, nodeType node.Type) *node.Node {
	var matches []*node.Node

	collectMatchingNodes(root, nodeType, &matches)

	return &node.Node{
		Type:     filteredType,
		Children: matches,
	}
}

func collectMatchingNodes(current *node.Node, nodeType node.Type, matches *[]*node.Node) {
	if current == nil {
		return
	}

	if current.Type == nodeType {
		*matches = append(*matches, current)

		return
	}

	for _, child := range current.Children {
		collectMatchingNodes(child, nodeType, matches)
	}
}
