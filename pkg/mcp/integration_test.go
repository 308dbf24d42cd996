package mcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/modcheck/pkg/mcp"
	"github.com/Sumatoshi-tech/modcheck/pkg/observability"
)

func connect(t *testing.T, srv *mcp.Server) (*mcpsdk.ClientSession, context.Context) {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session, ctx
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	srv, err := mcp.NewServer(mcp.ServerDeps{})
	require.NoError(t, err)

	assert.Equal(t, []string{"modcheck_check", "uast_parse"}, srv.ListToolNames())

	session, ctx := connect(t, srv)

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, toolsResult)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{"modcheck_check", "uast_parse"}, toolNames)
}

func TestMCPServer_InMemoryTransport_CallCheck(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewRequestMetrics(mp.Meter("test"))
	require.NoError(t, err)

	srv, err := mcp.NewServer(mcp.ServerDeps{Metrics: metrics})
	require.NoError(t, err)

	session, ctx := connect(t, srv)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "modcheck_check",
		Arguments: map[string]any{
			"code":             "const fs = require('fs');\n",
			"filename":         "tool.cjs",
			"required_modules": []string{"fs", "common"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `Mandatory module \"common\" must be loaded.`)
	assert.NotContains(t, text.Text, `\"fs\"`)
}

func TestMCPServer_InMemoryTransport_CallUASTParse(t *testing.T) {
	t.Parallel()

	srv, err := mcp.NewServer(mcp.ServerDeps{})
	require.NoError(t, err)

	session, ctx := connect(t, srv)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "uast_parse",
		Arguments: map[string]any{
			"code":     "import x from 'y';\n",
			"filename": "a.mjs",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "ImportDeclaration")
}
