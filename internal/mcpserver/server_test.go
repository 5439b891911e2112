// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-engine/internal/mcpserver"
	"github.com/pdiddy/article-engine/internal/pipeline"
	"github.com/pdiddy/article-engine/pkg/types"
)

type fakeRunner struct {
	fail   bool
	topics []string
}

func (f *fakeRunner) RunReported(_ context.Context, topic string, _ ...pipeline.Hooks) *pipeline.Report {
	f.topics = append(f.topics, topic)
	if f.fail {
		final := types.Failed(types.StageDraft, topic, errors.New("model overloaded"))
		return &pipeline.Report{RunID: "run-2", Topic: topic, State: pipeline.StateFailed, Final: final}
	}
	final := types.Succeeded(types.StageRefine, "New Title: Edge Computing Explained\nMeta Description: Less latency.\n---\nBody text #edge")
	article, _ := types.ParseArticle(final.Text)
	return &pipeline.Report{RunID: "run-1", Topic: topic, State: pipeline.StateDone, Final: final, Article: &article}
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func textOf(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content in tool result")
	return ""
}

func TestToolDiscovery(t *testing.T) {
	ctx := context.Background()
	session := connectInMemory(t, ctx, mcpserver.NewServer(&fakeRunner{}, "test", nil))

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, mcpserver.ToolName, tools.Tools[0].Name)
}

func TestWriteArticle(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{}
	session := connectInMemory(t, ctx, mcpserver.NewServer(runner, "test", nil))

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      mcpserver.ToolName,
		Arguments: map[string]any{"topic": "Edge Computing"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, textOf(t, res))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	assert.Equal(t, "run-1", out["run_id"])
	assert.Equal(t, "DONE", out["state"])
	assert.Equal(t, "refine", out["stage"])
	assert.Equal(t, "Edge Computing Explained", out["title"])
	assert.Equal(t, "Less latency.", out["meta_description"])
	assert.Equal(t, "Body text #edge", out["article"])
	assert.Equal(t, []string{"Edge Computing"}, runner.topics)
}

func TestWriteArticleFailure(t *testing.T) {
	ctx := context.Background()
	session := connectInMemory(t, ctx, mcpserver.NewServer(&fakeRunner{fail: true}, "test", nil))

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      mcpserver.ToolName,
		Arguments: map[string]any{"topic": "Quantum Networking"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	text := textOf(t, res)
	assert.Contains(t, text, "Error:")
	assert.Contains(t, text, "Quantum Networking")
	assert.Contains(t, text, "model overloaded")
}

func TestWriteArticleBlankTopic(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{}
	session := connectInMemory(t, ctx, mcpserver.NewServer(runner, "test", nil))

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      mcpserver.ToolName,
		Arguments: map[string]any{"topic": "  "},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "topic is required")
	assert.Empty(t, runner.topics)
}
