// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes the article pipeline as an MCP tool.
package mcpserver

import (
	"context"
	"errors"
	"strings"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pdiddy/article-engine/internal/pipeline"
)

// ToolName is the name under which the pipeline is registered.
const ToolName = "write_article"

// Runner runs one article pipeline and reports on it.
type Runner interface {
	RunReported(ctx context.Context, topic string, extra ...pipeline.Hooks) *pipeline.Report
}

// Server wraps the MCP SDK server. Tool calls are serialized.
type Server struct {
	MCPServer *sdkmcp.Server

	runner Runner
	logger *zap.Logger
	mu     sync.Mutex
}

type writeArticleInput struct {
	Topic string `json:"topic" jsonschema:"subject of the blog post, e.g. Edge Computing"`
}

type writeArticleOutput struct {
	RunID           string `json:"run_id"`
	State           string `json:"state"`
	Stage           string `json:"stage"`
	Title           string `json:"title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	Article         string `json:"article,omitempty"`
	Text            string `json:"text"`
}

// NewServer creates the MCP server and registers the write_article tool.
func NewServer(runner Runner, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{runner: runner, logger: logger}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "article-engine", Version: version},
		nil,
	)
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        ToolName,
		Description: "Research a topic on the web, draft a blog post from the findings, and refine it for SEO. Returns the final post with its title and meta description.",
	}, s.handleWriteArticle)
	return s
}

// Run serves the tool over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) handleWriteArticle(ctx context.Context, _ *sdkmcp.CallToolRequest, input writeArticleInput) (*sdkmcp.CallToolResult, writeArticleOutput, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return nil, writeArticleOutput{}, errors.New("topic is required")
	}

	s.mu.Lock()
	report := s.runner.RunReported(ctx, topic)
	s.mu.Unlock()

	log := s.logger.With(zap.String("run_id", report.RunID), zap.String("state", string(report.State)))
	if report.Failed() {
		log.Warn("write_article failed", zap.String("cause", report.Final.Failure.Cause))
		return nil, writeArticleOutput{}, report.Final.Failure
	}
	log.Info("write_article finished")

	out := writeArticleOutput{
		RunID: report.RunID,
		State: string(report.State),
		Stage: string(report.Final.Stage),
		Text:  report.Final.Text,
	}
	if report.Article != nil {
		out.Title = report.Article.Title
		out.MetaDescription = report.Article.MetaDescription
		out.Article = report.Article.Body
	}
	return nil, out, nil
}
