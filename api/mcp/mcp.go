// Package mcp provides an MCP (Model Context Protocol) server for the rote system.
package mcp

import (
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/quizfolkco/rote/pkg/registry"
	"github.com/quizfolkco/rote/pkg/utils"
	"github.com/quizfolkco/rote/pkg/worker"
)

type Config struct {
	// Registry resolves knowledge base names into live review engines
	Registry *registry.Registry

	// Pool for async review event publishing (optional, enables event
	// emission from the review_answer tool)
	Pool *worker.Pool

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the review tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	// Create the MCP server
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "rote",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	// Add tools
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        reviewStateToolName,
		Description: reviewStateDescription,
	}, s.handleReviewState)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        reviewAnswerToolName,
		Description: reviewAnswerDescription,
	}, s.handleReviewAnswer)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        reviewResetToolName,
		Description: reviewResetDescription,
	}, s.handleReviewReset)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listKnowledgeBasesToolName,
		Description: listKnowledgeBasesDescription,
	}, s.handleListKnowledgeBases)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
