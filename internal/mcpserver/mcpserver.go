// Package mcpserver exposes the dependency analyzers as MCP tools.
package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/modsplit/pkg/config"
)

// Server wraps the MCP server and registers the modsplit tools.
type Server struct {
	server *mcp.Server
	cfg    *config.Config
	pinned bool
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the analysis configuration used by every tool call.
// Without it, analyze_project loads the config file found in the project
// root and falls back to the defaults.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.cfg = cfg
			s.pinned = true
		}
	}
}

// WithLogger sets the logger used for diagnostics. Stdout carries the
// protocol, so the logger must write elsewhere.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server with all tools and prompts registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "modsplit",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_file",
		Description: describeAnalyzeFile(),
	}, s.handleAnalyzeFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_project",
		Description: describeAnalyzeProject(),
	}, s.handleAnalyzeProject)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dependency_graph",
		Description: describeDependencyGraph(),
	}, s.handleDependencyGraph)
}
