// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the assistant commands as tools over stdio.
package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/kith/internal/command"
)

// CommandsURI is the resource holding the command reference.
const CommandsURI = "kith://commands"

// Server wraps the MCP server with one tool per command.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *command.Dispatcher
	session    *command.Session
	autosave   bool
	logger     *slog.Logger

	// mu serialises tool calls; the books are not safe for concurrent use.
	mu sync.Mutex
}

// New creates a new MCP server with every command registered as a tool.
func New(d *command.Dispatcher, sess *command.Session, autosave bool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{dispatcher: d, session: sess, autosave: autosave, logger: logger}

	s.mcp = server.NewMCPServer(
		"Kith",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	for _, spec := range exposed() {
		s.mcp.AddTool(mcp.NewTool(spec.Name,
			mcp.WithDescription(toolDescription(spec)),
			mcp.WithString("args", mcp.Description(argsDescription(spec))),
		), s.toolHandler(spec))
	}

	s.mcp.AddResource(
		mcp.NewResource(CommandsURI, "Command Reference",
			mcp.WithResourceDescription("Every command with its arguments and input formats."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCommandsResource,
	)

	return s
}

// exposed lists the commands offered as tools. help and exit only make
// sense in the console.
func exposed() []command.Spec {
	var out []command.Spec
	for _, spec := range command.Specs() {
		if spec.Command == command.Help || spec.Command == command.Exit {
			continue
		}
		out = append(out, spec)
	}
	return out
}

// Serve runs the JSON-RPC loop on in and out until ctx is done or in closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// Flush saves the session once no tool call is in flight. Calls arriving
// after Flush wait for it to finish.
func (s *Server) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Save == nil {
		return nil
	}
	return s.session.Save()
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) toolHandler(spec command.Spec) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ""
		if a, err := req.RequireString("args"); err == nil {
			args = a
		}
		return s.call(spec, args), nil
	}
}

func (s *Server) call(spec command.Spec, args string) *mcp.CallToolResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.dispatcher.Dispatch(s.session, strings.TrimSpace(spec.Name+" "+args))
	if res.Failed {
		return mcp.NewToolResultError(res.Output)
	}
	if res.Mutated && s.autosave && s.session.Save != nil {
		if err := s.session.Save(); err != nil {
			s.logger.Error("autosave failed", slog.String("command", spec.Name), slog.String("error", err.Error()))
			return mcp.NewToolResultError(res.Output + "\nError: autosave failed: " + err.Error())
		}
	}
	return mcp.NewToolResultText(res.Output)
}

func (s *Server) readCommandsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CommandsURI,
			MIMEType: "text/markdown",
			Text:     CommandReference(),
		},
	}, nil
}
