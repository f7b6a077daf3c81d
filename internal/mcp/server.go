package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

const (
	ServerName    = "deskgrid"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the desktop tools forward to.
type Daemon interface {
	Arrange() error
	Restore() error
	Toggle() error
	SetProfile(name string) error
	GetStatus() (*ipc.StatusData, error)
}

// Server is the MCP server exposing the layout engine and the running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	daemon    Daemon
}

// NewServer creates a new MCP server. A nil daemon talks to the daemon on
// the default socket.
func NewServer(cfg *config.Config, daemon Daemon) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if daemon == nil {
		daemon = ipc.NewClient()
	}

	s := &Server{
		config: cfg,
		daemon: daemon,
	}
	s.mcpServer = mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "organize_windows",
		Description: "Lay out windows in a uniform-height grid inside a desktop rectangle. Each task keeps its aspect ratio; tasks that do not fit under the profile's min_task_width or max_rows are reported hidden. Pure computation: nothing on screen moves.",
	}, s.handleOrganize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dismiss_window",
		Description: "Update a layout after one window closed. Pass the layout currently shown as previous to get a minimal reflow where possible; the path field reports whether the result was a full, fresh, reflow or hidden_dismiss pass.",
	}, s.handleDismiss)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "find_obscured_windows",
		Description: "Report windows that are completely covered by windows in front of them. The stack is ordered front to back; minimized windows are ignored.",
	}, s.handleObscured)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_desktop",
		Description: "Ask the running deskgrid daemon to arrange, restore or toggle the overview on the active display.",
	}, s.handleArrangeDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report the running daemon's active profile and the overviews it is showing.",
	}, s.handleDesktopStatus)
}
