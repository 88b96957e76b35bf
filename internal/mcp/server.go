package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridsnap/internal/ipc"
)

const (
	ServerName    = "gridsnap"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	Clip(cell string) error
	SetState(state string) error
	SetTopMost(enabled bool) error
	SetDecorations(decorated bool) error
	GetActiveWindow() (*ipc.WindowInfo, error)
	ListWindows() (*ipc.WindowsData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes window placement to MCP clients by forwarding to the
// running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that talks to the daemon over IPC.
func NewServer() *Server {
	return newServer(ipc.NewClient())
}

func newServer(d Daemon) *Server {
	s := &Server{daemon: d}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clip_window",
		Description: "Move the focused window into one cell of a 3x3 screen grid. The grid follows the monitor the window is on. Clipping into mid a second time maximizes the window.",
	}, s.handleClipWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_state",
		Description: "Show, hide, minimize, restore or maximize the focused window.",
	}, s.handleSetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_topmost",
		Description: "Pin the focused window above all others, or release it. Position and size are unchanged.",
	}, s.handleSetTopMost)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_decorations",
		Description: "Show or hide the focused window's title bar and borders.",
	}, s.handleSetDecorations)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_active_window",
		Description: "Describe the focused window: id, title and outer frame geometry.",
	}, s.handleGetActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List visible top-level windows with their geometry.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected monitors and their position in the virtual screen.",
	}, s.handleListMonitors)
}
