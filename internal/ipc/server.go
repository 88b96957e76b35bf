package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/gridsnap/internal/config"
	"github.com/1broseidon/gridsnap/internal/daemon"
	"github.com/1broseidon/gridsnap/internal/grid"
	"github.com/1broseidon/gridsnap/internal/platform"
	"github.com/1broseidon/gridsnap/internal/runtimepath"
)

// Controller is the daemon surface the server drives.
type Controller interface {
	Clip(cell grid.Cell) error
	SetState(state platform.WindowState) error
	SetTopMost(enabled bool) error
	SetStyle(style int) error
	ActiveWindow() (platform.Window, error)
	ListWindows() ([]platform.Window, error)
	Displays() ([]platform.Display, error)
	Snapshot() daemon.Snapshot
	UpdateConfig(cfg *config.Config) error
}

var _ Controller = (*daemon.Controller)(nil)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	ctrl         Controller
	loadConfig   func() (*config.Config, error)
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, ctrl Controller, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		ctrl:       ctrl,
		loadConfig: config.Load,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// SetConfigPath makes RELOAD read path instead of the default location.
func (s *Server) SetConfigPath(path string) {
	if path == "" {
		s.loadConfig = config.Load
		return
	}
	s.loadConfig = func() (*config.Config, error) {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandClip:
		return s.handleClip(req.Payload)
	case CommandSetState:
		return s.handleSetState(req.Payload)
	case CommandSetTopMost:
		return s.handleSetTopMost(req.Payload)
	case CommandSetStyle:
		return s.handleSetStyle(req.Payload)
	case CommandGetActiveWindow:
		return s.handleGetActiveWindow()
	case CommandListWindows:
		return s.handleListWindows()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	newCfg, err := s.loadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	if err := s.ctrl.UpdateConfig(newCfg); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	snap := s.ctrl.Snapshot()
	status := StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		ScreenWidth:   snap.Screen.Width,
		ScreenHeight:  snap.Screen.Height,
		CurrentWindow: uint32(snap.CurrentWindow),
		Activations:   snap.Activations,
		Listeners:     snap.Listeners,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetMonitors() *Response {
	displays, err := s.ctrl.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		monitorInfos[i] = MonitorInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	return resp
}

func (s *Server) handleClip(payload json.RawMessage) *Response {
	var req ClipPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid clip payload: %v", err))
	}
	cell, err := grid.ParseCell(req.Cell)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	if err := s.ctrl.Clip(cell); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to clip window: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetState(payload json.RawMessage) *Response {
	var req SetStatePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid state payload: %v", err))
	}
	state, err := platform.ParseWindowState(req.State)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	if err := s.ctrl.SetState(state); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set window state: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetTopMost(payload json.RawMessage) *Response {
	var req SetTopMostPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid topmost payload: %v", err))
	}

	if err := s.ctrl.SetTopMost(req.Enabled); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set topmost: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetStyle(payload json.RawMessage) *Response {
	var req SetStylePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid style payload: %v", err))
	}

	style := platform.StyleUndecorated
	if req.Decorated {
		style = platform.StyleDecorated
	}
	if err := s.ctrl.SetStyle(style); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set window style: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetActiveWindow() *Response {
	w, err := s.ctrl.ActiveWindow()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get active window: %v", err))
	}

	resp, _ := NewOKResponse(NewWindowInfo(w))
	return resp
}

func (s *Server) handleListWindows() *Response {
	windows, err := s.ctrl.ListWindows()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}

	infos := make([]WindowInfo, len(windows))
	for i, w := range windows {
		infos[i] = NewWindowInfo(w)
	}

	resp, _ := NewOKResponse(WindowsData{Windows: infos})
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
