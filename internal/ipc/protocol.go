package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/gridsnap/internal/platform"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload          CommandType = "RELOAD"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetMonitors     CommandType = "GET_MONITORS"
	CommandClip            CommandType = "CLIP"
	CommandSetState        CommandType = "SET_STATE"
	CommandSetTopMost      CommandType = "SET_TOPMOST"
	CommandSetStyle        CommandType = "SET_STYLE"
	CommandGetActiveWindow CommandType = "GET_ACTIVE_WINDOW"
	CommandListWindows     CommandType = "LIST_WINDOWS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool   `json:"daemon_running"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	ScreenWidth   int    `json:"screen_width"`
	ScreenHeight  int    `json:"screen_height"`
	CurrentWindow uint32 `json:"current_window,omitempty"`
	Activations   int    `json:"activations"`
	Listeners     int    `json:"listeners"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// WindowInfo describes one top-level window. Coordinates are the outer frame.
type WindowInfo struct {
	ID     uint32 `json:"id"`
	PID    int    `json:"pid,omitempty"`
	AppID  string `json:"app_id,omitempty"`
	Title  string `json:"title"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// ClipPayload names the grid cell for CLIP, e.g. "top-left".
type ClipPayload struct {
	Cell string `json:"cell"`
}

// SetStatePayload names the state for SET_STATE, e.g. "maximize".
type SetStatePayload struct {
	State string `json:"state"`
}

type SetTopMostPayload struct {
	Enabled bool `json:"enabled"`
}

// SetStylePayload toggles window decorations.
type SetStylePayload struct {
	Decorated bool `json:"decorated"`
}

// NewWindowInfo converts a platform window to its wire form.
func NewWindowInfo(w platform.Window) WindowInfo {
	return WindowInfo{
		ID:     uint32(w.ID),
		PID:    w.PID,
		AppID:  w.AppID,
		Title:  w.Title,
		X:      w.Bounds.Left,
		Y:      w.Bounds.Top,
		Width:  w.Bounds.Width(),
		Height: w.Bounds.Height(),
	}
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
