package mcp

// ClipWindowInput is the input for the clip_window tool.
type ClipWindowInput struct {
	Cell string `json:"cell" jsonschema:"required,Grid cell to move the focused window into: top-left, mid-top, top-right, mid-left, mid, mid-right, bottom-left, mid-bottom or bottom-right. Clipping into mid when the window already fills the mid cell maximizes it."`
}

// ClipWindowOutput is the output for the clip_window tool.
type ClipWindowOutput struct {
	Cell   string     `json:"cell"`
	Window WindowInfo `json:"window"`
}

// SetWindowStateInput is the input for the set_window_state tool.
type SetWindowStateInput struct {
	State string `json:"state" jsonschema:"required,One of show, hide, minimize, restore, maximize"`
}

// SetWindowStateOutput is the output for the set_window_state tool.
type SetWindowStateOutput struct {
	State string `json:"state"`
}

// SetTopMostInput is the input for the set_topmost tool.
type SetTopMostInput struct {
	Enabled bool `json:"enabled" jsonschema:"required,Keep the focused window above all others when true"`
}

// SetTopMostOutput is the output for the set_topmost tool.
type SetTopMostOutput struct {
	Enabled bool `json:"enabled"`
}

// SetDecorationsInput is the input for the set_decorations tool.
type SetDecorationsInput struct {
	Decorated bool `json:"decorated" jsonschema:"required,Show window manager decorations when true, hide them when false"`
}

// SetDecorationsOutput is the output for the set_decorations tool.
type SetDecorationsOutput struct {
	Decorated bool `json:"decorated"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// WindowInfo describes a window. Coordinates are the outer frame.
type WindowInfo struct {
	ID     uint32 `json:"id"`
	Title  string `json:"title"`
	AppID  string `json:"app_id,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// MonitorInfo describes one monitor.
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}
