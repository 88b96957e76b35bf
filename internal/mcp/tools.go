package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridsnap/internal/grid"
	"github.com/1broseidon/gridsnap/internal/ipc"
	"github.com/1broseidon/gridsnap/internal/platform"
)

func (s *Server) handleClipWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ClipWindowInput) (*mcpsdk.CallToolResult, ClipWindowOutput, error) {
	cell, err := grid.ParseCell(args.Cell)
	if err != nil {
		return nil, ClipWindowOutput{}, err
	}
	if err := s.daemon.Clip(cell.String()); err != nil {
		return nil, ClipWindowOutput{}, fmt.Errorf("failed to clip window to %s: %w", cell, err)
	}

	out := ClipWindowOutput{Cell: cell.String()}
	if info, err := s.daemon.GetActiveWindow(); err == nil {
		out.Window = windowInfo(*info)
	}
	return nil, out, nil
}

func (s *Server) handleSetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowStateInput) (*mcpsdk.CallToolResult, SetWindowStateOutput, error) {
	state, err := platform.ParseWindowState(args.State)
	if err != nil {
		return nil, SetWindowStateOutput{}, err
	}
	if err := s.daemon.SetState(state.String()); err != nil {
		return nil, SetWindowStateOutput{}, fmt.Errorf("failed to %s window: %w", state, err)
	}
	return nil, SetWindowStateOutput{State: state.String()}, nil
}

func (s *Server) handleSetTopMost(_ context.Context, _ *mcpsdk.CallToolRequest, args SetTopMostInput) (*mcpsdk.CallToolResult, SetTopMostOutput, error) {
	if err := s.daemon.SetTopMost(args.Enabled); err != nil {
		return nil, SetTopMostOutput{}, fmt.Errorf("failed to set topmost: %w", err)
	}
	return nil, SetTopMostOutput{Enabled: args.Enabled}, nil
}

func (s *Server) handleSetDecorations(_ context.Context, _ *mcpsdk.CallToolRequest, args SetDecorationsInput) (*mcpsdk.CallToolResult, SetDecorationsOutput, error) {
	if err := s.daemon.SetDecorations(args.Decorated); err != nil {
		return nil, SetDecorationsOutput{}, fmt.Errorf("failed to set decorations: %w", err)
	}
	return nil, SetDecorationsOutput{Decorated: args.Decorated}, nil
}

func (s *Server) handleGetActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	info, err := s.daemon.GetActiveWindow()
	if err != nil {
		return nil, WindowInfo{}, err
	}
	return nil, windowInfo(*info), nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(data.Windows))}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, windowInfo(w))
	}
	return nil, out, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorInfo(m))
	}
	return nil, out, nil
}

func windowInfo(w ipc.WindowInfo) WindowInfo {
	return WindowInfo{
		ID:     w.ID,
		Title:  w.Title,
		AppID:  w.AppID,
		X:      w.X,
		Y:      w.Y,
		Width:  w.Width,
		Height: w.Height,
	}
}
