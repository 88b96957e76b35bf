package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/gridsnap/internal/grid"
)

// Screen overrides the detected screen size. Zero means detect via RandR.
type Screen struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds the effective daemon configuration.
type Config struct {
	// Display is the X display to connect to (default: $DISPLAY).
	Display string `yaml:"display,omitempty"`

	Screen Screen `yaml:"screen"`

	// BorderOffset and TaskbarHeight are empirically tuned for a given
	// window manager and panel; re-measure them on a new desktop.
	BorderOffset  int `yaml:"border_offset"`
	TaskbarHeight int `yaml:"taskbar_height"`

	StyleRefreshDelayMS int    `yaml:"style_refresh_delay_ms"`
	LogLevel            string `yaml:"log_level"`

	// Bindings maps a grid cell name to an xgbutil key sequence. An empty
	// sequence disables the cell.
	Bindings map[string]string `yaml:"bindings"`

	// TopMostHotkey toggles always-on-top for the focused window.
	TopMostHotkey string `yaml:"topmost_hotkey,omitempty"`
}

// DefaultBindings mirrors Alt + numpad: the keypad layout matches the grid.
func DefaultBindings() map[string]string {
	return map[string]string{
		grid.TopLeft.String():     "Mod1-KP_7",
		grid.MidTop.String():      "Mod1-KP_8",
		grid.TopRight.String():    "Mod1-KP_9",
		grid.MidLeft.String():     "Mod1-KP_4",
		grid.Mid.String():         "Mod1-KP_5",
		grid.MidRight.String():    "Mod1-KP_6",
		grid.BottomLeft.String():  "Mod1-KP_1",
		grid.MidBottom.String():   "Mod1-KP_2",
		grid.BottomRight.String(): "Mod1-KP_3",
	}
}

func DefaultConfig() *Config {
	return &Config{
		BorderOffset:        grid.DefaultBorderOffset,
		TaskbarHeight:       grid.DefaultTaskbarHeight,
		StyleRefreshDelayMS: 10,
		LogLevel:            "info",
		Bindings:            DefaultBindings(),
	}
}

func (c *Config) Validate() error {
	if c.Screen.Width < 0 || c.Screen.Height < 0 {
		return &ValidationError{Path: "screen", Err: fmt.Errorf("screen width and height must be >= 0")}
	}
	if (c.Screen.Width == 0) != (c.Screen.Height == 0) {
		return &ValidationError{Path: "screen", Err: fmt.Errorf("set both screen.width and screen.height, or neither")}
	}
	if c.TaskbarHeight < 0 {
		return &ValidationError{Path: "taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 0")}
	}
	if c.StyleRefreshDelayMS < 0 {
		return &ValidationError{Path: "style_refresh_delay_ms", Err: fmt.Errorf("style_refresh_delay_ms must be >= 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	seen := make(map[string]string)
	cells := make(map[grid.Cell]string)
	for _, name := range sortedKeys(c.Bindings) {
		cell, err := grid.ParseCell(name)
		if err != nil {
			return &ValidationError{Path: "bindings." + name, Err: err}
		}
		if other, dup := cells[cell]; dup {
			return &ValidationError{Path: "bindings." + name, Err: fmt.Errorf("cell %s is already bound by %q", cell, other)}
		}
		cells[cell] = name
		seq := strings.TrimSpace(c.Bindings[name])
		if seq == "" {
			continue
		}
		if other, dup := seen[seq]; dup {
			return &ValidationError{Path: "bindings." + name, Err: fmt.Errorf("key sequence %q is already bound to %s", seq, other)}
		}
		seen[seq] = cell.String()
	}
	if seq := strings.TrimSpace(c.TopMostHotkey); seq != "" {
		if other, dup := seen[seq]; dup {
			return &ValidationError{Path: "topmost_hotkey", Err: fmt.Errorf("key sequence %q is already bound to %s", seq, other)}
		}
	}
	return nil
}

// Calculator returns the grid calculator for the configured corrections.
func (c *Config) Calculator() grid.Calculator {
	return grid.Calculator{
		BorderOffset:  c.BorderOffset,
		TaskbarHeight: c.TaskbarHeight,
	}
}

// ScreenDimensions returns the configured screen size, if any.
func (c *Config) ScreenDimensions() (grid.Dimensions, bool) {
	d := grid.Dimensions{Width: c.Screen.Width, Height: c.Screen.Height}
	return d, d.Valid()
}

func (c *Config) StyleRefreshDelay() time.Duration {
	return time.Duration(c.StyleRefreshDelayMS) * time.Millisecond
}

// CellBindings returns the enabled bindings keyed by cell. It assumes the
// config passed Validate.
func (c *Config) CellBindings() map[grid.Cell]string {
	out := make(map[grid.Cell]string, len(c.Bindings))
	for name, seq := range c.Bindings {
		seq = strings.TrimSpace(seq)
		if seq == "" {
			continue
		}
		cell, err := grid.ParseCell(name)
		if err != nil {
			continue
		}
		out[cell] = seq
	}
	return out
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
