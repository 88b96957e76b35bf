package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/gridsnap/internal/config"
	"github.com/1broseidon/gridsnap/internal/ipc"
)

func TestParseOnOff(t *testing.T) {
	for _, s := range []string{"on", "true", "1"} {
		if v, err := parseOnOff(s); err != nil || !v {
			t.Fatalf("parseOnOff(%q) = %v, %v", s, v, err)
		}
	}
	for _, s := range []string{"off", "false", "0"} {
		if v, err := parseOnOff(s); err != nil || v {
			t.Fatalf("parseOnOff(%q) = %v, %v", s, v, err)
		}
	}
	if _, err := parseOnOff("maybe"); err == nil {
		t.Fatal("expected error")
	}
}

func TestWriteWindows_PlainIsTabSeparated(t *testing.T) {
	var buf bytes.Buffer
	windows := []ipc.WindowInfo{{ID: 0x1a, X: -7, Y: 0, Width: 661, Height: 360, AppID: "kitty", Title: "shell"}}
	if err := writeWindows(&buf, windows, false); err != nil {
		t.Fatalf("writeWindows: %v", err)
	}
	want := "0x1a\t-7\t0\t661\t360\tkitty\tshell\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteWindows_TerminalHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := writeWindows(&buf, []ipc.WindowInfo{{ID: 1, Title: "a"}}, true); err != nil {
		t.Fatalf("writeWindows: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID") || strings.Contains(lines[1], "\t") {
		t.Fatalf("unexpected table output %q", buf.String())
	}
}

func TestWriteMonitors_Plain(t *testing.T) {
	var buf bytes.Buffer
	monitors := []ipc.MonitorInfo{{ID: 1, Name: "HDMI-1", X: 1920, Width: 1920, Height: 1080}}
	if err := writeMonitors(&buf, monitors, false); err != nil {
		t.Fatalf("writeMonitors: %v", err)
	}
	if buf.String() != "1\tHDMI-1\t1920\t0\t1920\t1080\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestLookupValue(t *testing.T) {
	cfg := config.DefaultConfig()

	v, err := lookupValue(cfg, "bindings.top-left")
	if err != nil {
		t.Fatalf("lookupValue: %v", err)
	}
	if v != "Mod1-KP_7" {
		t.Fatalf("bindings.top-left = %v", v)
	}

	v, err = lookupValue(cfg, "taskbar_height")
	if err != nil {
		t.Fatalf("lookupValue: %v", err)
	}
	if v != 34 {
		t.Fatalf("taskbar_height = %v", v)
	}

	if _, err := lookupValue(cfg, "bindings.top-left.extra"); err == nil {
		t.Fatal("expected error for path through a scalar")
	}
	if _, err := lookupValue(cfg, "nope"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestFormatSource(t *testing.T) {
	if got := formatSource(config.Source{Kind: config.SourceDefault}); got != "default" {
		t.Fatalf("got %q", got)
	}
	src := config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 7}
	if got := formatSource(src); got != "file:/c.yaml:3:7" {
		t.Fatalf("got %q", got)
	}
}
