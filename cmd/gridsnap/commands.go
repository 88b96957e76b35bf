package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/gridsnap/internal/grid"
	"github.com/1broseidon/gridsnap/internal/ipc"
	"github.com/1broseidon/gridsnap/internal/platform"
)

// parseCommand parses flags for a subcommand that takes exactly nargs
// positional arguments. It returns the exit code to use when ok is false.
func parseCommand(fs *flag.FlagSet, args []string, nargs int) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != nargs {
		if nargs == 0 {
			fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		} else {
			fmt.Fprintf(os.Stderr, "%s takes %d argument(s)\n", fs.Name(), nargs)
		}
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func newFlagSet(name, usage, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridsnap "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	return fs
}

func exitOnErr(err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "status", "Show daemon status via IPC.")
	if code, ok := parseCommand(fs, args, 0); !ok {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("screen:         %dx%d\n", status.ScreenWidth, status.ScreenHeight)
	fmt.Printf("current_window: 0x%x\n", status.CurrentWindow)
	fmt.Printf("activations:    %d\n", status.Activations)
	fmt.Printf("listeners:      %d\n", status.Listeners)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runReload(args []string) int {
	fs := newFlagSet("reload", "reload", "Ask the daemon to reload its configuration.")
	if code, ok := parseCommand(fs, args, 0); !ok {
		return code
	}
	return exitOnErr(ipc.NewClient().Reload())
}

func runClip(args []string) int {
	fs := newFlagSet("clip", "clip <cell>", "Move the focused window into a grid cell. Clipping into mid twice maximizes.")
	if code, ok := parseCommand(fs, args, 1); !ok {
		return code
	}

	cell, err := grid.ParseCell(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitOnErr(ipc.NewClient().Clip(cell.String()))
}

func runState(args []string) int {
	fs := newFlagSet("state", "state <show|hide|minimize|restore|maximize>", "Change the focused window's show state.")
	if code, ok := parseCommand(fs, args, 1); !ok {
		return code
	}

	state, err := platform.ParseWindowState(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitOnErr(ipc.NewClient().SetState(state.String()))
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

func runTopMost(args []string) int {
	fs := newFlagSet("topmost", "topmost on|off", "Keep the focused window above all others, or release it.")
	if code, ok := parseCommand(fs, args, 1); !ok {
		return code
	}

	enabled, err := parseOnOff(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitOnErr(ipc.NewClient().SetTopMost(enabled))
}

func runDecorations(args []string) int {
	fs := newFlagSet("decorations", "decorations on|off", "Show or hide the focused window's title bar and borders.")
	if code, ok := parseCommand(fs, args, 1); !ok {
		return code
	}

	decorated, err := parseOnOff(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return exitOnErr(ipc.NewClient().SetDecorations(decorated))
}

func runActive(args []string) int {
	fs := newFlagSet("active", "active [--json]", "Show the window the daemon is tracking.")
	asJSON := fs.Bool("json", false, "Output JSON")
	if code, ok := parseCommand(fs, args, 0); !ok {
		return code
	}

	info, err := ipc.NewClient().GetActiveWindow()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return exitOnErr(writeJSON(os.Stdout, info))
	}
	return exitOnErr(writeWindows(os.Stdout, []ipc.WindowInfo{*info}, isTTY()))
}

func runList(args []string) int {
	fs := newFlagSet("list", "list [--json]", "List visible top-level windows.")
	asJSON := fs.Bool("json", false, "Output JSON")
	if code, ok := parseCommand(fs, args, 0); !ok {
		return code
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return exitOnErr(writeJSON(os.Stdout, data))
	}
	return exitOnErr(writeWindows(os.Stdout, data.Windows, isTTY()))
}

func runMonitors(args []string) int {
	fs := newFlagSet("monitors", "monitors [--json]", "List monitors known to the daemon.")
	asJSON := fs.Bool("json", false, "Output JSON")
	if code, ok := parseCommand(fs, args, 0); !ok {
		return code
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return exitOnErr(writeJSON(os.Stdout, data))
	}
	return exitOnErr(writeMonitors(os.Stdout, data.Monitors, isTTY()))
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeWindows prints an aligned table with a header on a terminal and bare
// tab-separated rows otherwise, so the output pipes cleanly into cut or awk.
func writeWindows(w io.Writer, windows []ipc.WindowInfo, tty bool) error {
	out, flush := tableWriter(w, tty)
	if tty {
		fmt.Fprintln(out, "ID\tX\tY\tWIDTH\tHEIGHT\tAPP\tTITLE")
	}
	for _, win := range windows {
		fmt.Fprintf(out, "0x%x\t%d\t%d\t%d\t%d\t%s\t%s\n", win.ID, win.X, win.Y, win.Width, win.Height, win.AppID, win.Title)
	}
	return flush()
}

func writeMonitors(w io.Writer, monitors []ipc.MonitorInfo, tty bool) error {
	out, flush := tableWriter(w, tty)
	if tty {
		fmt.Fprintln(out, "ID\tNAME\tX\tY\tWIDTH\tHEIGHT")
	}
	for _, m := range monitors {
		fmt.Fprintf(out, "%d\t%s\t%d\t%d\t%d\t%d\n", m.ID, m.Name, m.X, m.Y, m.Width, m.Height)
	}
	return flush()
}

func tableWriter(w io.Writer, tty bool) (io.Writer, func() error) {
	if !tty {
		return w, func() error { return nil }
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	return tw, tw.Flush
}
