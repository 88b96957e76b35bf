package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/gridsnap/internal/config"
	"github.com/1broseidon/gridsnap/internal/daemon"
	"github.com/1broseidon/gridsnap/internal/hotkeys"
	"github.com/1broseidon/gridsnap/internal/ipc"
	"github.com/1broseidon/gridsnap/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "clip":
		os.Exit(runClip(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "topmost":
		os.Exit(runTopMost(os.Args[2:]))
	case "decorations":
		os.Exit(runDecorations(os.Args[2:]))
	case "active":
		os.Exit(runActive(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gridsnap <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the gridsnap daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  clip <cell>         Move the focused window into a grid cell")
	fmt.Fprintln(w, "  state <state>       show, hide, minimize, restore or maximize")
	fmt.Fprintln(w, "  topmost on|off      Keep the focused window above others")
	fmt.Fprintln(w, "  decorations on|off  Show or hide window decorations")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  active              Show the focused window")
	fmt.Fprintln(w, "  list                List windows")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Cells: top-left, mid-top, top-right, mid-left, mid, mid-right,")
	fmt.Fprintln(w, "       bottom-left, mid-bottom, bottom-right")
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/gridsnap/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridsnap daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Track the focused window and serve grid hotkeys and IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if res.File != "" {
		log.Printf("Configuration loaded from %s", res.File)
	} else {
		log.Println("No config file found, using defaults")
	}

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	ctrl := daemon.NewController(cfg, backend, logger)
	if err := ctrl.Start(); err != nil {
		log.Fatalf("Failed to start window tracking: %v", err)
	}
	defer ctrl.Close()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: 10 * time.Second,
		Logger:   logger,
	}, ctrl, daemon.ProbeFromBackend(backend))
	reconcilerCtx, reconcilerCancel := context.WithCancel(context.Background())
	defer reconcilerCancel()
	go reconciler.Run(reconcilerCtx)

	hotkeyHandler, err := hotkeys.NewHandler(backend, ctrl)
	if err != nil {
		log.Fatalf("Failed to set up hotkeys: %v", err)
	}
	bindings := cfg.CellBindings()
	n := hotkeyHandler.RegisterBindings(bindings)
	log.Printf("Registered %d of %d grid hotkeys", n, len(bindings))

	if cfg.TopMostHotkey != "" {
		if err := hotkeyHandler.RegisterTopMost(cfg.TopMostHotkey); err != nil {
			log.Printf("Warning: %v", err)
		} else {
			log.Printf("Topmost hotkey registered: %s", cfg.TopMostHotkey)
		}
	}

	reloadChan := make(chan struct{}, 1)

	ipcServer, err := ipc.NewServer(cfg, ctrl, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	ipcServer.SetConfigPath(*path)
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Grabs are made once at startup; a changed binding needs a restart.
	applied := func(newCfg *config.Config) {
		level.Set(newCfg.SlogLevel())
		if !maps.Equal(bindings, newCfg.CellBindings()) || newCfg.TopMostHotkey != cfg.TopMostHotkey {
			log.Println("Hotkey changes take effect after restarting the daemon")
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					newRes, err := loadConfig(*path)
					if err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					if err := ctrl.UpdateConfig(newRes.Config); err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					ipcServer.UpdateConfig(newRes.Config)
					applied(newRes.Config)
					log.Println("Config reloaded successfully")

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down gridsnap daemon...")
					reconcilerCancel()
					backend.Quit()
					return
				}

			case <-reloadChan:
				applied(ipcServer.GetConfig())
			}
		}
	}()

	log.Println("gridsnap daemon started, entering event loop...")
	backend.EventLoop()
	return 0
}
