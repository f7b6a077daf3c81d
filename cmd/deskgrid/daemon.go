package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/daemon"
	"github.com/1broseidon/deskgrid/internal/desk"
	"github.com/1broseidon/deskgrid/internal/hotkeys"
	"github.com/1broseidon/deskgrid/internal/ipc"
	"github.com/1broseidon/deskgrid/internal/metrics"
	"github.com/1broseidon/deskgrid/internal/platform"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

// applyDisplayEnv exports the configured X11 session when the daemon was
// started without one, e.g. from a systemd user unit.
func applyDisplayEnv(cfg *config.Config) {
	if os.Getenv("DISPLAY") == "" && cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	if os.Getenv("XAUTHORITY") == "" && cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
}

// windowLister adapts the backend for the watcher.
func windowLister(backend platform.Backend) daemon.WindowLister {
	return func(displayID int) ([]platform.WindowID, error) {
		windows, err := backend.ListWindowsOnDisplay(displayID)
		if err != nil {
			return nil, err
		}
		ids := make([]platform.WindowID, 0, len(windows))
		for _, w := range windows {
			ids = append(ids, w.ID)
		}
		return ids, nil
	}
}

func hotkeyBindings(cfg *config.Config) hotkeys.Bindings {
	return hotkeys.Bindings{Toggle: cfg.Hotkey, Restore: cfg.RestoreHotkey}
}

// rebindHotkeys regrabs keys only when the reloaded config changed them.
func rebindHotkeys(h *hotkeys.Handler, cfg *config.Config) {
	want := hotkeyBindings(cfg)
	if h.Active() == want {
		return
	}
	if err := h.Bind(want); err != nil {
		log.Printf("Warning: %v", err)
		return
	}
	log.Printf("Hotkeys rebound (toggle: %s, restore: %s)", want.Toggle, want.Restore)
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)
	tiling.SetLogger(logger)
	log.Printf("Configuration loaded (hotkey: %s, profile: %s)", cfg.Hotkey, cfg.DefaultProfile)

	// Connect to display server
	applyDisplayEnv(cfg)
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	log.Println("deskgrid daemon started successfully")

	ctrl := desk.NewController(backend, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	ctrl.SetRecorder(m)
	if cfg.MetricsAddr != "" {
		go func() {
			log.Printf("Serving metrics on %s", cfg.MetricsAddr)
			if err := metrics.Serve(ctx, cfg.MetricsAddr, m); err != nil {
				log.Printf("Warning: metrics server stopped: %v", err)
			}
		}()
	}

	// Setup hotkey handler
	hotkeyHandler := hotkeys.NewHandler(backend, ctrl)
	if err := hotkeyHandler.Bind(hotkeyBindings(cfg)); err != nil {
		log.Fatalf("Failed to register hotkeys: %v", err)
	}

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(cfg, ctrl, nil, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Watch for windows closing under an overview
	watcher := daemon.NewWatcher(daemon.WatcherConfig{
		Interval: time.Duration(cfg.WatchIntervalMS) * time.Millisecond,
		Logger:   logger,
	}, ctrl, daemon.NewSynchronizer(ctrl, logger), windowLister(backend))
	go watcher.Run(ctx)

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	// Handle signals and config reloads
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					newCfg, err := config.Load()
					if err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					if err := ctrl.Reload(newCfg); err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					ipcServer.UpdateConfig(newCfg)
					rebindHotkeys(hotkeyHandler, newCfg)
					logger = newLogger(os.Stderr, newCfg.LogLevel)
					slog.SetDefault(logger)
					tiling.SetLogger(logger)
					log.Println("Config reloaded successfully")

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down deskgrid daemon...")
					if err := ctrl.Restore(); err != nil {
						log.Printf("Warning: restore on shutdown failed: %v", err)
					}
					cancel()
					ipcServer.Stop()
					os.Exit(0)
				}

			case <-reloadChan:
				// The IPC server already swapped the controller's config.
				newCfg := ipcServer.GetConfig()
				rebindHotkeys(hotkeyHandler, newCfg)
				logger = newLogger(os.Stderr, newCfg.LogLevel)
				slog.SetDefault(logger)
				tiling.SetLogger(logger)
				log.Printf("Config reloaded via IPC (profile: %s)", ctrl.ActiveProfile())
			}
		}
	}()

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	backend.EventLoop()
}
