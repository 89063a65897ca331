package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"geomap3d/internal/config"
	"geomap3d/internal/logger"
	"geomap3d/internal/tui"
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// the alt screen owns stdout, so the TUI only logs to a file
	logOpts := logger.Options{Level: cfg.Logging.Level, Console: cfg.Snapshot}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileOptions(cfg.Logging.LogFile)
	}
	logger.Init(logOpts)
	defer logger.Sync()

	if cfg.Snapshot {
		if err := tui.Snapshot(context.Background(), cfg, os.Stdout); err != nil {
			logger.Error("snapshot failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		return
	}

	logger.Info("starting", zap.String("data", cfg.Data), zap.Int("fps", cfg.Render.FPS))
	p := tea.NewProgram(tui.New(cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
