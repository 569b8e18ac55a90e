package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MuhamedUsman/rmshelf/internal/client"
	"github.com/MuhamedUsman/rmshelf/internal/config"
	"github.com/MuhamedUsman/rmshelf/internal/tui"
	"github.com/MuhamedUsman/rmshelf/internal/util"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		os.Exit(1)
	}

	logPath := cfg.Log.File
	if !filepath.IsAbs(logPath) {
		if dir, err := config.GetDir(); err == nil {
			logPath = filepath.Join(dir, logPath)
		}
	}
	f, err := tea.LogToFile(logPath, "rmshelf")
	if err != nil {
		fmt.Fprintln(os.Stderr, "opening log file:", err)
		os.Exit(1)
	}
	defer f.Close()

	level := slog.LevelInfo
	if cfg.Log.Debug {
		level = slog.LevelDebug
	}
	util.ConfigureSlog(f, level, true)

	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("home directory unknown, \"~\" will not be expanded", "err", err)
	}

	m := tui.InitialMainModel(tui.Options{
		Transport: client.New(cfg.API.BaseURL, cfg.API.RequestTimeout.Std()),
		UI:        cfg.UI,
		Preflight: cfg.Upload.Preflight,
		Home:      home,
	})
	slog.Info("starting", "base_url", cfg.API.BaseURL)
	if _, err = tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		slog.Error("running program", "err", err)
		f.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
