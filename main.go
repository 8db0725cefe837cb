package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"newsverifier/internal/app"
	"newsverifier/internal/config"
	"newsverifier/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	opts := logging.FromConfig(cfg.Logging, false)
	if opts.File, err = cfg.LogPath(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logger, err := logging.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	svc, err := app.NewService(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize service", zap.Error(err))
		os.Exit(1)
	}
	a := NewApp(svc)

	err = wails.Run(&options.App{
		Title:     "News Verifier",
		Width:     1100,
		Height:    820,
		MinWidth:  720,
		MinHeight: 560,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: a.startup,
		Bind: []interface{}{
			a,
		},
	})
	if err != nil {
		logger.Error("wails exited", zap.Error(err))
		os.Exit(1)
	}
}
