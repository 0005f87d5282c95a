package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/disintegration/imaging"

	"github.com/b0bbywan/go-screengrab/backend/screenshot"
	"github.com/b0bbywan/go-screengrab/capture"
	"github.com/b0bbywan/go-screengrab/config"
	"github.com/b0bbywan/go-screengrab/events"
	"github.com/b0bbywan/go-screengrab/logger"
	"github.com/b0bbywan/go-screengrab/update"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Fatal("[%s] Failed to load config: %v", config.AppName, err)
	}

	// Set log level from config
	logger.SetLevel(cfg.LogLevel)

	// Global context for the entire run
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Goroutine for signal handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		logger.Info("[%s] interrupt received, aborting", config.AppName)
		cancel()
	}()

	screens, err := capture.ParseScreens(cfg.Capture.Screens)
	if err != nil {
		logger.Fatal("[%s] invalid screen layout: %v", config.AppName, err)
	}

	client, err := screenshot.Connect(cfg.Capture.Timeout)
	if err != nil {
		logger.Fatal("[%s] failed to connect to session bus: %v", config.AppName, err)
	}
	defer client.Close()

	orchestrator := capture.New(cfg.Capture, client, capture.StaticScreens(screens), capture.NopNotice{})
	go logEvents(orchestrator.Events())
	defer orchestrator.Close()

	images := orchestrator.Capture(ctx)
	if len(images) == 0 {
		logger.Fatal("[%s] no screenshot captured", config.AppName)
	}

	for _, img := range images {
		name := filepath.Join(cfg.Capture.OutputDir, fmt.Sprintf("screen-%d.png", img.Screen.Index))
		if err := imaging.Save(img.Raster, name); err != nil {
			logger.Error("[%s] failed to save %s: %v", config.AppName, name, err)
			continue
		}
		bounds := img.Raster.Bounds()
		logger.Info("[%s] saved %s (%dx%d)", config.AppName, name, bounds.Dx(), bounds.Dy())
	}

	if cfg.Update.Enabled {
		checkUpdate(ctx, cfg)
	}
}

func checkUpdate(ctx context.Context, cfg *config.Config) {
	release, err := update.New(cfg.Update).Check(ctx)
	if err != nil {
		logger.Warn("[%s] update check failed: %v", config.AppName, err)
		return
	}
	if release == nil {
		return
	}
	logger.Info("[%s] v%s is available (installed: v%s), see %s",
		config.AppName, release.Version, config.AppVersion, release.URL)
}

func logEvents(ch <-chan events.Event) {
	for e := range ch {
		logger.Debug("[%s] event %s (%v)", config.AppName, e.Type, e.Data)
	}
}
