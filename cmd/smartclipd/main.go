package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartclipper/smartclip/internal/api"
	"github.com/smartclipper/smartclip/internal/config"
	"github.com/smartclipper/smartclip/internal/engine"
	"github.com/smartclipper/smartclip/internal/logging"
	"github.com/smartclipper/smartclip/internal/playback"
	"github.com/smartclipper/smartclip/internal/store"
	"github.com/smartclipper/smartclip/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	_ = godotenv.Load() // best-effort: load .env if present

	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create uploads dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting smartclip server", "version", config.Version, "data_dir", cfg.DataDir())

	jobStore := store.New()

	engineCfg := engine.DefaultConfig(jobStore, cfg.OutputDir(), logger)
	engineCfg.StepDelay = cfg.SimStepDelay()
	engineCfg.MaxActive = cfg.MaxActive()

	sim, err := engine.NewSim(engineCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                 SMARTCLIP STUDIO v%-24s ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Data dir:   %-45s ║\n", bannerPath(cfg.DataDir()))
	fmt.Printf("║  Engine:     %-45s ║\n", "simulated pipeline")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	playbackSvc := playback.NewServer(logger)

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Version:    config.Version,
		OutputDir:  cfg.OutputDir(),
		UploadsDir: cfg.UploadsDir(),
		Origins:    cfg.CORSOrigins(),
		Store:      jobStore,
		Engine:     sim,
		Playback:   playbackSvc,
		Logger:     logger,
		StartTime:  startTime,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Addr:   apiServer.Addr(),
			Logger: logger,
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()

		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					tray.UpdateJobCount(jobStore.Len())
				}
			}
		}()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()
	sim.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// bannerPath keeps long paths from breaking the box alignment.
func bannerPath(p string) string {
	if len(p) > 45 {
		return "..." + p[len(p)-42:]
	}
	return p
}
