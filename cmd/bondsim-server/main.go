package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/logging"
)

func main() {
	cfg, err := loadServerConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	logger.Infof("Starting bondsim-server: addr=%s log_level=%s", cfg.Addr, logger.Level())

	srv := NewServer(logger)

	if cfg.JournalDB != "" {
		if err := srv.OpenJournal(cfg.JournalDB); err != nil {
			logger.Fatalf("Failed to open journal: path=%s error=%v", cfg.JournalDB, err)
		}
		logger.Infof("Journal opened: path=%s", cfg.JournalDB)
	}

	if cfg.SceneFile != "" {
		scene, err := loadSceneFromFile(cfg.SceneFile)
		if err != nil {
			logger.Fatalf("Failed to load scene file: path=%s error=%v", cfg.SceneFile, err)
		}
		simID := bonding.SimulationID(cfg.DefaultSimID)
		if _, err := srv.LoadScene(simID, scene); err != nil {
			logger.Fatalf("Failed to build scene: sim_id=%s error=%v", simID, err)
		}
		logger.Infof("Startup scene loaded: sim_id=%s scene=%s", simID, scene.Name)

		if cfg.TickIntervalMs > 0 {
			interval := time.Duration(cfg.TickIntervalMs) * time.Millisecond
			if err := srv.Start(simID, interval); err != nil {
				logger.Fatalf("Failed to start simulation: %v", err)
			}
			logger.Infof("Simulation started: sim_id=%s interval=%v", simID, interval)
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("bondsim-server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Infof("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warnf("HTTP shutdown: %v", err)
	}
	if err := srv.Close(); err != nil {
		logger.Warnf("Closing notifiers: %v", err)
	}
}
