package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sri-shubham/Everclimb/internal/config"
	"github.com/sri-shubham/Everclimb/internal/server"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}
	flag.StringVar(&configPath, "config", configPath, "config file (CONFIG_PATH)")
	port := flag.Int("port", 0, "override server.port")
	redisOn := flag.Bool("redis", false, "enable the redis chunk cache")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		slog.Error("failed to load configuration", "path", configPath, "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *redisOn {
		cfg.Redis.Enabled = true
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(log)
	log.Info("starting everclimb chunk feed", "config", configPath, "addr", cfg.Server.Addr())

	srv, err := server.New(cfg, server.WithLogger(log))
	if err != nil {
		log.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Server.Addr()); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
	}

	if err := srv.Shutdown(); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server stopped")
}
