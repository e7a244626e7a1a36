package main

import (
	"avatar-server/internal/config"
	"avatar-server/internal/console"
	"avatar-server/internal/engine"
	"avatar-server/internal/engine/handlers/actions"
	"avatar-server/internal/infrastructure/storage"
	"avatar-server/internal/metrics"
	"avatar-server/internal/network"
	"avatar-server/internal/server"
	"avatar-server/internal/version"
	"avatar-server/pkg/logger"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Конфигурация
	var configPath string
	flag.StringVar(&configPath, "config", "configs/server.yaml", "Path to YAML config (missing file = defaults)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	logger.Log.Info("Starting avatar server...")
	logger.Log.Info(version.String())

	if err := run(cfg); err != nil {
		logger.Log.WithError(err).Fatal("Server stopped with error")
	}
	logger.Log.Info("Done.")
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Реестр действий: один на все фронтенды
	m := metrics.New()
	registry := actions.NewRegistry()
	registry.SetObserver(m)

	// 3. Мир и поток симуляции
	world, err := engine.BuildWorld(cfg.World, cfg.Agent)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}

	engineCfg := engine.NewConfig()
	engineCfg.TickRateHz = cfg.World.TickRateHz
	engineCfg.ChatHistory = cfg.World.ChatHistory

	roster, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open roster storage: %w", err)
	}
	defer func() {
		if err := roster.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close roster storage")
		}
	}()

	gameService := engine.NewService(engineCfg, world, registry)
	gameService.SetObserver(m)
	gameService.SetRoster(roster)

	engineErr := make(chan error, 1)
	go func() { engineErr <- gameService.Run(context.Background()) }()
	defer gameService.Stop()

	if spec := cfg.Storage.Autosave; spec != "" && cfg.Storage.Driver != "none" && cfg.Storage.Driver != "" {
		autosave, err := engine.StartAutosave(gameService, spec)
		if err != nil {
			return err
		}
		defer autosave.Stop()
	}

	// 4. Сетевые фронтенды
	hub := network.NewHub()

	var tcp *network.Server
	if cfg.Network.Enabled {
		tcp = network.NewServer(network.Options{
			Addr:           cfg.Network.Address(),
			Token:          cfg.Network.Token,
			MaxConnections: cfg.Network.MaxConnections,
			MaxFrameBytes:  cfg.Network.MaxFrameBytes,
			OutboundQueue:  cfg.Network.OutboundQueue,
			KeepAlive:      cfg.Network.KeepAlive,
		}, gameService, hub, m)
		if err := tcp.Start(ctx); err != nil {
			return fmt.Errorf("start tcp server: %w", err)
		}
	} else {
		logger.Log.Info("TCP server disabled")
	}

	var ops *server.Server
	if cfg.HTTP.Enabled {
		ops = server.New(server.Options{
			Addr:          cfg.HTTP.Addr,
			Token:         cfg.Network.Token,
			WebSocket:     cfg.WebSocket.Enabled,
			WebSocketPath: cfg.WebSocket.Path,
			MaxFrameBytes: cfg.Network.MaxFrameBytes,
			OutboundQueue: cfg.Network.OutboundQueue,
			Pprof:         cfg.HTTP.Pprof,
		}, gameService, hub, m, m.Handler())
		if err := ops.Start(); err != nil {
			if tcp != nil {
				tcp.Stop()
			}
			return fmt.Errorf("start http server: %w", err)
		}
	}

	// 5. Консоль оператора
	if cfg.Console.Enabled {
		con := console.New(registry, gameService, os.Stdout)
		con.Prompt = term.IsTerminal(int(os.Stdin.Fd()))
		go func() {
			if err := con.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.WithError(err).Warn("Console stopped")
			}
		}()
	}

	// Graceful Shutdown
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-engineErr:
		// Цикл симуляции не должен завершаться сам
		if runErr == nil {
			runErr = errors.New("simulation loop exited")
		}
	}
	logger.Log.Info("Shutting down...")

	// Сначала перестаем принимать клиентов, потом останавливаем мир
	if tcp != nil {
		tcp.Stop()
	}
	if ops != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := ops.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("HTTP shutdown")
		}
		cancel()
	}
	return runErr
}
