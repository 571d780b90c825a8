package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/omega-realm/mangos-admin/internal/catalog"
	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/env"
	"github.com/omega-realm/mangos-admin/internal/handlers"
	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/ratelimit"
	"github.com/omega-realm/mangos-admin/internal/redis"
	"github.com/omega-realm/mangos-admin/internal/server"
)

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file to load before reading configuration")
	logLevel := flag.String("log-level", "", "Log level (error, warn, info, debug, trace); defaults to LOG_LEVEL or info")
	bootstrap := flag.Bool("bootstrap", false, "create the SQLite bootstrap schema before serving")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Sprintf("Failed to load %s: %v", *envFile, err))
	}

	level := *logLevel
	if level == "" {
		level = env.String("LOG_LEVEL", "info")
	}
	parsedLogLevel, err := log.ParseLevel(level)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefault(log.New(os.Stdout, parsedLogLevel))
	log.Info("[API] Log level set to %s", parsedLogLevel)

	if err := run(*bootstrap); err != nil {
		log.Error("[API] %v", err)
		os.Exit(1)
	}
}

func run(bootstrap bool) error {
	ctx := context.Background()
	cfg := server.LoadConfigFromEnv()
	dbConfig := database.LoadConfigFromEnv()

	log.Info("[API] Initializing database connections...")
	pools, err := database.OpenPools(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to databases: %w", err)
	}
	defer func() {
		if err := pools.Close(); err != nil {
			log.Error("[API] Failed to close database pools: %v", err)
		}
	}()

	if bootstrap {
		if err := pools.InitSchema(ctx); err != nil {
			return err
		}
	}

	catalogs, err := catalog.Load(cfg.ReferenceSource, pools.World)
	if err != nil {
		return fmt.Errorf("failed to load reference catalogs: %w", err)
	}

	deps := server.Deps{
		Pools:      pools,
		Catalogs:   catalogs,
		Delivery:   handlers.LogDelivery{},
		Dispatcher: handlers.LogDispatcher{},
	}

	switch cfg.RateLimitBackend {
	case server.RateLimitRedis:
		client, err := redis.NewClient(ctx, redis.LoadConfigFromEnv())
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Limiter = ratelimit.New(client, cfg.RateLimitMax, cfg.RateLimitWindow)
		deps.StatsCache = client
	case server.RateLimitMemory:
		deps.Limiter = ratelimit.New(ratelimit.NewMemoryCounter(), cfg.RateLimitMax, cfg.RateLimitWindow)
	default:
		return fmt.Errorf("unknown rate limit backend %q", cfg.RateLimitBackend)
	}
	log.Info("[API] Rate limit: %d requests per %s (%s)", cfg.RateLimitMax, cfg.RateLimitWindow, cfg.RateLimitBackend)

	apiServer := server.NewAPIServer(cfg, server.NewRouter(cfg, deps))
	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()
	log.Info("[API] mangos-admin API running on %s (environment: %s)", apiServer.Addr(), cfg.Environment)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	select {
	case err := <-errCh:
		return err
	case sig := <-interrupt:
		log.Info("[API] Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return <-errCh
}
