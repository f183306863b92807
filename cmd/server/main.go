package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/auth"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/fixtures"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/index"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/infrastructure/http/server"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/internal"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/moderation"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/observability"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/repositories"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/runtime"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/runtime/workers"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a fatal error.
// Returning instead of exiting lets the deferred closes of Badger and Bluge run.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, StoreMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	userRepository := repositories.NewUserRepository(db)
	orderRepository := repositories.NewOrderRepository(db, logger)
	// LIMIT_MESSAGES=0 lifts the page cap.
	var limitMessages *int
	if config.LimitMessages > 0 {
		limitMessages = &config.LimitMessages
	}
	messageRepository := repositories.NewMessageRepository(db, logger, limitMessages)
	blacklistRepository := repositories.NewBlacklistRepository(db)

	if config.SeedFixtures {
		seeded, err := fixtures.Seed(logger, orderRepository, time.Now())
		if err != nil {
			return exitRuntime, fmt.Errorf("fixture seeding failed: %w", err)
		}
		logger.Info("Demo orders ready", "seeded", seeded)
	}

	// 3. Moderation
	dictionaries, err := moderation.DefaultDictionaries()
	if err != nil {
		return exitRuntime, fmt.Errorf("censored dictionaries loading failed: %w", err)
	}
	logger.Debug("Censored dictionaries loaded", "languages", dictionaries.Languages, "words", len(dictionaries.Words))
	if err := blacklistRepository.Add(append(dictionaries.Words, internal.Words(config.CensoredWords)...)...); err != nil {
		return exitRuntime, fmt.Errorf("blacklist update failed: %w", err)
	}
	words, err := blacklistRepository.Words()
	if err != nil {
		return exitRuntime, fmt.Errorf("blacklist loading failed: %w", err)
	}
	moderator, err := moderation.NewModerator(words, charReplacement, logger)
	if err != nil {
		return exitConfig, fmt.Errorf("moderator init failed: %w", err)
	}

	// 4. Observability
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(promRegistry)
	monitoring := observability.NewMonitoringManager(logger)

	// 5. Realtime plumbing
	registry := runtime.NewRegistry(logger, metrics)
	broadcaster := workers.NewBroadcaster(logger, registry, config.BroadcastBufferSize)

	tokens := auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, tokens)
	orderService := services.NewOrderService(logger, orderRepository, broadcaster)
	chatService := services.NewChatService(logger, messageRepository, index.NewChatIndex(blugeWriter, logger),
		moderator, broadcaster, config.MaxContentLength)
	telemetryService := services.NewTelemetryService(logger, broadcaster)
	dispatcher := services.NewDispatcher(logger, chatService, telemetryService)

	g, gctx := errgroup.WithContext(ctx)

	session := runtime.NewSession(logger, registry, dispatcher, metrics, config.ReadBufferSize, config.MaxFramePayload)
	gateway := runtime.NewGateway(gctx, logger, registry, session, metrics, config.WriteTimeout)

	// 6. Supervision
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(
		broadcaster,
		workers.NewMonitoringWorker(logger, registry, monitoring, metrics, config.MonitoringInterval),
	)
	g.Go(func() error {
		sup.Run(gctx)
		return nil
	})

	// 7. HTTP server
	address := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	srv := server.NewServer(logger, authService, orderService, chatService, telemetryService,
		registry, monitoring, tokens, gateway, promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	httpServer := &http.Server{
		Addr:              address,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	// 8. Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	gateway.Wait()
	if err != nil {
		return exitRuntime, err
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}

	return options
}

// StoreMapper labels every raw Badger entry for the debug inspector.
func StoreMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	entry := repositories.Inspect(key, val)
	row.Type = entry.Kind
	if entry.Detail != "" {
		row.Detail = entry.Detail
	}
	return row
}
