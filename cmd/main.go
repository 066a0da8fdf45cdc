package main

import (
	"chatbot/commands"
	"chatbot/commands/catalog"
	"chatbot/contract"
	"chatbot/domain"
	"chatbot/errors"
	"chatbot/observability"
	"chatbot/repositories"
	"chatbot/runtime"
	"chatbot/runtime/workers"
	"chatbot/session"
	"chatbot/transport"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until a termination signal.
// Configuration errors surface before anything connects.
func run() error {
	// 1. Configuration & Logger
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	owner, err := OwnerAddress(config.PhoneNumber, config.CountryCode)
	if err != nil {
		return err
	}

	// 2. Command registry
	env := commands.NewEnv(config.Prefix, config.SourceURL, time.Now())
	registry, err := runtime.LoadRegistry(catalog.Entries(env), catalog.Categories, log)
	if err != nil {
		return fmt.Errorf("command registry: %w", err)
	}
	env.Bind(registry)

	// 3. Metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(promRegistry)

	// 4. Session store
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	store, err := openSessionStore(ctx, config, log)
	if err != nil {
		return err
	}
	gateway := session.NewGateway(log, store, metrics)

	// 5. Transport & pipeline
	client := transport.NewGatewayClient(log, config.GatewayURL, config.GatewayToken, config.AuthDir, config.EventBufferSize)
	app := runtime.NewAppContext(metrics)
	dispatcher := runtime.NewDispatcher(log, app, registry, client, client, owner, config.Prefix, metrics)

	pump := workers.NewMessagePump(log, client.Events(), app, func(ctx context.Context, message domain.Message) error {
		_, err := dispatcher.Dispatch(ctx, message)
		return err
	})
	router := observability.NewRouter(log, promRegistry, observability.Probe{
		Connected: client.IsConnected,
		Accepting: app.Accepting,
	})
	sup := workers.NewSupervisor(log, config.RestartInterval).
		Add(pump, workers.NewHTTPListener(log, config.Port, router))

	bot := runtime.NewBot(log, app, client, gateway, store, sup, config.AuthDir, config.SkipSessionDownload)

	// 6. Start
	log.Info("Starting bot", "commands", registry.Len(), "prefix", config.Prefix, "store", config.StoreBackend)
	if err = bot.Start(ctx); err != nil {
		_ = store.Close(context.Background())
		return err
	}

	// 7. Wait for a signal, then tear down in order
	<-ctx.Done()
	log.Info("Termination signal received")
	bot.Shutdown(config.ShutdownGrace)
	log.Info("Program stopped cleanly")
	return nil
}

func openSessionStore(ctx context.Context, config Config, log *slog.Logger) (contract.SessionStore, error) {
	switch config.StoreBackend {
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, fmt.Errorf("database opening failed: %w", err)
		}
		return repositories.NewBadgerSessionStore(db, log), nil
	case "redis":
		client, err := repositories.NewRedisClient(ctx, config.RedisURL)
		if err != nil {
			return nil, err
		}
		return repositories.NewRedisSessionStore(client), nil
	case "mongo":
		uri := repositories.MongoURI(config.MongoUsername, config.MongoPassword, config.MongoEndpoint)
		store, err := repositories.NewMongoSessionStore(ctx, uri, config.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownStoreBackend, config.StoreBackend)
	}
}
