package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/eventbot/internal/api"
	"github.com/mmynk/eventbot/internal/config"
	"github.com/mmynk/eventbot/internal/metrics"
	"github.com/mmynk/eventbot/internal/service"
	"github.com/mmynk/eventbot/internal/storage"
	"github.com/mmynk/eventbot/internal/storage/badgerstore"
	"github.com/mmynk/eventbot/internal/storage/sqlite"
	"github.com/mmynk/eventbot/pkg/logging"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.SetupWithName(cfg.LogLevel)

	store, err := newStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.StorageBackend)

	// Metrics are constructed once here and injected; no global client.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	bot := service.NewBot(store)
	server := api.New(bot, store, m, registry)

	// h2c for HTTP/2 without TLS.
	handler := h2c.NewHandler(server.Router(), &http2.Server{})

	addr := cfg.Addr()
	slog.Info("eventbot server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func newStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendBadger:
		return badgerstore.New(cfg.BadgerPath)
	default:
		return sqlite.New(sqlite.Config{
			Path:        cfg.DBPath,
			EventsTable: cfg.EventsTable,
			UsersTable:  cfg.UsersTable,
		})
	}
}
