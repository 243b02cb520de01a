package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/taskhive/taskhive/internal/api"
	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/service"
	"github.com/taskhive/taskhive/internal/storage/sqlite"
	"github.com/taskhive/taskhive/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage; a store that cannot open aborts startup
	// rather than serving degraded requests.
	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	tokens := auth.NewJWTManager(cfg.Auth.Secret, auth.TokenValidity)
	authenticator := auth.NewPasswordAuthenticator(store)
	resolver := auth.NewResolver(tokens, store)
	tasks := service.NewTaskListService(store, slog.Default())

	server := api.New(authenticator, tokens, tasks, slog.Default())

	// Wrap with h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(server.Handler(resolver), &http2.Server{})

	slog.Info("Server starting", "address", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
