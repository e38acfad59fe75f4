package app

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/todoflow-labs/todo-service/internal/config"
	"github.com/todoflow-labs/todo-service/internal/events"
	"github.com/todoflow-labs/todo-service/internal/handler"
	"github.com/todoflow-labs/todo-service/internal/logging"
	"github.com/todoflow-labs/todo-service/internal/metrics"
	"github.com/todoflow-labs/todo-service/internal/todo"
)

func Run() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize logger and metrics
	logger := logging.New(cfg.LogLevel).With().Str("service", "todo-service").Logger()
	metrics.Init(cfg.MetricsAddr)
	logger.Info().Msgf("metrics server listening on %s", cfg.MetricsAddr)

	// Event publishing is optional; without NATS mutations are simply not
	// announced.
	var pub events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to NATS")
		}
		js, err := nc.JetStream()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init JetStream")
		}
		if err := events.EnsureStream(js); err != nil {
			logger.Fatal().Err(err).Msg("failed to create JetStream stream")
		}
		pub = events.NewJetStream(js)
		logger.Info().Msgf("publishing events to %s", events.Subject)
	}

	// Select the store: Postgres when configured, in-memory otherwise.
	var repo todo.Repository = todo.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Postgres")
		}
		pg := todo.NewPostgresRepository(pool)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
		repo = pg
		logger.Info().Msg("using Postgres store")
	}

	r := NewRouter(repo, pub, &logger)

	logger.Info().Msgf("todo-service listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server failed")
	}
}

// NewRouter wires the HTTP surface onto the given store and publisher.
func NewRouter(repo todo.Repository, pub events.Publisher, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(jsonContentType)

	// Routes
	r.Get("/todos", handler.List(repo, logger))
	r.Post("/todos", handler.Create(repo, pub, logger))
	r.Patch("/todos/{id}", handler.Update(repo, pub, logger))
	r.Delete("/todos/{id}", handler.Delete(repo, pub, logger))

	// Error handlers
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, todo.CodeNotFound, "route not found")
		logger.Warn().Str("path", r.URL.Path).Msg("404 not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, todo.CodeValidation, "method not allowed")
		logger.Warn().Str("path", r.URL.Path).Msg("405 method not allowed")
	})

	return r
}

// Forces JSON Content-Type for all responses
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Writes a structured JSON error
func writeError(w http.ResponseWriter, status int, code todo.Code, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"code":  string(code),
	})
}
