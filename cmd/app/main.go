package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"turnate/internal/backend"
	"turnate/internal/cache"
	"turnate/internal/config"
	"turnate/internal/horarios"
	eventsGet "turnate/internal/http-server/handlers/calendar/events/get"
	slotCreate "turnate/internal/http-server/handlers/calendar/slots/create"
	horariosGet "turnate/internal/http-server/handlers/horarios/get"
	horariosReplace "turnate/internal/http-server/handlers/horarios/replace"
	linkCreate "turnate/internal/http-server/handlers/links/create"
	servicioCreate "turnate/internal/http-server/handlers/servicios/create"
	servicioDelete "turnate/internal/http-server/handlers/servicios/delete"
	servicioGet "turnate/internal/http-server/handlers/servicios/get"
	servicioUpdate "turnate/internal/http-server/handlers/servicios/update"
	turnoDelete "turnate/internal/http-server/handlers/turnos/delete"
	turnoHoy "turnate/internal/http-server/handlers/turnos/hoy"
	turnoRefresh "turnate/internal/http-server/handlers/turnos/refresh"
	turnoUpdate "turnate/internal/http-server/handlers/turnos/update"
	"turnate/internal/models"
	"turnate/internal/turnos"
	slogpretty "turnate/pkg/handlers/slogPretty"
	"turnate/pkg/middleware/mwLogger"
	"turnate/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	session := models.Session{
		UserID:           cfg.Session.UserID,
		EmprendimientoID: cfg.Session.EmprendimientoID,
		Token:            cfg.Session.Token,
	}

	var horariosCache cache.Cache
	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		var err error
		redisCache, err = cache.NewRedis(cfg.RedisAddr)
		if err != nil {
			log.Error("Failed to init redis cache", sl.Err(err))
			os.Exit(1)
		}
		horariosCache = redisCache
	} else {
		log.Info("No redis address configured, horarios cache disabled")
		horariosCache = cache.NewNoop()
	}

	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, session)
	schedule := horarios.NewStore(client, horariosCache, session, cfg.HorariosTTL)
	repo := turnos.NewRepository(client, session, log)

	// warm up from the backend; failures are not fatal, the UI retries via
	// the refresh endpoint
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	if err := schedule.Load(warmCtx); err != nil {
		log.Warn("Failed to load horarios", sl.Err(err))
	}
	if outcome, err := repo.Refresh(warmCtx); err != nil {
		log.Warn("Failed to refresh turnos", sl.Err(err))
	} else {
		log.Info("Initial refresh done",
			slog.Int("matched", outcome.Matched),
			slog.Int("unmatched", len(outcome.Unmatched)),
		)
	}
	warmCancel()

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Calendar
	router.Get("/calendar/events", eventsGet.New(log, repo))
	router.Post("/calendar/slots", slotCreate.New(log, schedule, repo))

	// Turnos
	router.Get("/turnos/hoy", turnoHoy.New(log, repo))
	router.Post("/turnos/refresh", turnoRefresh.New(log, repo))
	router.Put("/turnos/{id}", turnoUpdate.New(log, repo))
	router.Delete("/turnos/{id}", turnoDelete.New(log, repo))

	// Horarios
	router.Get("/horarios", horariosGet.New(log, schedule))
	router.Put("/horarios", horariosReplace.New(log, schedule))

	// Servicios
	router.Get("/servicios", servicioGet.New(log, repo))
	router.Post("/servicios", servicioCreate.New(log, client, repo))
	router.Put("/servicios/{id}", servicioUpdate.New(log, client, repo))
	router.Delete("/servicios/{id}", servicioDelete.New(log, client, repo))

	// Reservation links
	router.Post("/reservas/links", linkCreate.New(log, cfg.PublicURL))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Error("Failed to close redis cache", sl.Err(err))
		} else {
			log.Info("Redis cache closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
