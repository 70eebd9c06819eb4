package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// NewRouter - session service routes under /api.
func NewRouter(logger *slog.Logger, games gameUseCase) http.Handler {
	h := &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/game/new", h.NewGame)
	mux.HandleFunc("GET /api/game/{id}/status", h.Status)
	mux.HandleFunc("POST /api/game/{id}/move", h.MakeMove)
	mux.HandleFunc("POST /api/game/{id}/validate", h.Validate)
	mux.HandleFunc("POST /api/game/{id}/classify", h.Classify)
	mux.HandleFunc("POST /api/game/{id}/reset", h.Reset)
	mux.HandleFunc("DELETE /api/game/{id}", h.Delete)
	mux.HandleFunc("GET /api/health", h.Health)

	return withCORS(mux)
}

// Start - serves handler until ctx is cancelled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// withCORS lets the browser front end on another origin call the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
