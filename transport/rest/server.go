package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
	"github.com/rocketscienceinc/jeopardy-backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type gameUseCase interface {
	StartGame(ctx context.Context, sessionID string) (*entity.Board, error)
	Reveal(sessionID string, categoryIndex, clueIndex int) (usecase.RevealResult, error)
	Snapshot(sessionID string) (usecase.Snapshot, error)
}

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	limiters *limiterStore
}

func New(logger *slog.Logger, game gameUseCase, rps float64, burst int) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		game:     game,
		limiters: newLimiterStore(rps, burst),
	}
}

// Handler - the routed handler with session and request id middleware applied.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /game", that.handleGetGame)
	mux.Handle("POST /game", that.rateLimit(http.HandlerFunc(that.handleStartGame)))
	mux.HandleFunc("POST /game/{category}/{clue}", that.handleReveal)

	return that.requestID(that.session(mux))
}

// Start - serves until ctx is cancelled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
