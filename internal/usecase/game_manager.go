package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rocketscienceinc/jeopardy-backend/internal/apperror"
	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
	"github.com/rocketscienceinc/jeopardy-backend/internal/jeopardy"
)

var ErrEmptySessionID = errors.New("session id is empty")

type session struct {
	model    *BoardModel
	lastSeen time.Time
}

// GameManager - one BoardModel per browser session. Sessions never share a board
// and are only created by StartGame.
type GameManager struct {
	logger  *slog.Logger
	fetcher categoryFetcher
	opts    BoardOptions
	ttl     time.Duration

	newRand func() jeopardy.Rand
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewGameManager(logger *slog.Logger, fetcher categoryFetcher, opts BoardOptions, ttl time.Duration) *GameManager {
	return &GameManager{
		logger:  logger.With("component", "game_manager"),
		fetcher: fetcher,
		opts:    opts,
		ttl:     ttl,

		newRand: func() jeopardy.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint: gosec // trivia, not crypto
		},
		now: time.Now,

		sessions: make(map[string]*session),
	}
}

// WithRand - overrides the randomness source handed to new boards.
func (that *GameManager) WithRand(newRand func() jeopardy.Rand) *GameManager {
	that.newRand = newRand
	return that
}

func (that *GameManager) StartGame(ctx context.Context, sessionID string) (*entity.Board, error) {
	model, err := that.getOrCreate(sessionID)
	if err != nil {
		return nil, err
	}

	board, err := model.StartGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start game for session: %w", err)
	}

	return board, nil
}

// Reveal - unknown sessions are not created here, they have no board to reveal on.
func (that *GameManager) Reveal(sessionID string, categoryIndex, clueIndex int) (RevealResult, error) {
	model, err := that.lookup(sessionID)
	if err != nil {
		return RevealResult{}, err
	}

	if model == nil {
		if err = checkBounds(that.opts, categoryIndex, clueIndex); err != nil {
			return RevealResult{}, err
		}

		return RevealResult{}, apperror.ErrBoardNotLoaded
	}

	return model.Reveal(categoryIndex, clueIndex)
}

// Snapshot - an unknown session reads as an empty board and is not created.
func (that *GameManager) Snapshot(sessionID string) (Snapshot, error) {
	model, err := that.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	if model == nil {
		return Snapshot{Status: StatusEmpty}, nil
	}

	return model.Snapshot(), nil
}

func (that *GameManager) Options() BoardOptions {
	return that.opts
}

// EvictIdle - drops sessions not touched within the ttl and returns how many were dropped.
func (that *GameManager) EvictIdle() int {
	if that.ttl <= 0 {
		return 0
	}

	cutoff := that.now().Add(-that.ttl)

	that.mu.Lock()
	defer that.mu.Unlock()

	evicted := 0
	for id, s := range that.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(that.sessions, id)
			evicted++
		}
	}

	return evicted
}

// RunEviction - calls EvictIdle every interval until ctx is done.
func (that *GameManager) RunEviction(ctx context.Context, interval time.Duration) {
	log := that.logger.With("method", "RunEviction")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := that.EvictIdle(); evicted > 0 {
				log.Info("evicted idle sessions", "count", evicted)
			}
		}
	}
}

func (that *GameManager) Sessions() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}

func (that *GameManager) getOrCreate(sessionID string) (*BoardModel, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	s, ok := that.sessions[sessionID]
	if !ok {
		s = &session{
			model: NewBoardModel(that.logger.With("session_id", sessionID), that.fetcher, that.opts, that.newRand()),
		}
		that.sessions[sessionID] = s
	}

	s.lastSeen = that.now()

	return s.model, nil
}

// lookup - returns nil without an error when the session has never started a game.
func (that *GameManager) lookup(sessionID string) (*BoardModel, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	s, ok := that.sessions[sessionID]
	if !ok {
		return nil, nil //nolint: nilnil // unknown session is not an error
	}

	s.lastSeen = that.now()

	return s.model, nil
}
