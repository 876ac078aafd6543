package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/jeopardy-backend/internal/apperror"
	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
	"github.com/rocketscienceinc/jeopardy-backend/internal/jeopardy"
)

type Status string

const (
	StatusEmpty   Status = "empty"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type LoadingMode string

const (
	// LoadingKeep leaves the previous board visible while a new one loads.
	LoadingKeep LoadingMode = "keep"
	// LoadingClear drops the previous board as soon as loading starts.
	LoadingClear LoadingMode = "clear"
)

var errNilCategory = errors.New("fetcher returned no category")

type BoardOptions struct {
	CategoryCount      int
	CluesPerCategory   int
	CategoryIDSpace    int
	FetchConcurrency   int
	DistinctCategories bool
	LoadingMode        LoadingMode
}

func DefaultBoardOptions() BoardOptions {
	return BoardOptions{
		CategoryCount:    6,
		CluesPerCategory: 5,
		CategoryIDSpace:  1000,
		FetchConcurrency: 1,
		LoadingMode:      LoadingKeep,
	}
}

type categoryFetcher interface {
	FetchCategory(ctx context.Context, id int) (*entity.RawCategory, error)
}

// RevealResult - what the view should display after a cell was activated.
// Revealed is false when the clue was already showing its answer and nothing changed.
type RevealResult struct {
	Text     string             `json:"text"`
	Showing  entity.RevealState `json:"showing"`
	Revealed bool               `json:"revealed"`
}

// Snapshot - a copy of the model state, safe to render without holding the lock.
type Snapshot struct {
	Status     Status        `json:"status"`
	Generation uint64        `json:"generation"`
	Board      *entity.Board `json:"board,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// BoardModel - owns one board and is the only place it is mutated.
// A single mutex covers both the wholesale replacement done by StartGame and
// the per-clue updates done by Reveal.
type BoardModel struct {
	logger  *slog.Logger
	fetcher categoryFetcher
	opts    BoardOptions

	mu         sync.Mutex
	rnd        jeopardy.Rand
	board      *entity.Board
	status     Status
	generation uint64
	lastErr    error
}

func NewBoardModel(logger *slog.Logger, fetcher categoryFetcher, opts BoardOptions, rnd jeopardy.Rand) *BoardModel {
	if opts.FetchConcurrency < 1 {
		opts.FetchConcurrency = 1
	}

	if opts.LoadingMode == "" {
		opts.LoadingMode = LoadingKeep
	}

	return &BoardModel{
		logger:  logger.With("component", "board_model"),
		fetcher: fetcher,
		opts:    opts,
		rnd:     rnd,
		status:  StatusEmpty,
	}
}

// StartGame - samples category ids, fetches and normalizes every category and
// then swaps the new board in. Nothing is written unless all categories loaded
// and no newer StartGame began in the meantime.
func (that *BoardModel) StartGame(ctx context.Context) (*entity.Board, error) {
	generation, ids := that.beginLoading()

	log := that.logger.With("method", "StartGame", "generation", generation)
	log.Info("starting game", "category_ids", ids)

	raws, err := that.fetchAll(ctx, ids)
	if err != nil {
		return nil, that.failLoading(log, generation, err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if generation != that.generation {
		log.Info("discarding stale game", "current_generation", that.generation)
		return nil, apperror.ErrStaleGame
	}

	categories := make([]entity.Category, 0, len(raws))
	for _, raw := range raws {
		category, err := jeopardy.NormalizeCategory(that.rnd, *raw, that.opts.CluesPerCategory)
		if err != nil {
			loadErr := &apperror.CategoryLoadError{CategoryID: raw.ID, Err: err}
			that.setFailedLocked(loadErr)
			log.Error("failed to normalize category", "error", loadErr)

			return nil, fmt.Errorf("failed to start game: %w", loadErr)
		}

		categories = append(categories, *category)
	}

	that.board = entity.NewBoard(categories)
	that.status = StatusReady
	that.lastErr = nil

	log.Info("game started", "categories", len(categories))

	return that.board.Clone(), nil
}

// Reveal - activates the cell at (categoryIndex, clueIndex).
func (that *BoardModel) Reveal(categoryIndex, clueIndex int) (RevealResult, error) {
	if err := checkBounds(that.opts, categoryIndex, clueIndex); err != nil {
		return RevealResult{}, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.board == nil {
		return RevealResult{}, apperror.ErrBoardNotLoaded
	}

	clue, err := that.board.Clue(categoryIndex, clueIndex)
	if err != nil {
		return RevealResult{}, fmt.Errorf("failed to reveal clue: %w", err)
	}

	text, revealed := clue.Reveal()

	return RevealResult{
		Text:     text,
		Showing:  clue.Showing,
		Revealed: revealed,
	}, nil
}

func checkBounds(opts BoardOptions, categoryIndex, clueIndex int) error {
	if categoryIndex < 0 || categoryIndex >= opts.CategoryCount ||
		clueIndex < 0 || clueIndex >= opts.CluesPerCategory {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d board", apperror.ErrOutOfRange,
			categoryIndex, clueIndex, opts.CategoryCount, opts.CluesPerCategory)
	}

	return nil
}

func (that *BoardModel) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot := Snapshot{
		Status:     that.status,
		Generation: that.generation,
	}

	if that.board != nil {
		snapshot.Board = that.board.Clone()
	}

	if that.lastErr != nil {
		snapshot.Error = that.lastErr.Error()
	}

	return snapshot
}

func (that *BoardModel) Status() Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

func (that *BoardModel) Options() BoardOptions {
	return that.opts
}

func (that *BoardModel) beginLoading() (uint64, []int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.generation++
	that.status = StatusLoading
	that.lastErr = nil

	if that.opts.LoadingMode == LoadingClear {
		that.board = nil
	}

	var ids []int
	if that.opts.DistinctCategories {
		ids = jeopardy.SampleDistinctCategoryIDs(that.rnd, that.opts.CategoryCount, that.opts.CategoryIDSpace)
	} else {
		ids = jeopardy.SampleCategoryIDs(that.rnd, that.opts.CategoryCount, that.opts.CategoryIDSpace)
	}

	return that.generation, ids
}

func (that *BoardModel) fetchAll(ctx context.Context, ids []int) ([]*entity.RawCategory, error) {
	if len(ids) != that.opts.CategoryCount {
		return nil, fmt.Errorf("%w: sampled %d ids for %d categories",
			apperror.ErrCategoryLoad, len(ids), that.opts.CategoryCount)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(that.opts.FetchConcurrency)

	raws := make([]*entity.RawCategory, len(ids))
	for i, id := range ids {
		group.Go(func() error {
			raw, err := that.fetcher.FetchCategory(groupCtx, id)
			if err == nil && raw == nil {
				err = errNilCategory
			}

			if err != nil {
				return &apperror.CategoryLoadError{CategoryID: id, Err: err}
			}

			category := *raw
			category.ID = id
			raws[i] = &category

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	return raws, nil
}

func (that *BoardModel) failLoading(log *slog.Logger, generation uint64, err error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if generation != that.generation {
		log.Info("discarding stale game failure", "error", err)
		return apperror.ErrStaleGame
	}

	that.setFailedLocked(err)
	log.Error("failed to start game", "error", err)

	return fmt.Errorf("failed to start game: %w", err)
}

// setFailedLocked - the previous board, if still kept, stays untouched.
func (that *BoardModel) setFailedLocked(err error) {
	that.status = StatusFailed
	that.lastErr = err
}
