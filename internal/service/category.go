package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
	"github.com/rocketscienceinc/jeopardy-backend/internal/repository"
)

type CategoryService interface {
	FetchCategory(ctx context.Context, id int) (*entity.RawCategory, error)
}

type categoryRepo interface {
	Save(ctx context.Context, category *entity.RawCategory) error
	GetByID(ctx context.Context, id int) (*entity.RawCategory, error)
	DeleteByID(ctx context.Context, id int) error
}

type categoryAPI interface {
	FetchCategory(ctx context.Context, id int) (*entity.RawCategory, error)
}

type categoryService struct {
	logger       *slog.Logger
	categoryRepo categoryRepo
	categoryAPI  categoryAPI
}

// NewCategoryService - read-through cache in front of the trivia API.
// The cache is best effort: its failures are logged and the API is used.
func NewCategoryService(logger *slog.Logger, categoryRepo categoryRepo, categoryAPI categoryAPI) CategoryService {
	return &categoryService{
		logger:       logger.With("component", "category_service"),
		categoryRepo: categoryRepo,
		categoryAPI:  categoryAPI,
	}
}

func (that *categoryService) FetchCategory(ctx context.Context, id int) (*entity.RawCategory, error) {
	log := that.logger.With("method", "FetchCategory", "category_id", id)

	cached, err := that.categoryRepo.GetByID(ctx, id)
	switch {
	case err == nil:
		log.Debug("category cache hit")
		return cached, nil
	case errors.Is(err, repository.ErrCategoryNotFound):
		log.Debug("category cache miss")
	case errors.Is(err, repository.ErrCorruptCategory):
		log.Warn("evicting corrupt cached category", "error", err)
		if err = that.categoryRepo.DeleteByID(ctx, id); err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
			log.Warn("failed to evict cached category", "error", err)
		}
	default:
		log.Warn("category cache unavailable", "error", err)
	}

	category, err := that.categoryAPI.FetchCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category from api: %w", err)
	}

	if err = that.categoryRepo.Save(ctx, category); err != nil {
		log.Warn("failed to cache category", "error", err)
	}

	return category, nil
}
