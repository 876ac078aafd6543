package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCorruptCategory  = errors.New("cached category is corrupt")
)

type CategoryRepository interface {
	Save(ctx context.Context, category *entity.RawCategory) error
	GetByID(ctx context.Context, id int) (*entity.RawCategory, error)
	DeleteByID(ctx context.Context, id int) error
}

type dbCategory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryRepository - raw categories cached in redis; ttl 0 keeps them forever.
func NewCategoryRepository(client *redis.Client, ttl time.Duration) CategoryRepository {
	return &dbCategory{
		client: client,
		ttl:    ttl,
	}
}

func categoryKey(id int) string {
	return "category:" + strconv.Itoa(id)
}

func (that *dbCategory) Save(ctx context.Context, category *entity.RawCategory) error {
	categoryJSON, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("could not marshal category: %w", err)
	}

	if err = that.client.Set(ctx, categoryKey(category.ID), categoryJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set category: %w", err)
	}

	return nil
}

func (that *dbCategory) GetByID(ctx context.Context, id int) (*entity.RawCategory, error) {
	response, err := that.client.Get(ctx, categoryKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCategoryNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}

	var category entity.RawCategory
	if err = json.Unmarshal([]byte(response), &category); err != nil {
		return nil, fmt.Errorf("%w: category %d: %w", ErrCorruptCategory, id, err)
	}

	return &category, nil
}

func (that *dbCategory) DeleteByID(ctx context.Context, id int) error {
	deleted, err := that.client.Del(ctx, categoryKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete category by ID: %w", err)
	}

	if deleted == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
