package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
	"github.com/rocketscienceinc/jeopardy-backend/internal/repository"
)

var (
	errRedisDown = errors.New("redis down")
	errAPIDown   = errors.New("api down")
)

type mockCategoryRepo struct {
	mock.Mock
}

func (that *mockCategoryRepo) Save(ctx context.Context, category *entity.RawCategory) error {
	args := that.Called(ctx, category)
	return args.Error(0)
}

func (that *mockCategoryRepo) GetByID(ctx context.Context, id int) (*entity.RawCategory, error) {
	args := that.Called(ctx, id)
	category, _ := args.Get(0).(*entity.RawCategory)
	return category, args.Error(1)
}

func (that *mockCategoryRepo) DeleteByID(ctx context.Context, id int) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryAPI struct {
	mock.Mock
}

func (that *mockCategoryAPI) FetchCategory(ctx context.Context, id int) (*entity.RawCategory, error) {
	args := that.Called(ctx, id)
	category, _ := args.Get(0).(*entity.RawCategory)
	return category, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCategoryService_FetchCategory(t *testing.T) {
	ctx := context.Background()
	math := &entity.RawCategory{ID: 7, Title: "Math", Clues: []entity.RawClue{{Question: "2+2", Answer: "4"}}}

	t.Run("Returns cached category without calling the api", func(t *testing.T) {
		// Given: the category is cached
		repo := &mockCategoryRepo{}
		api := &mockCategoryAPI{}
		repo.On("GetByID", mock.Anything, 7).Return(math, nil).Once()

		svc := NewCategoryService(discardLogger(), repo, api)

		// When: fetching it
		category, err := svc.FetchCategory(ctx, 7)

		// Then: the cached value is returned and the api is not touched
		require.NoError(t, err)
		assert.Equal(t, math, category)
		repo.AssertExpectations(t)
		api.AssertNotCalled(t, "FetchCategory", mock.Anything, mock.Anything)
	})

	t.Run("Fetches and caches on a miss", func(t *testing.T) {
		// Given: an empty cache
		repo := &mockCategoryRepo{}
		api := &mockCategoryAPI{}
		repo.On("GetByID", mock.Anything, 7).Return(nil, repository.ErrCategoryNotFound).Once()
		api.On("FetchCategory", mock.Anything, 7).Return(math, nil).Once()
		repo.On("Save", mock.Anything, math).Return(nil).Once()

		svc := NewCategoryService(discardLogger(), repo, api)

		// When: fetching the category
		category, err := svc.FetchCategory(ctx, 7)

		// Then: the api result is returned and stored
		require.NoError(t, err)
		assert.Equal(t, math, category)
		repo.AssertExpectations(t)
		api.AssertExpectations(t)
	})

	t.Run("Falls back to the api when the cache is down", func(t *testing.T) {
		repo := &mockCategoryRepo{}
		api := &mockCategoryAPI{}
		repo.On("GetByID", mock.Anything, 7).Return(nil, errRedisDown).Once()
		api.On("FetchCategory", mock.Anything, 7).Return(math, nil).Once()
		repo.On("Save", mock.Anything, math).Return(errRedisDown).Once()

		svc := NewCategoryService(discardLogger(), repo, api)

		category, err := svc.FetchCategory(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, math, category)
	})

	t.Run("Evicts a corrupt cached category", func(t *testing.T) {
		// Given: the cached entry cannot be decoded and the api is down
		repo := &mockCategoryRepo{}
		api := &mockCategoryAPI{}
		repo.On("GetByID", mock.Anything, 7).Return(nil, repository.ErrCorruptCategory).Once()
		repo.On("DeleteByID", mock.Anything, 7).Return(nil).Once()
		api.On("FetchCategory", mock.Anything, 7).Return(nil, errAPIDown).Once()

		svc := NewCategoryService(discardLogger(), repo, api)

		// When: fetching the category
		category, err := svc.FetchCategory(ctx, 7)

		// Then: the corrupt entry is deleted even though the fetch fails
		require.ErrorIs(t, err, errAPIDown)
		assert.Nil(t, category)
		repo.AssertExpectations(t)
	})

	t.Run("Replaces a corrupt cached category from the api", func(t *testing.T) {
		repo := &mockCategoryRepo{}
		api := &mockCategoryAPI{}
		repo.On("GetByID", mock.Anything, 7).Return(nil, repository.ErrCorruptCategory).Once()
		repo.On("DeleteByID", mock.Anything, 7).Return(errRedisDown).Once()
		api.On("FetchCategory", mock.Anything, 7).Return(math, nil).Once()
		repo.On("Save", mock.Anything, math).Return(nil).Once()

		svc := NewCategoryService(discardLogger(), repo, api)

		category, err := svc.FetchCategory(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, math, category)
		repo.AssertExpectations(t)
		api.AssertExpectations(t)
	})

	t.Run("Returns api errors", func(t *testing.T) {
		repo := &mockCategoryRepo{}
		api := &mockCategoryAPI{}
		repo.On("GetByID", mock.Anything, 7).Return(nil, repository.ErrCategoryNotFound).Once()
		api.On("FetchCategory", mock.Anything, 7).Return(nil, errAPIDown).Once()

		svc := NewCategoryService(discardLogger(), repo, api)

		category, err := svc.FetchCategory(ctx, 7)

		require.ErrorIs(t, err, errAPIDown)
		assert.Nil(t, category)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
