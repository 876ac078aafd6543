package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrCategoryLoad      = errors.New("failed to load category")
	ErrInsufficientClues = errors.New("category has too few clues")
	ErrOutOfRange        = errors.New("clue coordinates out of range")
	ErrBoardNotLoaded    = errors.New("board is not loaded")
	ErrStaleGame         = errors.New("game start was superseded by a newer one")
)

// CategoryLoadError - a single category slot failed while a game was starting.
// It matches ErrCategoryLoad with errors.Is and unwraps to the cause.
type CategoryLoadError struct {
	CategoryID int
	Err        error
}

func (that *CategoryLoadError) Error() string {
	return fmt.Sprintf("failed to load category %d: %v", that.CategoryID, that.Err)
}

func (that *CategoryLoadError) Unwrap() error {
	return that.Err
}

func (that *CategoryLoadError) Is(target error) bool {
	return target == ErrCategoryLoad
}
