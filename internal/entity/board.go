package entity

import (
	"fmt"

	"github.com/rocketscienceinc/jeopardy-backend/internal/apperror"
)

type Board struct {
	Categories []Category `json:"categories"`
}

func NewBoard(categories []Category) *Board {
	return &Board{Categories: categories}
}

// Clue - returns the addressed clue, rejecting coordinates outside the board.
func (that *Board) Clue(categoryIndex, clueIndex int) (*Clue, error) {
	if categoryIndex < 0 || categoryIndex >= len(that.Categories) {
		return nil, fmt.Errorf("%w: category %d of %d", apperror.ErrOutOfRange, categoryIndex, len(that.Categories))
	}

	clues := that.Categories[categoryIndex].Clues
	if clueIndex < 0 || clueIndex >= len(clues) {
		return nil, fmt.Errorf("%w: clue %d of %d", apperror.ErrOutOfRange, clueIndex, len(clues))
	}

	return &clues[clueIndex], nil
}

// HasShape - reports whether the board has exactly categories x clues cells.
func (that *Board) HasShape(categories, clues int) bool {
	if len(that.Categories) != categories {
		return false
	}

	for _, category := range that.Categories {
		if len(category.Clues) != clues {
			return false
		}
	}

	return true
}

// Clone - deep copy, safe to hand to readers outside the owning lock.
func (that *Board) Clone() *Board {
	categories := make([]Category, len(that.Categories))
	for i := range that.Categories {
		categories[i] = that.Categories[i].clone()
	}

	return &Board{Categories: categories}
}
