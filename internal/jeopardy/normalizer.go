package jeopardy

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/rocketscienceinc/jeopardy-backend/internal/apperror"
	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
)

// NormalizeCategory - reduces a raw category to exactly target clues,
// sampled without replacement. The raw clue slice is not modified.
func NormalizeCategory(rnd Rand, raw entity.RawCategory, target int) (*entity.Category, error) {
	if len(raw.Clues) < target {
		return nil, fmt.Errorf("%w: category %d has %d, need %d",
			apperror.ErrInsufficientClues, raw.ID, len(raw.Clues), target)
	}

	pool := make([]entity.RawClue, len(raw.Clues))
	copy(pool, raw.Clues)

	// partial Fisher-Yates: pool[:target] ends up a uniform sample
	for i := range target {
		j := i + rnd.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	clues := lo.Map(pool[:target], func(rawClue entity.RawClue, _ int) entity.Clue {
		return entity.NewClue(rawClue.Question, rawClue.Answer)
	})

	return &entity.Category{
		Title: raw.Title,
		Clues: clues,
	}, nil
}
