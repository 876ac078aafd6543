package rest

import (
	"github.com/samber/lo"

	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
	"github.com/rocketscienceinc/jeopardy-backend/internal/usecase"
)

type cellView struct {
	Text    string             `json:"text"`
	Showing entity.RevealState `json:"showing"`
}

type columnView struct {
	Title string     `json:"title"`
	Cells []cellView `json:"cells"`
}

// boardView - one column per category, one cell per clue, "?" for hidden clues.
type boardView struct {
	Status     usecase.Status `json:"status"`
	Generation uint64         `json:"generation"`
	Error      string         `json:"error,omitempty"`
	Columns    []columnView   `json:"columns"`
}

func newBoardView(snapshot usecase.Snapshot) boardView {
	view := boardView{
		Status:     snapshot.Status,
		Generation: snapshot.Generation,
		Error:      snapshot.Error,
		Columns:    []columnView{},
	}

	if snapshot.Board == nil {
		return view
	}

	view.Columns = lo.Map(snapshot.Board.Categories, func(category entity.Category, _ int) columnView {
		return columnView{
			Title: category.Title,
			Cells: lo.Map(category.Clues, func(clue entity.Clue, _ int) cellView {
				return cellView{Text: clue.Display(), Showing: clue.Showing}
			}),
		}
	})

	return view
}
