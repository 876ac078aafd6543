package entity

const HiddenCellText = "?"

// RawClue - a question/answer pair as returned by the trivia API.
type RawClue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// RawCategory - a category as returned by the trivia API, with any number of clues.
type RawCategory struct {
	ID    int       `json:"id"`
	Title string    `json:"title"`
	Clues []RawClue `json:"clues"`
}

type Category struct {
	Title string `json:"title"`
	Clues []Clue `json:"clues"`
}

func (that *Category) clone() Category {
	clues := make([]Clue, len(that.Clues))
	copy(clues, that.Clues)

	return Category{Title: that.Title, Clues: clues}
}
