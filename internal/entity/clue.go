package entity

import (
	"errors"
	"fmt"
)

type RevealState int

const (
	Hidden RevealState = iota
	Question
	Answer
)

var ErrUnknownRevealState = errors.New("unknown reveal state")

func (that RevealState) String() string {
	switch that {
	case Hidden:
		return "hidden"
	case Question:
		return "question"
	case Answer:
		return "answer"
	default:
		return fmt.Sprintf("RevealState(%d)", int(that))
	}
}

func (that RevealState) MarshalText() ([]byte, error) {
	switch that {
	case Hidden, Question, Answer:
		return []byte(that.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownRevealState, int(that))
	}
}

func (that *RevealState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hidden":
		*that = Hidden
	case "question":
		*that = Question
	case "answer":
		*that = Answer
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRevealState, text)
	}

	return nil
}

type Clue struct {
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
	Showing  RevealState `json:"showing"`
}

func NewClue(question, answer string) Clue {
	return Clue{
		Question: question,
		Answer:   answer,
		Showing:  Hidden,
	}
}

// Reveal - advances the clue one step and returns the text to display.
// Once the answer is showing it returns ok == false and leaves the clue untouched.
func (that *Clue) Reveal() (string, bool) {
	switch that.Showing {
	case Hidden:
		that.Showing = Question
		return that.Question, true
	case Question:
		that.Showing = Answer
		return that.Answer, true
	default:
		return "", false
	}
}

// Display - text the view shows for the clue in its current state.
func (that *Clue) Display() string {
	switch that.Showing {
	case Question:
		return that.Question
	case Answer:
		return that.Answer
	default:
		return HiddenCellText
	}
}
