package jservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/jeopardy-backend/internal/entity"
)

const categoryPath = "/api/category"

var (
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrMalformedCategory = errors.New("malformed category payload")
)

type categoryPayload struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Clues []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"clues"`
}

type Client struct {
	logger  *slog.Logger
	baseURL string
	http    *http.Client
}

func New(logger *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		logger:  logger.With("component", "jservice"),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchCategory - GET /api/category?id=N and decode the category with its clues.
// Clues with a blank question or answer are dropped.
func (that *Client) FetchCategory(ctx context.Context, id int) (*entity.RawCategory, error) {
	log := that.logger.With("method", "FetchCategory", "category_id", id)

	endpoint := that.baseURL + categoryPath + "?" + url.Values{"id": {strconv.Itoa(id)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := that.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: category %d: status %d", ErrUnexpectedStatus, id, resp.StatusCode)
	}

	var payload categoryPayload
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: category %d: %w", ErrMalformedCategory, id, err)
	}

	if strings.TrimSpace(payload.Title) == "" {
		return nil, fmt.Errorf("%w: category %d has no title", ErrMalformedCategory, id)
	}

	category := &entity.RawCategory{
		ID:    id,
		Title: strings.TrimSpace(payload.Title),
		Clues: make([]entity.RawClue, 0, len(payload.Clues)),
	}

	for _, clue := range payload.Clues {
		question := strings.TrimSpace(clue.Question)
		answer := strings.TrimSpace(clue.Answer)
		if question == "" || answer == "" {
			continue
		}

		category.Clues = append(category.Clues, entity.RawClue{Question: question, Answer: answer})
	}

	if dropped := len(payload.Clues) - len(category.Clues); dropped > 0 {
		log.Debug("dropped blank clues", "dropped", dropped)
	}

	return category, nil
}
