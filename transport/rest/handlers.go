package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/jeopardy-backend/internal/apperror"
)

type errorResponse struct {
	Error      string `json:"error"`
	CategoryID *int   `json:"category_id,omitempty"`
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleGetGame", "request_id", requestIDFrom(r.Context()))

	snapshot, err := that.game.Snapshot(sessionIDFrom(r.Context()))
	if err != nil {
		log.Error("failed to get game", "error", err)
		that.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	that.writeJSON(w, http.StatusOK, newBoardView(snapshot))
}

func (that *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := sessionIDFrom(ctx)
	log := that.logger.With("method", "handleStartGame", "request_id", requestIDFrom(ctx))

	_, err := that.game.StartGame(ctx, sessionID)

	var loadErr *apperror.CategoryLoadError
	switch {
	case err == nil:
	case errors.As(err, &loadErr):
		log.Warn("failed to load categories", "category_id", loadErr.CategoryID, "error", err)
		that.writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:      "could not load categories, please try again",
			CategoryID: &loadErr.CategoryID,
		})
		return
	case errors.Is(err, apperror.ErrStaleGame):
		that.writeError(w, http.StatusConflict, "a newer game was started")
		return
	case errors.Is(err, apperror.ErrCategoryLoad):
		log.Warn("failed to load categories", "error", err)
		that.writeError(w, http.StatusBadGateway, "could not load categories, please try again")
		return
	default:
		log.Error("failed to start game", "error", err)
		that.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	snapshot, err := that.game.Snapshot(sessionID)
	if err != nil {
		log.Error("failed to get game", "error", err)
		that.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	that.writeJSON(w, http.StatusOK, newBoardView(snapshot))
}

// handleReveal - 200 with the text to show, or 204 when the clue was already answered.
func (that *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleReveal", "request_id", requestIDFrom(r.Context()))

	categoryIndex, err := strconv.Atoi(r.PathValue("category"))
	if err != nil {
		that.writeError(w, http.StatusBadRequest, "category must be an integer")
		return
	}

	clueIndex, err := strconv.Atoi(r.PathValue("clue"))
	if err != nil {
		that.writeError(w, http.StatusBadRequest, "clue must be an integer")
		return
	}

	result, err := that.game.Reveal(sessionIDFrom(r.Context()), categoryIndex, clueIndex)
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrOutOfRange):
		// the view only emits coordinates of rendered cells
		log.Warn("reveal outside the board", "category", categoryIndex, "clue", clueIndex)
		that.writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, apperror.ErrBoardNotLoaded):
		that.writeError(w, http.StatusConflict, "start a game first")
		return
	default:
		log.Error("failed to reveal clue", "error", err)
		that.writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if !result.Revealed {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status line is already sent, so a failed body can only be logged
	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, errorResponse{Error: message})
}
