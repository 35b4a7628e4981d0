package api

import (
	"errors"
	"net/http"

	"github.com/isaacjstriker/notris/internal/database"
)

type ScoreSubmission struct {
	GameType string         `json:"game_type"`
	Score    int            `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// handleSubmitScore stores a score for the authenticated player.
func (s *APIServer) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	userInfo, ok := GetUserFromContext(r.Context())
	if !ok {
		permissionDenied(w)
		return
	}

	var submission ScoreSubmission
	if err := readJSON(r, &submission); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}
	if submission.GameType == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "game_type is required"})
		return
	}
	if submission.Score < 0 {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "score must be non-negative"})
		return
	}

	if err := s.db.SaveGameScore(userInfo.UserID, submission.GameType, submission.Score, submission.Metadata); err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to save score"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Score saved successfully",
	})
}

// handleGetStats returns the authenticated player's statistics for a game.
func (s *APIServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	userInfo, ok := GetUserFromContext(r.Context())
	if !ok {
		permissionDenied(w)
		return
	}

	stats, err := s.db.GetUserStats(userInfo.UserID, r.PathValue("gameType"))
	if errors.Is(err, database.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "user not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to fetch stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
