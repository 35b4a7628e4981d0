package api

import (
	"net/http"
)

// handleGetLeaderboard handles requests for game leaderboards
func (s *APIServer) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.GetLeaderboard(r.PathValue("gameType"), limitParam(r, 15))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to fetch leaderboard"})
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *APIServer) handleGetRecentGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.db.GetRecentGames(r.PathValue("gameType"), limitParam(r, 10))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to fetch recent games"})
		return
	}

	writeJSON(w, http.StatusOK, games)
}
