package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/isaacjstriker/notris/internal/auth"
)

// LoginRequest defines the shape of the login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse defines the shape of the successful login response
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// handleLogin checks credentials and answers with a signed token.
func (s *APIServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	user, err := auth.Authenticate(s.db, req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		permissionDenied(w)
		return
	}
	if err != nil {
		log.Printf("[WARN] Login for %s failed: %v", req.Username, err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to log in"})
		return
	}

	token, err := createJWT(user.ID, user.Username, s.config.JWTSecret)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to create token"})
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Username: user.Username})
}
