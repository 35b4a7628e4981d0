package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/isaacjstriker/notris/internal/auth"
	"github.com/isaacjstriker/notris/internal/database"
)

// RegisterUserRequest defines the shape of the registration request
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister handles new user registration
func (s *APIServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	user, err := auth.Register(s.db, req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrValidation):
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	case errors.Is(err, database.ErrDuplicate):
		writeJSON(w, http.StatusConflict, apiError{Error: "username or email already exists"})
		return
	case err != nil:
		log.Printf("[WARN] Error creating user: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to create user"})
		return
	}

	log.Printf("[INFO] Registered user %s (ID: %d)", user.Username, user.ID)
	writeJSON(w, http.StatusCreated, user)
}
