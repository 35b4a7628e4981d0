package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"
)

// Session is the logged in player remembered between terminal runs.
type Session struct {
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// SessionManager keeps the current session and mirrors it to a file.
type SessionManager struct {
	sessionFile string
	current     *Session
}

// NewSessionManager loads any session already stored at path.
func NewSessionManager(path string) *SessionManager {
	sm := &SessionManager{sessionFile: path}
	if err := sm.LoadSession(); err != nil {
		log.Printf("[DEBUG] No previous session found or failed to load: %v", err)
	}
	return sm
}

// SaveSession saves the current session to disk
func (sm *SessionManager) SaveSession(userID int, username, email string) error {
	sm.current = &Session{
		UserID:     userID,
		Username:   username,
		Email:      email,
		LoggedInAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(sm.current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(sm.sessionFile, data, 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession loads a session from disk. A missing file is not an error.
func (sm *SessionManager) LoadSession() error {
	data, err := os.ReadFile(sm.sessionFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}

	sm.current = &session
	return nil
}

func (sm *SessionManager) GetCurrentSession() *Session {
	return sm.current
}

func (sm *SessionManager) IsLoggedIn() bool {
	return sm.current != nil
}

// ClearSession forgets the current session and removes the file.
func (sm *SessionManager) ClearSession() error {
	sm.current = nil

	if err := os.Remove(sm.sessionFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// GetUserInfo returns formatted user information
func (sm *SessionManager) GetUserInfo() string {
	if sm.current == nil {
		return "Not logged in"
	}
	return fmt.Sprintf("Logged in as: %s (%s)", sm.current.Username, sm.current.Email)
}
