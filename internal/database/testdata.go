package database

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every account created by CreateTestData.
const DemoPassword = "tetris123"

type demoRound struct {
	score, lines, level int
	seconds             float64
}

var demoPlayers = []struct {
	username string
	email    string
	rounds   []demoRound
}{
	{"speedster", "speedster@example.com", []demoRound{{8500, 25, 3, 120.5}, {12000, 35, 4, 180.2}}},
	{"linebreaker", "breaker@example.com", []demoRound{{25000, 60, 7, 300.8}, {18500, 45, 5, 210.1}}},
	{"quickfingers", "quick@example.com", []demoRound{{9000, 30, 4, 150.7}, {13000, 40, 5, 200.3}}},
	{"gamemaster", "master@example.com", []demoRound{{27000, 70, 8, 360.9}, {22000, 55, 6, 250.4}}},
	{"stacker", "stacker@example.com", []demoRound{{7000, 20, 2, 100.1}, {9500, 28, 3, 140.6}}},
}

// CreateTestData seeds demo players and rounds into an empty database.
func (db *DB) CreateTestData(gameType string) error {
	var userCount int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	log.Println("[DEBUG] Creating sample data for testing...")

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := time.Now().UTC()
	for _, player := range demoPlayers {
		user, err := db.CreateUser(player.username, player.email, string(hash))
		if err != nil {
			return fmt.Errorf("failed to create test user %s: %w", player.username, err)
		}

		for j, round := range player.rounds {
			metadata := map[string]any{
				"lines":     round.lines,
				"level":     round.level,
				"game_time": round.seconds,
			}
			playedAt := now.Add(-time.Duration(len(player.rounds)-j) * 12 * time.Hour)
			if err := db.insertScore(user.ID, gameType, round.score, metadata, playedAt); err != nil {
				return fmt.Errorf("failed to create test score for %s: %w", player.username, err)
			}
		}
		log.Printf("[DEBUG]   created %s (ID: %d) with %d scores", user.Username, user.ID, len(player.rounds))
	}

	log.Println("[DEBUG] Sample data created successfully")
	return nil
}
