package main

import (
	"fmt"

	"github.com/isaacjstriker/notris/internal/config"
	"github.com/isaacjstriker/notris/internal/database"
)

// runDBCheck connects to DATABASE_URL, makes sure the tables exist and
// reports what is stored.
func runDBCheck(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	fmt.Println("Testing database connection...")
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := db.ServerVersion()
	if err != nil {
		return err
	}
	if len(version) > 50 {
		version = version[:50] + "..."
	}
	fmt.Printf("Connected to %s: %s\n", db.Type(), version)

	if err := db.CreateTables(); err != nil {
		return err
	}

	for _, table := range []string{"users", "game_scores"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		fmt.Printf("  %-12s %d rows\n", table, count)
	}
	return nil
}
