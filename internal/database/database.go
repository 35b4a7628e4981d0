package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a looked up row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a username or email is already taken.
	ErrDuplicate = errors.New("already exists")
)

type DB struct {
	conn   *sql.DB
	dbType string // "postgres" or "sqlite3"
}

type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

// GameScore is one finished round as stored in game_scores.
type GameScore struct {
	ID       int            `json:"id"`
	UserID   int            `json:"user_id"`
	Username string         `json:"username,omitempty"`
	GameType string         `json:"game_type"`
	Score    int            `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
	PlayedAt time.Time      `json:"played_at"`
}

// LeaderboardEntry represents a single entry in the leaderboard
type LeaderboardEntry struct {
	Username    string    `json:"username"`
	GameType    string    `json:"game_type"`
	BestScore   int       `json:"best_score"`
	AvgScore    float64   `json:"avg_score"`
	GamesPlayed int       `json:"games_played"`
	LastPlayed  time.Time `json:"last_played"`
}

// Connect opens a PostgreSQL database for postgres:// URLs and a SQLite
// file for sqlite3:// URLs or plain paths.
func Connect(dbURL string) (*DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	driverName, dsn := "sqlite3", strings.TrimPrefix(dbURL, "sqlite3://")
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		driverName, dsn = "postgres", dbURL
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if driverName == "sqlite3" {
		conn.SetMaxOpenConns(1)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[INFO] Successfully connected to %s database.", driverName)
	return &DB{conn: conn, dbType: driverName}, nil
}

// Type reports the driver in use.
func (db *DB) Type() string { return db.dbType }

// rebind turns ? placeholders into $1..$n for PostgreSQL.
func (db *DB) rebind(query string) string {
	if db.dbType != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CreateTables creates the necessary database tables
func (db *DB) CreateTables() error {
	var queries []string

	if db.dbType == "postgres" {
		queries = []string{
			`CREATE TABLE IF NOT EXISTS users (
				id SERIAL PRIMARY KEY,
				username VARCHAR(50) UNIQUE NOT NULL,
				email VARCHAR(100) UNIQUE NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
				last_login TIMESTAMPTZ
			)`,
			`CREATE TABLE IF NOT EXISTS game_scores (
				id SERIAL PRIMARY KEY,
				user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
				game_type VARCHAR(50) NOT NULL,
				score INTEGER NOT NULL,
				metadata JSONB,
				played_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			)`,
		}
	} else {
		queries = []string{
			`CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT UNIQUE NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				last_login DATETIME
			)`,
			`CREATE TABLE IF NOT EXISTS game_scores (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER,
				game_type TEXT NOT NULL,
				score INTEGER NOT NULL,
				metadata TEXT,
				played_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (user_id) REFERENCES users (id)
			)`,
		}
	}
	queries = append(queries,
		`CREATE INDEX IF NOT EXISTS idx_game_scores_user_game ON game_scores(user_id, game_type)`,
		`CREATE INDEX IF NOT EXISTS idx_game_scores_type_score ON game_scores(game_type, score DESC)`,
	)

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// QueryRow runs a single-row query, rebinding placeholders for the driver.
func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(db.rebind(query), args...)
}

// ServerVersion returns the version string reported by the database server.
func (db *DB) ServerVersion() (string, error) {
	query := "SELECT 'SQLite ' || sqlite_version()"
	if db.dbType == "postgres" {
		query = "SELECT version()"
	}
	var version string
	if err := db.conn.QueryRow(query).Scan(&version); err != nil {
		return "", fmt.Errorf("failed to query server version: %w", err)
	}
	return version, nil
}

// CreateUser creates a new user in the database
func (db *DB) CreateUser(username, email, passwordHash string) (*User, error) {
	var id int64
	if db.dbType == "postgres" {
		err := db.conn.QueryRow(
			"INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id",
			username, email, passwordHash,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", classify(err))
		}
	} else {
		result, err := db.conn.Exec(
			"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
			username, email, passwordHash,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", classify(err))
		}
		if id, err = result.LastInsertId(); err != nil {
			return nil, fmt.Errorf("failed to get user ID: %w", err)
		}
	}

	return &User{
		ID:        int(id),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GetUserByUsername retrieves a user and their password hash.
func (db *DB) GetUserByUsername(username string) (*User, string, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, last_login
		FROM users WHERE username = ?
	`

	var user User
	var passwordHash string
	var createdAt, lastLogin dbTime
	err := db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &user.Email, &passwordHash,
		&createdAt, &lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = createdAt.Time
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return &user, passwordHash, nil
}

// TouchLastLogin records a successful login.
func (db *DB) TouchLastLogin(userID int) error {
	_, err := db.conn.Exec(db.rebind("UPDATE users SET last_login = ? WHERE id = ?"), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// SaveGameScore saves a game score to the database
func (db *DB) SaveGameScore(userID int, gameType string, score int, metadata map[string]any) error {
	return db.insertScore(userID, gameType, score, metadata, time.Now().UTC())
}

func (db *DB) insertScore(userID int, gameType string, score int, metadata map[string]any, playedAt time.Time) error {
	var metadataValue any
	if metadata != nil {
		metadataJSON, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataValue = string(metadataJSON)
	}

	query := `
		INSERT INTO game_scores (user_id, game_type, score, metadata, played_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.conn.Exec(db.rebind(query), userID, gameType, score, metadataValue, playedAt); err != nil {
		return fmt.Errorf("failed to save game score: %w", err)
	}
	return nil
}

// GetLeaderboard retrieves the best score per player for a game.
func (db *DB) GetLeaderboard(gameType string, limit int) ([]LeaderboardEntry, error) {
	query := `
		SELECT
			u.username,
			MAX(gs.score) AS best_score,
			AVG(CAST(gs.score AS REAL)) AS avg_score,
			COUNT(gs.id) AS games_played,
			MAX(gs.played_at) AS last_played
		FROM users u
		JOIN game_scores gs ON u.id = gs.user_id
		WHERE gs.game_type = ?
		GROUP BY u.id, u.username
		ORDER BY best_score DESC, u.username
		LIMIT ?
	`

	rows, err := db.conn.Query(db.rebind(query), gameType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var entry LeaderboardEntry
		var lastPlayed dbTime
		if err := rows.Scan(&entry.Username, &entry.BestScore, &entry.AvgScore, &entry.GamesPlayed, &lastPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.GameType = gameType
		entry.LastPlayed = lastPlayed.Time
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return entries, nil
}

// GetRecentGames returns the latest rounds of a game, newest first.
func (db *DB) GetRecentGames(gameType string, limit int) ([]GameScore, error) {
	query := `
		SELECT gs.id, gs.user_id, u.username, gs.score, gs.metadata, gs.played_at
		FROM game_scores gs
		JOIN users u ON u.id = gs.user_id
		WHERE gs.game_type = ?
		ORDER BY gs.played_at DESC, gs.id DESC
		LIMIT ?
	`

	rows, err := db.conn.Query(db.rebind(query), gameType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent games: %w", err)
	}
	defer rows.Close()

	games := []GameScore{}
	for rows.Next() {
		var gs GameScore
		var metadata sql.NullString
		var playedAt dbTime
		if err := rows.Scan(&gs.ID, &gs.UserID, &gs.Username, &gs.Score, &metadata, &playedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent game: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &gs.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata of game %d: %w", gs.ID, err)
			}
		}
		gs.GameType = gameType
		gs.PlayedAt = playedAt.Time
		games = append(games, gs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recent games: %w", err)
	}

	return games, nil
}

// GetUserStats retrieves statistics for a specific user and game
func (db *DB) GetUserStats(userID int, gameType string) (*LeaderboardEntry, error) {
	query := `
		SELECT
			u.username,
			COALESCE(MAX(gs.score), 0) AS best_score,
			COALESCE(AVG(CAST(gs.score AS REAL)), 0) AS avg_score,
			COUNT(gs.id) AS games_played,
			MAX(gs.played_at) AS last_played
		FROM users u
		LEFT JOIN game_scores gs ON u.id = gs.user_id AND gs.game_type = ?
		WHERE u.id = ?
		GROUP BY u.id, u.username
	`

	entry := LeaderboardEntry{GameType: gameType}
	var lastPlayed dbTime
	err := db.QueryRow(query, gameType, userID).Scan(
		&entry.Username, &entry.BestScore, &entry.AvgScore, &entry.GamesPlayed, &lastPlayed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	entry.LastPlayed = lastPlayed.Time

	return &entry, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// classify maps driver-specific unique violations onto ErrDuplicate.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %s", ErrDuplicate, liteErr.Error())
	}
	return err
}

var timeFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
}

// dbTime scans timestamps that arrive as time.Time from PostgreSQL and as
// text from SQLite aggregates.
type dbTime struct {
	Time  time.Time
	Valid bool
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeFormats {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
