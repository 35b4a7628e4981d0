package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Connect("sqlite3://" + filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.CreateTables())
	return db
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect("")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	lite := &DB{dbType: "sqlite3"}
	pg := &DB{dbType: "postgres"}
	query := "SELECT * FROM t WHERE a = ? AND b = ?"

	assert.Equal(t, query, lite.rebind(query))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind(query))
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.CreateTables())
	assert.Equal(t, "sqlite3", db.Type())

	version, err := db.ServerVersion()
	require.NoError(t, err)
	assert.Contains(t, version, "SQLite")
}

func TestUsers(t *testing.T) {
	db := openTestDB(t)

	created, err := db.CreateUser("alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	user, hash, err := db.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "hash", hash)
	assert.Nil(t, user.LastLogin)
	assert.False(t, user.CreatedAt.IsZero())

	require.NoError(t, db.TouchLastLogin(user.ID))
	user, _, err = db.GetUserByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	_, err = db.CreateUser("alice", "other@example.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)

	_, _, err = db.GetUserByUsername("bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScoresAndLeaderboard(t *testing.T) {
	db := openTestDB(t)
	alice, err := db.CreateUser("alice", "alice@example.com", "hash")
	require.NoError(t, err)
	bob, err := db.CreateUser("bob", "bob@example.com", "hash")
	require.NoError(t, err)

	require.NoError(t, db.SaveGameScore(alice.ID, "tetris", 100, map[string]any{"lines": 2}))
	require.NoError(t, db.SaveGameScore(alice.ID, "tetris", 300, nil))
	require.NoError(t, db.SaveGameScore(bob.ID, "tetris", 1200, map[string]any{"lines": 4, "level": 1}))
	require.NoError(t, db.SaveGameScore(bob.ID, "other", 99999, nil))

	board, err := db.GetLeaderboard("tetris", 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0].Username)
	assert.Equal(t, 1200, board[0].BestScore)
	assert.Equal(t, "alice", board[1].Username)
	assert.Equal(t, 300, board[1].BestScore)
	assert.InDelta(t, 200.0, board[1].AvgScore, 1e-9)
	assert.Equal(t, 2, board[1].GamesPlayed)
	assert.WithinDuration(t, time.Now(), board[1].LastPlayed, time.Minute)

	board, err = db.GetLeaderboard("tetris", 1)
	require.NoError(t, err)
	assert.Len(t, board, 1)

	recent, err := db.GetRecentGames("tetris", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "bob", recent[0].Username)
	assert.Equal(t, float64(4), recent[0].Metadata["lines"])
	assert.Equal(t, 300, recent[1].Score)
	assert.Nil(t, recent[1].Metadata)

	empty, err := db.GetLeaderboard("nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserStats(t *testing.T) {
	db := openTestDB(t)
	alice, err := db.CreateUser("alice", "alice@example.com", "hash")
	require.NoError(t, err)

	stats, err := db.GetUserStats(alice.ID, "tetris")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.GamesPlayed)
	assert.Equal(t, 0, stats.BestScore)
	assert.True(t, stats.LastPlayed.IsZero())

	require.NoError(t, db.SaveGameScore(alice.ID, "tetris", 40, nil))
	require.NoError(t, db.SaveGameScore(alice.ID, "tetris", 140, nil))

	stats, err = db.GetUserStats(alice.ID, "tetris")
	require.NoError(t, err)
	assert.Equal(t, "alice", stats.Username)
	assert.Equal(t, "tetris", stats.GameType)
	assert.Equal(t, 2, stats.GamesPlayed)
	assert.Equal(t, 140, stats.BestScore)
	assert.InDelta(t, 90.0, stats.AvgScore, 1e-9)

	_, err = db.GetUserStats(9999, "tetris")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTestData(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateTestData("tetris"))
	require.NoError(t, db.CreateTestData("tetris"), "second call is a no-op")

	board, err := db.GetLeaderboard("tetris", 100)
	require.NoError(t, err)
	require.Len(t, board, len(demoPlayers))
	assert.Equal(t, "gamemaster", board[0].Username)
	assert.Equal(t, 27000, board[0].BestScore)
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	for _, src := range []any{
		want,
		"2024-05-01 12:30:00",
		"2024-05-01 12:30:00+00:00",
		[]byte("2024-05-01T12:30:00Z"),
	} {
		var got dbTime
		require.NoError(t, got.Scan(src), "%v", src)
		assert.True(t, got.Valid)
		assert.True(t, want.Equal(got.Time), "%v", src)
	}

	var null dbTime
	require.NoError(t, null.Scan(nil))
	assert.False(t, null.Valid)

	assert.Error(t, null.Scan("yesterday"))
	assert.Error(t, null.Scan(42))
}
