package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/isaacjstriker/notris/internal/config"
	"github.com/isaacjstriker/notris/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, withDB bool) (*APIServer, *httptest.Server) {
	t.Helper()

	var db *database.DB
	if withDB {
		var err error
		db, err = database.Connect(filepath.Join(t.TempDir(), "api.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		require.NoError(t, db.CreateTables())
	}

	cfg := &config.Config{JWTSecret: testSecret, TickInterval: 5 * time.Millisecond}
	s := NewAPIServer("127.0.0.1:0", db, cfg)
	s.newSource = func() tetris.PieceSource { return tetris.NewSequence(tetris.O) }

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func registerAndLogin(t *testing.T, base, username string) string {
	t.Helper()
	resp := postJSON(t, base+"/api/register", "", RegisterUserRequest{
		Username: username, Email: username + "@example.com", Password: "tetris123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, base+"/api/login", "", LoginRequest{Username: username, Password: "tetris123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, username, login.Username)
	return login.Token
}

func TestIndexAndStatic(t *testing.T) {
	_, ts := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<canvas id=\"board\"")

	resp, err = http.Get(ts.URL + "/static/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEndpointsWithoutDatabase(t *testing.T) {
	_, ts := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/leaderboard/tetris")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "database is not configured", decode[apiError](t, resp).Error)
}

func TestRegisterAndLogin(t *testing.T) {
	_, ts := newTestServer(t, true)
	registerAndLogin(t, ts.URL, "alice")

	resp := postJSON(t, ts.URL+"/api/register", "", RegisterUserRequest{
		Username: "alice", Email: "other@example.com", Password: "tetris123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/register", "", RegisterUserRequest{
		Username: "bob", Email: "bob@example.com", Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[apiError](t, resp).Error, "at least 8")

	resp = postJSON(t, ts.URL+"/api/login", "", LoginRequest{Username: "alice", Password: "wrong-pass1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/login", "", LoginRequest{Username: "nobody", Password: "tetris123"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestScoresLeaderboardAndStats(t *testing.T) {
	_, ts := newTestServer(t, true)
	token := registerAndLogin(t, ts.URL, "alice")

	resp := postJSON(t, ts.URL+"/api/scores", "", ScoreSubmission{GameType: "tetris", Score: 10})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/scores", "not-a-token", ScoreSubmission{GameType: "tetris", Score: 10})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/scores", token, ScoreSubmission{GameType: "tetris", Score: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/scores", token, ScoreSubmission{
		GameType: "tetris", Score: 1200, Metadata: map[string]any{"lines": 4},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := http.Get(ts.URL + "/api/leaderboard/tetris?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	board := decode[[]database.LeaderboardEntry](t, resp)
	require.Len(t, board, 1)
	assert.Equal(t, "alice", board[0].Username)
	assert.Equal(t, 1200, board[0].BestScore)

	resp, err = http.Get(ts.URL + "/api/recent/tetris")
	require.NoError(t, err)
	defer resp.Body.Close()
	recent := decode[[]database.GameScore](t, resp)
	require.Len(t, recent, 1)
	assert.Equal(t, float64(4), recent[0].Metadata["lines"])

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/stats/tetris", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	stats := decode[database.LeaderboardEntry](t, resp)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1200, stats.BestScore)
}

func TestValidateJWT(t *testing.T) {
	s, _ := newTestServer(t, false)

	token, err := createJWT(42, "alice", testSecret)
	require.NoError(t, err)
	info, err := s.validateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, &UserInfo{UserID: 42, Username: "alice"}, info)

	forged, err := createJWT(42, "alice", "another-secret")
	require.NoError(t, err)
	_, err = s.validateJWT(forged)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.validateJWT(signed)
	assert.Error(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
	})
	signed, err = noExpiry.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.validateJWT(signed)
	assert.Error(t, err)
}

type serverMessage struct {
	Type  string           `json:"type"`
	State *tetris.Snapshot `json:"state"`
	Score int              `json:"score"`
}

func wsURL(ts *httptest.Server, token string) string {
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/game"
	if token != "" {
		u += "?token=" + token
	}
	return u
}

// playUntilOver hard drops after every state update until the server
// reports game over.
func playUntilOver(t *testing.T, conn *websocket.Conn) (states int, final serverMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var msg serverMessage
		require.NoError(t, conn.ReadJSON(&msg))
		switch msg.Type {
		case "state":
			require.NotNil(t, msg.State)
			states++
			conn.WriteJSON(inputMessage{Type: "input", Key: "drop"})
		case "gameOver":
			return states, msg
		default:
			t.Fatalf("unexpected message type %q", msg.Type)
		}
	}
}

func TestGameSessionAsGuest(t *testing.T) {
	_, ts := newTestServer(t, false)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, ""), nil)
	require.NoError(t, err)
	defer conn.Close()

	var first serverMessage
	require.NoError(t, conn.ReadJSON(&first))
	require.Equal(t, "state", first.Type)
	require.NotNil(t, first.State.Active)
	assert.Equal(t, tetris.O, first.State.Active.Kind)
	assert.Equal(t, tetris.BoardHeight, len(first.State.Board))

	require.NoError(t, conn.WriteJSON(inputMessage{Type: "input", Key: "drop"}))
	states, over := playUntilOver(t, conn)
	assert.Greater(t, states, 0)
	assert.Equal(t, 0, over.Score)
}

func TestGameSessionSavesScore(t *testing.T) {
	s, ts := newTestServer(t, true)
	token := registerAndLogin(t, ts.URL, "alice")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, token), nil)
	require.NoError(t, err)
	defer conn.Close()
	playUntilOver(t, conn)

	assert.Eventually(t, func() bool {
		games, err := s.db.GetRecentGames(tetris.GameName, 10)
		return err == nil && len(games) == 1 && games[0].Username == "alice"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestGameSessionRejectsBadToken(t *testing.T) {
	_, ts := newTestServer(t, false)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
