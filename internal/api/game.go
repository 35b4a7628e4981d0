package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isaacjstriker/notris/games/tetris"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type inputMessage struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type stateMessage struct {
	Type  string          `json:"type"`
	State tetris.Snapshot `json:"state"`
}

type gameOverMessage struct {
	Type  string `json:"type"`
	Score int    `json:"score"`
	Lines int    `json:"lines"`
	Level int    `json:"level"`
}

// handleGameConnection upgrades the request and plays one game on it. A
// token query parameter ties the game to a player so the result is saved.
func (s *APIServer) handleGameConnection(w http.ResponseWriter, r *http.Request) {
	var user *UserInfo
	if token := r.URL.Query().Get("token"); token != "" {
		var err error
		if user, err = s.validateJWT(token); err != nil {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: "invalid token"})
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	game := tetris.NewGame(s.newSource())
	player := "guest"
	if user != nil {
		player = user.Username
	}
	if s.config.Debug {
		log.Printf("[DEBUG] Game started for %s from %s", player, r.RemoteAddr)
	}

	if !s.gameLoop(conn, game) {
		return
	}

	result := game.Result()
	log.Printf("[INFO] Game over for %s: score %d, %d lines, level %d", player, result.Score, result.Lines, result.Level)
	if user != nil && s.db != nil {
		if err := s.db.SaveGameScore(user.UserID, result.GameName, result.Score, result.Metadata()); err != nil {
			log.Printf("[WARN] Could not save score for %s: %v", player, err)
		}
	}
}

// readInputs forwards client commands until the connection fails or done
// is closed. The channel is closed on return.
func readInputs(conn *websocket.Conn, done <-chan struct{}) <-chan tetris.Command {
	inputs := make(chan tetris.Command)
	conn.SetReadLimit(maxMessageSize)

	go func() {
		defer close(inputs)
		for {
			var msg inputMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[DEBUG] WebSocket read error: %v", err)
				}
				return
			}
			if msg.Type != "input" {
				continue
			}
			cmd, ok := tetris.ParseCommand(msg.Key)
			if !ok {
				continue
			}
			select {
			case inputs <- cmd:
			case <-done:
				return
			}
		}
	}()

	return inputs
}

func writeMessage(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// gameLoop owns the engine for the lifetime of the connection. It reports
// whether the game reached game over, as opposed to the client leaving.
func (s *APIServer) gameLoop(conn *websocket.Conn, game *tetris.Game) bool {
	done := make(chan struct{})
	defer close(done)
	inputs := readInputs(conn, done)

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	if err := writeMessage(conn, stateMessage{Type: "state", State: game.Snapshot()}); err != nil {
		return false
	}

	last := time.Now()
	for {
		select {
		case cmd, ok := <-inputs:
			if !ok {
				return false
			}
			game.Apply(cmd)

		case now := <-ticker.C:
			game.Advance(now.Sub(last))
			last = now

			if err := writeMessage(conn, stateMessage{Type: "state", State: game.Snapshot()}); err != nil {
				return false
			}
			if game.GameOver() {
				writeMessage(conn, gameOverMessage{
					Type:  "gameOver",
					Score: game.Score(),
					Lines: game.Lines(),
					Level: game.Level(),
				})
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
					time.Now().Add(writeWait))
				return true
			}
		}
	}
}
