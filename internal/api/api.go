package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/isaacjstriker/notris/internal/config"
	"github.com/isaacjstriker/notris/internal/database"
	"github.com/isaacjstriker/notris/web"
)

// APIServer serves the browser client, the account and score endpoints
// and one websocket game per connection. db may be nil, in which case
// everything but the game itself answers 503.
type APIServer struct {
	listenAddr string
	db         *database.DB
	config     *config.Config
	newSource  func() tetris.PieceSource
}

func NewAPIServer(listenAddr string, db *database.DB, cfg *config.Config) *APIServer {
	return &APIServer{
		listenAddr: listenAddr,
		db:         db,
		config:     cfg,
		newSource: func() tetris.PieceSource {
			return tetris.NewSeededGenerator(cfg.Seed)
		},
	}
}

// Handler builds the router.
func (s *APIServer) Handler() http.Handler {
	router := http.NewServeMux()

	staticFS, err := fs.Sub(web.Files, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static files are missing: %v", err))
	}
	router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	router.HandleFunc("GET /", s.handleIndex)

	router.HandleFunc("POST /api/register", s.requireDB(s.handleRegister))
	router.HandleFunc("POST /api/login", s.requireDB(s.handleLogin))
	router.HandleFunc("GET /api/leaderboard/{gameType}", s.requireDB(s.handleGetLeaderboard))
	router.HandleFunc("GET /api/recent/{gameType}", s.requireDB(s.handleGetRecentGames))
	router.HandleFunc("GET /api/stats/{gameType}", s.requireDB(s.requireAuth(s.handleGetStats)))
	router.HandleFunc("POST /api/scores", s.requireDB(s.requireAuth(s.handleSubmitScore)))

	router.HandleFunc("GET /ws/game", s.handleGameConnection)

	return router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *APIServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] API server listening on %s", s.listenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("could not start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("[INFO] Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleIndex serves the main index.html file from the embedded filesystem
func (s *APIServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	indexHTML, err := web.Files.ReadFile("templates/index.html")
	if err != nil {
		http.Error(w, "could not read index file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
