package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/isaacjstriker/notris/internal/auth"
	"github.com/isaacjstriker/notris/internal/config"
	"github.com/isaacjstriker/notris/internal/database"
	"github.com/isaacjstriker/notris/internal/types"
	"github.com/isaacjstriker/notris/ui"
)

func runPlay(cfg *config.Config) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	session := auth.NewSessionManager(cfg.SessionFile)
	var cli *auth.CLIAuth
	if db != nil {
		cli = auth.NewCLIAuth(db, session)
	}

	for {
		items := []ui.MenuItem{{Label: "Play Tetris", Value: "play"}}
		if db != nil {
			items = append(items,
				ui.MenuItem{Label: "Account", Value: "account"},
				ui.MenuItem{Label: "Leaderboard", Value: "leaderboard"},
			)
		}
		items = append(items, ui.MenuItem{Label: "Quit", Value: "quit"})

		menu := ui.NewMenu(cfg.AppName, items)
		menu.Subtitle = session.GetUserInfo()

		switch menu.Show() {
		case "play":
			game := tetris.NewGame(tetris.NewSeededGenerator(cfg.Seed))
			result, err := tetris.RunTerminal(game, cfg.TickInterval, os.Stdout)
			if err != nil {
				return err
			}
			printResult(os.Stdout, result)
			saveResult(db, session, result)
			waitForEnter()
		case "account":
			cli.ShowAuthMenu()
		case "leaderboard":
			if err := printLeaderboard(os.Stdout, db, session.GetCurrentSession()); err != nil {
				fmt.Printf("Could not load leaderboard: %v\n", err)
			}
			waitForEnter()
		default:
			return nil
		}
	}
}

func waitForEnter() {
	fmt.Println("\nPress Enter to continue...")
	fmt.Scanln()
}

func printResult(w io.Writer, r types.GameResult) {
	fmt.Fprintf(w, "\nFinal score: %d\n", r.Score)
	fmt.Fprintf(w, "Lines: %d  Level: %d  Time: %.1fs\n", r.Lines, r.Level, r.Duration)
}

func saveResult(db *database.DB, session *auth.SessionManager, r types.GameResult) {
	if db == nil {
		return
	}
	s := session.GetCurrentSession()
	if s == nil {
		fmt.Println("Playing as guest, score not saved. Log in from the Account menu to keep your scores.")
		return
	}
	if err := db.SaveGameScore(s.UserID, r.GameName, r.Score, r.Metadata()); err != nil {
		log.Printf("[WARN] Could not save score: %v", err)
		return
	}
	fmt.Println("Score saved!")
}

func printLeaderboard(w io.Writer, db *database.DB, s *auth.Session) error {
	entries, err := db.GetLeaderboard(tetris.GameName, 10)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTETRIS LEADERBOARD")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPlayer\tBest\tAverage\tGames")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.0f\t%d\n", i+1, e.Username, e.BestScore, e.AvgScore, e.GamesPlayed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No scores yet.")
	}

	if s == nil {
		return nil
	}
	stats, err := db.GetUserStats(s.UserID, tetris.GameName)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nYou: best %d, average %.0f over %d games\n", stats.BestScore, stats.AvgScore, stats.GamesPlayed)
	return nil
}
