package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/isaacjstriker/notris/internal/api"
	"github.com/isaacjstriker/notris/internal/config"
	"github.com/isaacjstriker/notris/internal/database"
	"github.com/isaacjstriker/notris/internal/script"
)

const usage = `Usage: notris [command]

Commands:
  play                  play in the terminal (default)
  serve                 run the web server
  script <file.lua>     run a Lua scenario and print the final board
      -seed N           seed for random pieces
      -pieces IOTSZJL   fixed, repeating piece order
  dbcheck               check the DATABASE_URL connection
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	cmd, args := "play", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "play":
		err = runPlay(cfg)
	case "serve":
		err = runServe(cfg)
	case "script":
		err = runScript(cfg, args)
	case "dbcheck":
		err = runDBCheck(cfg)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDB connects when DATABASE_URL is set. A nil DB means scores are
// not persisted.
func openDB(cfg *config.Config) (*database.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateTables(); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.Debug {
		if err := db.CreateTestData(tetris.GameName); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

func runServe(cfg *config.Config) error {
	if err := cfg.RequireJWTSecret(".env"); err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.NewAPIServer(cfg.Addr(), db, cfg).Start(ctx)
}

func runScript(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("script", flag.ContinueOnError)
	seed := fs.Int64("seed", cfg.Seed, "seed for random pieces")
	pieces := fs.String("pieces", "", "fixed, repeating piece order such as IOTSZJL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("script needs exactly one .lua file")
	}

	var source tetris.PieceSource = tetris.NewSeededGenerator(*seed)
	if *pieces != "" {
		seq, err := tetris.ParseSequence(*pieces)
		if err != nil {
			return err
		}
		source = seq
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	snap, err := script.Run(ctx, fs.Arg(0), source, os.Stdout)
	if renderErr := tetris.Render(os.Stdout, snap, false); renderErr != nil && err == nil {
		err = renderErr
	}
	return err
}
