package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/racedata/internal/cli"
	"github.com/JonMunkholm/racedata/internal/config"
	"github.com/JonMunkholm/racedata/internal/core"
	"github.com/JonMunkholm/racedata/internal/logging"
	"github.com/JonMunkholm/racedata/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists; real environment variables win
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, openStore, os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		cli.PrintError(os.Stderr, err)
	}
	return cli.ExitCode(err)
}

// openStore loads configuration, connects to the database and builds the
// import service. It runs only for commands that need the database.
func openStore(ctx context.Context) (*store.Store, *core.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	svc, err := core.NewService(st, cfg.Import)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	slog.Debug("connected to database",
		"driver", cfg.Database.Driver,
		"tables", core.TableCount(),
		"import_slots", svc.Limiter().MaxConcurrent())
	return st, svc, nil
}
