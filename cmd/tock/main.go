package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/tock/internal/cli"
	"github.com/alexanderramin/tock/internal/clock"
	"github.com/alexanderramin/tock/internal/config"
	"github.com/alexanderramin/tock/internal/db"
	"github.com/alexanderramin/tock/internal/repository"
	"github.com/alexanderramin/tock/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Use-case log, off unless a log file is configured.
	var logOut io.Writer
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	observer := service.NewLogUseCaseObserver(logOut)

	timerRepo := repository.NewSQLiteTimerRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	clk := clock.System{}

	app := &cli.App{
		Timers:       service.NewTimerService(timerRepo, uow, clk, cfg.DefaultColor, observer),
		Sessions:     service.NewSessionService(timerRepo, sessionRepo, uow, clk, cfg.DefaultColor, observer),
		Reports:      service.NewReportService(sessionRepo, uow, clk, loc, observer),
		Clock:        clk,
		Location:     loc,
		DefaultColor: cfg.DefaultColor,
	}

	// The session editor needs a real terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
