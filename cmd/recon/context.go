package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rpggio/recontrack/internal/app"
	"github.com/rpggio/recontrack/internal/config"
	"github.com/rpggio/recontrack/internal/sqlite"
)

type commandContext struct {
	dbPath  string
	jsonOut bool
	verbose bool
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func defaultDBPath() string {
	if path := strings.TrimSpace(os.Getenv("RECON_DB_PATH")); path != "" {
		return path
	}
	return config.Default().DB.Path
}

func staleDays() int {
	if raw := os.Getenv("RECON_STALE_DAYS"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil && days >= 0 {
			return days
		}
	}
	return config.Default().Report.StaleDays
}

func (c *commandContext) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// withServices opens the database, runs fn and closes it again.
func (c *commandContext) withServices(ctx context.Context, fn func(*app.Services) error) error {
	path := strings.TrimSpace(c.dbPath)
	if path == "" {
		return fmt.Errorf("--db is required")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("prepare database path: %w", err)
			}
		}
	}

	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(app.New(db, app.Options{
		StaleAfterDays: staleDays(),
		Logger:         c.logger(),
	}))
}
