// Package cli defines the stacked command tree and its commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/carpenike/stacked/internal/config"
	"github.com/carpenike/stacked/internal/database"
	"github.com/carpenike/stacked/internal/storage"
)

// CLI is the root of the command tree.
type CLI struct {
	Version kong.VersionFlag `help:"Print the version and exit."`
	Config  string           `help:"Config file path." short:"c" type:"path" env:"STACKED_CONFIG"`

	Serve     ServeCmd     `cmd:"" help:"Run the HTTP API." default:"1"`
	List      ListCmd      `cmd:"" help:"List workouts, newest first."`
	Show      ShowCmd      `cmd:"" help:"Show one workout with its totals."`
	Export    ExportCmd    `cmd:"" help:"Write every workout and the settings as a backup document."`
	Import    ImportCmd    `cmd:"" help:"Import a backup (overwrites) or a Strong/Hevy CSV (appends)."`
	Normalize NormalizeCmd `cmd:"" help:"Rewrite legacy workout records in the current shape."`
	Seed      SeedCmd      `cmd:"" help:"Load the sample workouts into an empty log."`
	Clear     ClearCmd     `cmd:"" help:"Delete every workout and reset the settings."`
	Settings  SettingsCmd  `cmd:"" help:"Show or change the settings."`
	Backup    struct {
		Create  BackupCreateCmd  `cmd:"" help:"Create a backup now."`
		List    BackupListCmd    `cmd:"" help:"List backups."`
		Restore BackupRestoreCmd `cmd:"" help:"Restore a backup."`
	} `cmd:"" help:"Manage backups."`
	NotifyTest NotifyTestCmd `cmd:"" name:"notify-test" help:"Send a test notification to every configured URL."`
	MCP        MCPCmd        `cmd:"" name:"mcp" help:"Serve the workout log to MCP clients over stdio."`
}

// Context carries what every command needs.
type Context struct {
	Ctx     context.Context
	Config  *config.Config
	Log     *slog.Logger
	Out     io.Writer
	In      io.Reader
	Version string
}

// open opens and migrates the database and returns the configured store.
// The caller closes the returned db.
func (c *Context) open() (*sql.DB, storage.Store, error) {
	db, err := database.Open(c.Config.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	store, err := storage.New(c.Config.Storage.Backend, db, c.Config.Storage.UserID, c.Log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}
