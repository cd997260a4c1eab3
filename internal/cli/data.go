package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/carpenike/stacked/internal/backup"
	"github.com/carpenike/stacked/internal/importers"
	"github.com/carpenike/stacked/internal/mcp"
	"github.com/carpenike/stacked/internal/models"
	"github.com/carpenike/stacked/internal/notify"
	"github.com/carpenike/stacked/internal/storage"
)

type ExportCmd struct {
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *ExportCmd) Run(app *Context) error {
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	workouts, err := store.ListWorkouts(app.Ctx)
	if err != nil {
		return err
	}
	settings, err := store.GetSettings(app.Ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(models.NewExport(workouts, settings, time.Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	if c.Output == "" || c.Output == "-" {
		_, err := app.Out.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(c.Output, data, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	app.printf("Exported %d workouts to %s\n", len(workouts), c.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Backup JSON, Strong CSV or Hevy CSV." type:"existingfile"`
	Yes  bool   `help:"Skip the overwrite confirmation for backups."`
}

func (c *ImportCmd) Run(app *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}

	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if importers.DetectFormat(data) == importers.FormatStackedJSON {
		doc, err := models.ParseImport(data)
		if err != nil {
			return fmt.Errorf("%s: %s", filepath.Base(c.File), models.UserMessage(err))
		}
		if !c.Yes && !confirm(app, fmt.Sprintf("Replace every workout with the %d in %s?", len(doc.Workouts), filepath.Base(c.File))) {
			app.printf("Cancelled\n")
			return nil
		}
		if err := storage.Restore(app.Ctx, store, doc.Workouts, doc.Settings); err != nil {
			return err
		}
		app.printf("Imported %d workouts (%d upgraded from the old format)\n", len(doc.Workouts), doc.Legacy)
		return nil
	}

	settings, err := store.GetSettings(app.Ctx)
	if err != nil {
		return err
	}
	parsed, err := importers.ParseCSV(data, settings.WeightUnit)
	if err != nil {
		return fmt.Errorf("%s: %s", filepath.Base(c.File), models.UserMessage(err))
	}
	for i := range parsed.Workouts {
		if err := models.ValidateWorkout(&parsed.Workouts[i]); err != nil {
			return fmt.Errorf("%s: %s", filepath.Base(c.File), models.UserMessage(err))
		}
	}
	if err := storage.Append(app.Ctx, store, parsed.Workouts); err != nil {
		return err
	}
	app.printf("Imported %d workouts from %s", len(parsed.Workouts), parsed.Format)
	if parsed.Skipped > 0 {
		app.printf(" (%d rows skipped)", parsed.Skipped)
	}
	app.printf("\n")
	return nil
}

type NormalizeCmd struct{}

func (c *NormalizeCmd) Run(app *Context) error {
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	kv, ok := store.(*storage.KVStore)
	if !ok {
		app.printf("The %s backend stores workouts in the current shape already\n", app.Config.Storage.Backend)
		return nil
	}
	n, err := kv.MigrateLegacy(app.Ctx)
	if err != nil {
		return err
	}
	app.printf("Normalized %d legacy workouts\n", n)
	return nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(app *Context) error {
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	mgr := backup.NewManager(app.Config.Backup.Dir, app.Config.Backup.Keep, app.Log)
	path, err := mgr.Create(app.Ctx, store)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	app.printf("Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(app *Context) error {
	mgr := backup.NewManager(app.Config.Backup.Dir, app.Config.Backup.Keep, app.Log)
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		app.printf("No backups found.\n")
		app.printf("Backups are stored in: %s\n", mgr.Dir)
		return nil
	}
	for _, b := range backups {
		app.printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024.0)
	}
	app.printf("\nBackup directory: %s\n", mgr.Dir)
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(app *Context) error {
	mgr := backup.NewManager(app.Config.Backup.Dir, app.Config.Backup.Keep, app.Log)

	path := c.BackupFile
	if !filepath.IsAbs(path) {
		if candidate := filepath.Join(mgr.Dir, path); fileExists(candidate) {
			path = candidate
		}
	}
	if !fileExists(path) {
		return fmt.Errorf("backup file not found: %s", path)
	}

	if !c.Yes && !confirm(app, fmt.Sprintf("Replace all data with %s? The current data is backed up first.", filepath.Base(path))) {
		app.printf("Restore cancelled.\n")
		return nil
	}

	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mgr.Restore(app.Ctx, store, path); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	app.printf("Restored %s\n", filepath.Base(path))
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

type NotifyTestCmd struct{}

func (c *NotifyTestCmd) Run(app *Context) error {
	n := notify.New(app.Config.Notify.URLs, app.Log)
	if err := n.Test(); err != nil {
		return err
	}
	app.printf("Test notification sent\n")
	return nil
}

type MCPCmd struct{}

func (c *MCPCmd) Run(app *Context) error {
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return mcp.Serve(mcp.New(store, app.Version, app.Log))
}
