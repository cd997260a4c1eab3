// Package backup writes export documents of the workout log to a directory
// and keeps only the most recent ones.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/carpenike/stacked/internal/models"
	"github.com/carpenike/stacked/internal/storage"
)

const (
	// DefaultKeep is the retention used when Manager.Keep is zero.
	DefaultKeep = 14
	// FilePrefix is the prefix for backup files.
	FilePrefix = "stacked-"
	// FileSuffix is the suffix for backup files.
	FileSuffix = ".json"

	timestampLayout = "20060102-150405"
)

// Info describes a backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists, rotates and restores backups in Dir.
type Manager struct {
	Dir  string
	Keep int
	Log  *slog.Logger

	now func() time.Time
}

// NewManager returns a Manager writing to dir and keeping keep files.
func NewManager(dir string, keep int, log *slog.Logger) *Manager {
	return &Manager{Dir: dir, Keep: keep, Log: log, now: time.Now}
}

func (m *Manager) keep() int {
	if m.Keep <= 0 {
		return DefaultKeep
	}
	return m.Keep
}

// Create exports every workout and the settings from store into a new
// timestamped file, then prunes old backups. It returns the new file's path.
func (m *Manager) Create(ctx context.Context, store storage.Store) (string, error) {
	workouts, err := store.ListWorkouts(ctx)
	if err != nil {
		return "", fmt.Errorf("backup: list workouts: %w", err)
	}
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("backup: get settings: %w", err)
	}

	now := m.now()
	data, err := json.MarshalIndent(models.NewExport(workouts, settings, now), "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup: encode: %w", err)
	}

	if err := os.MkdirAll(m.Dir, 0o700); err != nil {
		return "", fmt.Errorf("backup: create dir: %w", err)
	}
	path, err := m.uniquePath(now)
	if err != nil {
		return "", err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("backup: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("backup: rename: %w", err)
	}

	if err := m.rotate(); err != nil {
		m.Log.Warn("backup: rotate failed", "error", err)
	}
	m.Log.Info("backup created", "path", path, "workouts", len(workouts))
	return path, nil
}

func (m *Manager) uniquePath(now time.Time) (string, error) {
	base := FilePrefix + now.Format(timestampLayout)
	path := filepath.Join(m.Dir, base+FileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if n > 100 {
			return "", fmt.Errorf("backup: failed to generate unique filename")
		}
		path = filepath.Join(m.Dir, fmt.Sprintf("%s-%d%s", base, n, FileSuffix))
	}
}

// List returns backups newest first. A missing directory yields none.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.Dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backup: read dir: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, FileSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, FilePrefix), FileSuffix)
		if len(stamp) > len(timestampLayout) {
			stamp = stamp[:len(timestampLayout)] // drop a "-N" collision counter
		}
		ts, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{Path: filepath.Join(m.Dir, name), Timestamp: ts, Size: info.Size()})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// rotate removes backups beyond the retention limit, oldest first.
func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep(); i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("backup: remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore overwrites store with the contents of the backup at path. The
// current data is backed up first.
func (m *Manager) Restore(ctx context.Context, store storage.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("backup: read %s: %w", path, err)
	}
	doc, err := models.ParseImport(data)
	if err != nil {
		return fmt.Errorf("backup: %s: %w", filepath.Base(path), err)
	}

	if _, err := m.Create(ctx, store); err != nil {
		return fmt.Errorf("backup: safety backup before restore: %w", err)
	}
	if err := storage.Restore(ctx, store, doc.Workouts, doc.Settings); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	m.Log.Info("backup restored", "path", path, "workouts", len(doc.Workouts))
	return nil
}
