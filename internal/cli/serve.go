package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/carpenike/stacked/internal/backup"
	"github.com/carpenike/stacked/internal/handlers"
	"github.com/carpenike/stacked/internal/notify"
	"github.com/carpenike/stacked/internal/scheduler"
	"github.com/carpenike/stacked/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	Addr string `help:"Listen address. Overrides server.addr."`
}

func (c *ServeCmd) Run(app *Context) error {
	cfg := app.Config
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	log := app.Log

	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database ready", "path", cfg.Storage.Path, "backend", cfg.Storage.Backend)

	if kv, ok := store.(*storage.KVStore); ok {
		if _, err := kv.MigrateLegacy(app.Ctx); err != nil {
			return err
		}
	}
	if cfg.Storage.SeedSamples {
		if _, err := storage.SeedSamples(app.Ctx, store, log); err != nil {
			return err
		}
	}

	notifier := notify.New(cfg.Notify.URLs, log)
	defer notifier.Wait()

	sessionStore := sqlite3store.New(db)
	defer sessionStore.StopCleanup()
	sessions := scs.New()
	sessions.Store = sessionStore
	sessions.Lifetime = cfg.Server.SessionLifetime
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode
	sessions.Cookie.Secure = cfg.Server.SecureCookies

	if cfg.Backup.Schedule != "" {
		mgr := backup.NewManager(cfg.Backup.Dir, cfg.Backup.Keep, log)
		sched, err := scheduler.New("backup", cfg.Backup.Schedule, func(ctx context.Context) error {
			_, err := mgr.Create(ctx, store)
			return err
		}, log)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.New(store, sessions, notifier, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("stacked listening", "addr", cfg.Server.Addr, "version", app.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-app.Ctx.Done():
	}

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
