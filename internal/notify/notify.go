// Package notify broadcasts activity messages (a workout logged, data
// imported or cleared) to Shoutrrr URLs such as ntfy or Discord.
//
// Delivery is fire-and-forget: errors are logged and never block or fail
// the action that triggered the message.
package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/carpenike/stacked/internal/models"
	"github.com/containrrr/shoutrrr"
)

// Notifier sends broadcast messages to a fixed set of Shoutrrr URLs.
// A nil *Notifier or one with no URLs is a no-op.
type Notifier struct {
	urls []string
	log  *slog.Logger
	send func(url, message string) error
	wg   sync.WaitGroup
}

// New returns a Notifier for urls. Blank entries are dropped.
func New(urls []string, log *slog.Logger) *Notifier {
	return &Notifier{urls: parseURLs(urls), log: log, send: shoutrrr.Send}
}

// Enabled reports whether any URL is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && len(n.urls) > 0
}

// Broadcast sends title and message to every URL in the background.
func (n *Notifier) Broadcast(title, message string) {
	if !n.Enabled() || title == "" {
		return
	}
	body := buildBody(title, message)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for _, u := range n.urls {
			if err := n.send(u, body); err != nil {
				n.log.Warn("notify: broadcast failed", "url", maskURL(u), "error", err)
			}
		}
	}()
}

// Wait blocks until in-flight broadcasts finish. Call it on shutdown.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

// Test sends a test message to every URL synchronously and reports failures.
func (n *Notifier) Test() error {
	if !n.Enabled() {
		return fmt.Errorf("notify: no broadcast URLs configured")
	}
	var errs []string
	for _, u := range n.urls {
		if err := n.send(u, "Stacked test: if you see this, notifications are working!"); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", maskURL(u), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %s", strings.Join(errs, "; "))
	}
	return nil
}

// WorkoutLogged announces a newly saved workout.
func (n *Notifier) WorkoutLogged(w *models.Workout, unit models.WeightUnit) {
	s := models.Summarize(w, unit)
	n.Broadcast(
		fmt.Sprintf("Workout logged: %s", w.Name),
		fmt.Sprintf("%s: %d exercises, %d sets, %.0f %s volume", models.DateOnly(w.Date), s.Exercises, s.Sets, s.Volume, s.Unit),
	)
}

// DataImported announces an import that replaced or extended the workout log.
func (n *Notifier) DataImported(count int, source string) {
	n.Broadcast("Data imported", fmt.Sprintf("%d workouts imported from %s", count, source))
}

// DataCleared announces that all workouts and settings were removed.
func (n *Notifier) DataCleared() {
	n.Broadcast("Data cleared", "All workouts and settings were deleted.")
}

// buildBody joins the title and optional message.
func buildBody(title, message string) string {
	if message == "" {
		return title
	}
	return title + "\n" + message
}

// parseURLs splits comma-or-newline separated entries and trims whitespace.
func parseURLs(entries []string) []string {
	var urls []string
	for _, e := range entries {
		for _, p := range strings.Split(strings.ReplaceAll(e, "\n", ","), ",") {
			if p = strings.TrimSpace(p); p != "" {
				urls = append(urls, p)
			}
		}
	}
	return urls
}

// maskURL masks credentials in a Shoutrrr URL for safe logging.
func maskURL(u string) string {
	if len(u) <= 5 {
		return "••••"
	}
	if len(u) <= 15 {
		return u[:5] + "••••"
	}
	return u[:15] + "••••"
}
