package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

// Reloader serves the latest Assembly and rebuilds it when definitions or
// templates change. A failed rebuild keeps the previous generation serving.
type Reloader struct {
	app      *App
	current  atomic.Pointer[Assembly]
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	stamps map[string]time.Time
}

// NewReloader builds the first generation.
func NewReloader(app *App, interval time.Duration) (*Reloader, error) {
	r := &Reloader{app: app, interval: interval, logger: app.Logger}
	asm, err := app.Build()
	if err != nil {
		return nil, err
	}
	r.current.Store(asm)
	r.stamps = r.scan()
	return r, nil
}

func (r *Reloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.current.Load().Handler.ServeHTTP(w, req)
}

// Current returns the generation being served.
func (r *Reloader) Current() *Assembly {
	return r.current.Load()
}

// Run polls for changes until ctx is cancelled, then closes the last generation.
func (r *Reloader) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return r.current.Load().Close()
		case <-ticker.C:
			r.Check()
		}
	}
}

// Check rebuilds once if any watched file changed. It reports whether a new generation is served.
func (r *Reloader) Check() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	stamps := r.scan()
	if equalStamps(stamps, r.stamps) {
		return false
	}
	r.stamps = stamps

	asm, err := r.app.Build()
	if err != nil {
		r.logger.Error("reload failed, keeping previous version", "error", err)
		return false
	}
	old := r.current.Swap(asm)
	if err := old.Close(); err != nil {
		r.logger.Warn("failed to close previous generation", "error", err)
	}
	r.logger.Info("reloaded", "controllers", len(asm.Controllers))
	return true
}

// scan records the modification time of every definition and template file.
func (r *Reloader) scan() map[string]time.Time {
	stamps := make(map[string]time.Time)
	fsys := r.app.Fs
	for _, p := range r.app.Config.Definitions {
		if info, err := fsys.Stat(p); err == nil {
			stamps[p] = info.ModTime()
		}
	}
	if dir := r.app.Config.Templates; dir != "" {
		_ = afero.Walk(fsys, path.Clean(dir), func(p string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				stamps[p] = info.ModTime()
			}
			return nil
		})
	}
	return stamps
}

func equalStamps(a, b map[string]time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || !w.Equal(v) {
			return false
		}
	}
	return true
}
