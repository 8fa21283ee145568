package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"

	"iconforge/internal/config"
	"iconforge/internal/icon"
	"iconforge/internal/logging"
	"iconforge/internal/runstatus"
)

const (
	defaultDebounce       = 400 * time.Millisecond
	regenRetryInitial     = 100 * time.Millisecond
	regenRetryMaxInterval = 1 * time.Second
	regenRetryMaxElapsed  = 5 * time.Second
)

// Watcher keeps regenerating the icon sets whenever the source logo file
// changes. Events are debounced because editors emit bursts of writes, and
// a decode of a half-written file is retried with exponential backoff.
type Watcher struct {
	opts       config.Options
	profile    config.Profile
	logger     *logging.Logger
	hooks      Callbacks
	sourcePath string
	debounce   time.Duration
}

func NewWatcher(opts config.Options, profile config.Profile, logger *logging.Logger, hooks Callbacks) *Watcher {
	if logger == nil {
		panic("app.NewWatcher: logger must not be nil")
	}
	return &Watcher{
		opts:       opts,
		profile:    profile,
		logger:     logger,
		hooks:      hooks,
		sourcePath: strings.TrimSpace(opts.Source),
		debounce:   defaultDebounce,
	}
}

func (w *Watcher) RunContext(ctx context.Context) error {
	if w.sourcePath == "" {
		return fmt.Errorf("watch mode requires a source logo")
	}
	watchDir := filepath.Dir(w.sourcePath)
	if info, err := os.Stat(watchDir); err != nil || !info.IsDir() {
		if err != nil {
			return fmt.Errorf("source directory is not accessible: %w", err)
		}
		return fmt.Errorf("source path parent is not a directory")
	}

	// The first pass keeps batch semantics: a broken source or unwritable
	// output aborts instead of silently entering the watch loop.
	if err := w.generate(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("failed to watch source directory %s: %w", watchDir, err)
	}
	w.logger.Info("watching source logo", logging.Field("path", w.sourcePath))
	w.notifyStatus(runstatus.Watching)

	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("stopping source watcher: context canceled")
			return nil
		case event := <-watcher.Events:
			if !w.matchesSource(event) {
				continue
			}
			w.logger.Debug("source logo changed",
				logging.Field("op", event.Op.String()),
				logging.Field("path", event.Name),
			)
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(w.debounce)
		case watchErr := <-watcher.Errors:
			if watchErr != nil {
				w.logger.Warn("source watcher error", logging.Field("error", watchErr))
			}
		case <-debounce.C:
			w.regenerate(ctx)
		}
	}
}

func (w *Watcher) matchesSource(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.sourcePath)
}

func (w *Watcher) generate(ctx context.Context) error {
	source, err := icon.OpenSource(w.sourcePath)
	if err != nil {
		return err
	}
	forge := New(w.opts, w.profile, source, w.logger, w.hooks)
	return forge.RunContext(ctx)
}

// regenerate retries decode failures because the editor that triggered the
// event may still be flushing the file; generation failures past decode are
// permanent for this round. A failed round leaves the watcher running.
func (w *Watcher) regenerate(ctx context.Context) {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = regenRetryInitial
	retry.MaxInterval = regenRetryMaxInterval
	retry.Reset()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		source, openErr := icon.OpenSource(w.sourcePath)
		if openErr != nil {
			return struct{}{}, openErr
		}
		forge := New(w.opts, w.profile, source, w.logger, w.hooks)
		if runErr := forge.RunContext(ctx); runErr != nil {
			return struct{}{}, backoff.Permanent(runErr)
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(retry),
		backoff.WithMaxElapsedTime(regenRetryMaxElapsed),
		backoff.WithNotify(func(retryErr error, next time.Duration) {
			w.logger.Debug("retrying source decode",
				logging.Field("error", retryErr),
				logging.Field("next_retry", next.String()),
			)
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Warn("regeneration failed, still watching", logging.Field("error", err))
	}
	w.notifyStatus(runstatus.Watching)
}

func (w *Watcher) notifyStatus(status string) {
	if w.hooks.OnStatusChange != nil {
		w.hooks.OnStatusChange(status)
	}
}
