package app

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"iconforge/internal/config"
	"iconforge/internal/icon"
	"iconforge/internal/iconset"
	"iconforge/internal/logging"
	"iconforge/internal/runstatus"
)

// ForgeApp runs one generation pass: plan the output targets, render each
// size from the content source, and write the files. The run aborts on the
// first failed target; there is no per-item error isolation.
type ForgeApp struct {
	opts    config.Options
	profile config.Profile
	source  icon.Source
	logger  *logging.Logger
	hooks   Callbacks
	status  runStatusState
}

type TargetResult struct {
	Target iconset.Target
	Path   string
	Err    error
}

type Callbacks struct {
	OnPlan         func([]iconset.Target)
	OnTargetDone   func(TargetResult)
	OnStatusChange func(string)
}

func New(opts config.Options, profile config.Profile, source icon.Source, logger *logging.Logger, hooks Callbacks) *ForgeApp {
	if source == nil {
		panic("app.New: source must not be nil")
	}
	if logger == nil {
		panic("app.New: logger must not be nil")
	}
	return &ForgeApp{opts: opts, profile: profile, source: source, logger: logger, hooks: hooks}
}

func (a *ForgeApp) Run() error {
	return a.RunContext(context.Background())
}

func (a *ForgeApp) RunContext(ctx context.Context) error {
	a.logger.Info("icon generation starting",
		logging.Field("source", a.source.Describe()),
		logging.Field("out", a.opts.Out),
	)

	a.setRunStatus(runstatus.Planning)
	platforms, err := config.NormalizePlatforms(a.opts.Platforms)
	if err != nil {
		a.setRunStatus(runstatus.Failed)
		return err
	}
	plan, err := iconset.Plan(platforms, a.profile)
	if err != nil {
		a.setRunStatus(runstatus.Failed)
		return err
	}
	a.logger.Debug("output plan ready",
		logging.Field("platforms", strings.Join(platforms, ",")),
		logging.Field("targets", len(plan)),
	)
	a.notifyPlan(plan)

	a.setRunStatus(runstatus.Rendering)
	// iOS reuses a few pixel sizes across point-size entries (e.g. 120 for
	// both 40pt@3x and 60pt@2x); render each distinct size once.
	renders := map[int]image.Image{}
	for _, target := range plan {
		if ctx.Err() != nil {
			a.setRunStatus(runstatus.Failed)
			return ctx.Err()
		}
		img, ok := renders[target.Size]
		if !ok {
			img, err = a.source.Produce(target.Size)
			if err != nil {
				a.failTarget(target, err)
				return fmt.Errorf("render %s: %w", target.Name, err)
			}
			renders[target.Size] = img
		}
		path, writeErr := iconset.WriteTarget(a.opts.Out, target, img)
		if writeErr != nil {
			a.failTarget(target, writeErr)
			return writeErr
		}
		a.logger.Debug("wrote icon",
			logging.Field("platform", target.Platform),
			logging.Field("file", target.Name),
			logging.Field("size", target.Size),
		)
		a.notifyTarget(TargetResult{Target: target, Path: path})
	}

	for _, platform := range platforms {
		if platform != iconset.PlatformIOS {
			continue
		}
		manifestPath, manifestErr := iconset.WriteIOSManifest(a.opts.Out, a.profile.IOS)
		if manifestErr != nil {
			a.setRunStatus(runstatus.Failed)
			return manifestErr
		}
		a.logger.Debug("wrote appiconset manifest", logging.Field("path", manifestPath))
	}

	a.setRunStatus(runstatus.Complete)
	a.logger.Info("icon generation complete", logging.Field("files", len(plan)))
	return nil
}

func (a *ForgeApp) failTarget(target iconset.Target, err error) {
	a.setRunStatus(runstatus.Failed)
	a.logger.Error("icon generation failed",
		logging.Field("file", target.Name),
		logging.Field("error", err),
	)
	a.notifyTarget(TargetResult{Target: target, Err: err})
}

type runStatusState struct {
	mu      sync.Mutex
	current string
}

func (s *runStatusState) update(status string) (string, string, bool) {
	trimmed := strings.TrimSpace(status)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == trimmed {
		return s.current, trimmed, false
	}
	previous := s.current
	s.current = trimmed
	return previous, trimmed, true
}

func (a *ForgeApp) setRunStatus(status string) {
	previous, next, changed := a.status.update(status)
	if !changed {
		return
	}
	a.logger.Debug("run status transition",
		logging.Field("from", previous),
		logging.Field("to", next),
	)
	if a.hooks.OnStatusChange != nil {
		a.hooks.OnStatusChange(status)
	}
}

func (a *ForgeApp) notifyPlan(plan []iconset.Target) {
	if a.hooks.OnPlan == nil {
		return
	}
	copied := append([]iconset.Target(nil), plan...)
	a.hooks.OnPlan(copied)
}

func (a *ForgeApp) notifyTarget(result TargetResult) {
	if a.hooks.OnTargetDone == nil {
		return
	}
	a.hooks.OnTargetDone(result)
}
