package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"iconforge/internal/app"
	"iconforge/internal/config"
	"iconforge/internal/icon"
	"iconforge/internal/iconset"
	"iconforge/internal/logging"
)

// Controller owns the lifecycle of one generation service, either a single
// batch run or a watch loop, running in its own goroutine.
type Controller struct {
	rootCtx context.Context
	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

type StartHooks struct {
	OnPlan   func([]iconset.Target)
	OnTarget func(app.TargetResult)
	OnStatus func(string)
	OnExit   func(error)
}

func NewController(rootCtx context.Context) *Controller {
	if rootCtx == nil {
		rootCtx = context.Background()
	}
	return &Controller{rootCtx: rootCtx}
}

func (c *Controller) Start(opts config.Options, logger *logging.Logger, hooks StartHooks) error {
	if logger == nil {
		panic("runtime.Controller.Start: logger must not be nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("generation is already running")
	}
	if err := config.ValidateRequired(opts); err != nil {
		return err
	}
	logger.Debug("runtime start requested",
		logging.Field("source", opts.Source),
		logging.Field("out", opts.Out),
		logging.Field("watch", opts.Watch),
	)

	service, err := newService(opts, logger, hooks)
	if err != nil {
		return err
	}

	parent := c.rootCtx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	c.cancel = cancel
	c.running = true
	c.wg.Go(func() {
		defer cancel()
		runErr := service(ctx)
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			logger.Debug("generation service exited due to context cancellation", logging.Field("error", runErr))
		} else if runErr != nil {
			logger.Warn("generation service exited with error", logging.Field("error", runErr))
		} else {
			logger.Debug("generation service exited")
		}
		c.mu.Lock()
		c.running = false
		c.cancel = nil
		c.mu.Unlock()

		if hooks.OnExit != nil {
			hooks.OnExit(runErr)
		}
	})

	return nil
}

func newService(opts config.Options, logger *logging.Logger, hooks StartHooks) (func(context.Context) error, error) {
	profile, err := config.LoadProfile(opts.Profile)
	if err != nil {
		return nil, err
	}
	callbacks := app.Callbacks{
		OnPlan:         hooks.OnPlan,
		OnTargetDone:   hooks.OnTarget,
		OnStatusChange: hooks.OnStatus,
	}

	if opts.Watch {
		watcher := app.NewWatcher(opts, profile, logger, callbacks)
		return watcher.RunContext, nil
	}

	sourcePath := opts.Source
	if opts.Emblem {
		sourcePath = ""
	}
	source, err := icon.OpenSource(sourcePath)
	if err != nil {
		return nil, err
	}
	forge := app.New(opts, profile, source, logger, callbacks)
	return forge.RunContext, nil
}

func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) Wait(timeout time.Duration) bool {
	waitDone := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(waitDone)
	}()
	if timeout <= 0 {
		<-waitDone
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-waitDone:
		return true
	case <-timer.C:
		return false
	}
}

func (c *Controller) StopAndWait(timeout time.Duration) bool {
	c.Stop()
	return c.Wait(timeout)
}

func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
