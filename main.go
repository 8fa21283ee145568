package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/muesli/termenv"

	"iconforge/internal/config"
	"iconforge/internal/logging"
	"iconforge/internal/runtime"
	"iconforge/internal/ui/progress"
)

var BuildVersion = "dev"

const shutdownGracePeriod = 5 * time.Second

func main() {
	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	opts, err := config.ParseOptions()
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lock, lockedByOther, lockErr := acquireInstanceLock()
	if lockErr != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize single-instance lock:", lockErr)
		os.Exit(2)
	}
	if lockedByOther {
		fmt.Fprintln(os.Stderr, "iconforge is already running.")
		os.Exit(1)
	}
	defer func() {
		_ = lock.Release()
	}()

	if saved, loadErr := config.LoadSettings(); loadErr == nil {
		opts = config.MergeOptionsWithSettings(opts, saved)
	}

	logger := logging.New(opts.Debug)
	if persistErr := logger.EnableFilePersistence(opts.LogFileMax); persistErr != nil {
		logger.Warn("failed to enable file log persistence", logging.Field("error", persistErr))
	}
	defer func() {
		_ = logger.Close()
	}()

	if validateErr := config.ValidateRequired(opts); validateErr != nil {
		fmt.Fprintln(os.Stderr, validateErr)
		os.Exit(2)
	}

	if saveErr := config.SaveSettings(config.SettingsFromOptions(opts)); saveErr != nil {
		logger.Debug("failed to persist settings", logging.Field("error", saveErr))
	}

	var code int
	if opts.NoUI || !interactiveTerminal() {
		code = runPlain(rootCtx, BuildVersion, opts, logger)
	} else {
		code = progress.Run(rootCtx, BuildVersion, opts, logger)
	}

	_ = logger.Close()
	_ = lock.Release()
	os.Exit(code)
}

func interactiveTerminal() bool {
	return termenv.NewOutput(os.Stdout).ColorProfile() != termenv.Ascii
}

func runPlain(rootCtx context.Context, buildVersion string, opts config.Options, logger *logging.Logger) int {
	logger.Info("starting iconforge", logging.Field("version", buildVersion))

	controller := runtime.NewController(rootCtx)
	exitCh := make(chan error, 1)
	startErr := controller.Start(opts, logger, runtime.StartHooks{
		OnExit: func(err error) {
			exitCh <- err
		},
	})
	if startErr != nil {
		fmt.Fprintln(os.Stderr, startErr)
		return 2
	}

	var runErr error
	select {
	case <-rootCtx.Done():
		controller.StopAndWait(shutdownGracePeriod)
		select {
		case runErr = <-exitCh:
		default:
		}
	case runErr = <-exitCh:
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return 1
	}
	return 0
}
