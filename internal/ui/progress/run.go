package progress

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"iconforge/internal/app"
	"iconforge/internal/config"
	"iconforge/internal/iconset"
	"iconforge/internal/logging"
	"iconforge/internal/runtime"
)

const (
	planChannelBufferSize   = 2
	resultChannelBufferSize = 64
	statusChannelBufferSize = 16
	logChannelBufferSize    = 256
	stopGracePeriod         = 5 * time.Second
)

type modelChannels struct {
	planCh   chan []iconset.Target
	resultCh chan app.TargetResult
	statusCh chan string
	logCh    chan string
	exitCh   chan error
}

// Run drives a generation through the terminal progress UI and returns the
// process exit code. Log events are diverted from the terminal into the
// UI's log tail while the program is on screen.
func Run(rootCtx context.Context, buildVersion string, opts config.Options, logger *logging.Logger) int {
	runCtx, runCancel := context.WithCancel(rootCtx)
	defer runCancel()

	channels := modelChannels{
		planCh:   make(chan []iconset.Target, planChannelBufferSize),
		resultCh: make(chan app.TargetResult, resultChannelBufferSize),
		statusCh: make(chan string, statusChannelBufferSize),
		logCh:    make(chan string, logChannelBufferSize),
		exitCh:   make(chan error, 1),
	}

	controller := runtime.NewController(runCtx)
	model := newModel(runCtx, logger, buildVersion, opts.Watch, channels, func() {
		controller.Stop()
		runCancel()
	})

	logger.SetTerminalOutputEnabled(false)
	unsubscribe := logger.Subscribe(func(event logging.Event) {
		line := logging.FormatEventANSI(event)
		select {
		case channels.logCh <- line:
		default:
			select {
			case <-channels.logCh:
			default:
			}
			channels.logCh <- line
		}
	})
	defer func() {
		unsubscribe()
		logger.SetTerminalOutputEnabled(true)
	}()

	startErr := controller.Start(opts, logger, runtime.StartHooks{
		OnPlan: func(plan []iconset.Target) {
			select {
			case channels.planCh <- plan:
			default:
			}
		},
		OnTarget: func(result app.TargetResult) {
			select {
			case channels.resultCh <- result:
			default:
			}
		},
		OnStatus: func(status string) {
			select {
			case channels.statusCh <- status:
			default:
			}
		},
		OnExit: func(err error) {
			channels.exitCh <- err
		},
	})
	if startErr != nil {
		fmt.Fprintln(os.Stderr, startErr)
		return 2
	}

	program := tea.NewProgram(model, tea.WithContext(runCtx))
	result, programErr := program.Run()
	controller.StopAndWait(stopGracePeriod)

	if programErr != nil && runCtx.Err() == nil {
		fmt.Fprintln(os.Stderr, programErr)
		return 1
	}
	if final, ok := result.(*progressModel); ok && final.runErr != nil {
		return 1
	}
	return 0
}
