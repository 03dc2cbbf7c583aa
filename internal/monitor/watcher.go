// Package monitor implements the background watcher that follows the host
// application's process from start to exit.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// WatcherConfig holds process watcher configuration.
type WatcherConfig struct {
	ProcessName       string        // process to follow, e.g. VNGame.exe
	StartPollInterval time.Duration // how often to look for the process to appear
	ExitPollInterval  time.Duration // how often to check it is still alive
}

// DefaultWatcherConfig returns default watcher configuration.
func DefaultWatcherConfig(processName string) WatcherConfig {
	return WatcherConfig{
		ProcessName:       processName,
		StartPollInterval: 1 * time.Second,
		ExitPollInterval:  3 * time.Second,
	}
}

// ProcessWatcher polls the process table on its own goroutine and hands
// exactly one Completion to the controller. Its state is never shared:
// the controller only sees the completion value.
type ProcessWatcher struct {
	config         WatcherConfig
	processManager domain.ProcessManager
	logger         *zap.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan domain.Completion
}

// NewProcessWatcher creates a watcher. Nothing runs until Start.
func NewProcessWatcher(config WatcherConfig, pm domain.ProcessManager, logger *zap.Logger) *ProcessWatcher {
	return &ProcessWatcher{
		config:         config,
		processManager: pm,
		logger:         logger,
		stop:           make(chan struct{}),
		done:           make(chan domain.Completion, 1),
	}
}

// Start launches the poll loop and returns the completion channel. The
// channel receives one value and is then closed. Calling Start again
// returns the same channel.
func (w *ProcessWatcher) Start(ctx context.Context) <-chan domain.Completion {
	w.startOnce.Do(func() {
		go w.run(ctx)
	})
	return w.done
}

// Stop asks the watcher to leave its poll loop. Safe to call many times
// and from any goroutine; a completion is still emitted.
func (w *ProcessWatcher) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("process watcher: stop requested")
		close(w.stop)
	})
}

func (w *ProcessWatcher) run(ctx context.Context) {
	state := domain.StateNotStarted
	var transitions []domain.Transition
	cancelled := false

	defer func() {
		w.done <- domain.Completion{
			Final:       state,
			Transitions: transitions,
			Cancelled:   cancelled,
		}
		close(w.done)
	}()

	name := w.config.ProcessName
	w.logger.Info("process watcher: waiting for process to start", zap.String("process", name))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			cancelled = true
		case <-w.stop:
			cancelled = true
		case <-timer.C:
		}
		if cancelled {
			w.logger.Info("process watcher: cancelled", zap.String("state", string(state)))
			return
		}

		next := w.observe(state)
		if next != state && state.CanTransition(next) {
			transitions = append(transitions, domain.Transition{From: state, To: next, At: time.Now()})
			state = next
			switch state {
			case domain.StateRunning:
				w.logger.Info("process watcher: process started", zap.String("process", name))
				w.logger.Info("process watcher: waiting for process to finish", zap.String("process", name))
			case domain.StateExited:
				w.logger.Info("process watcher: process finished", zap.String("process", name))
				return
			}
		}

		interval := w.config.StartPollInterval
		if state == domain.StateRunning {
			interval = w.config.ExitPollInterval
		}
		timer.Reset(interval)
	}
}

// observe polls the process table once and returns the implied state.
// Lookup errors keep the current state.
func (w *ProcessWatcher) observe(state domain.ProcessState) domain.ProcessState {
	alive, err := w.processManager.IsRunningByName(w.config.ProcessName)
	if err != nil {
		w.logger.Warn("process watcher: process table lookup failed", zap.Error(err))
		return state
	}
	switch {
	case state == domain.StateNotStarted && alive:
		return domain.StateRunning
	case state == domain.StateRunning && !alive:
		return domain.StateExited
	default:
		return state
	}
}
