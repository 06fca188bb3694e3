package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/state"
)

// StreamMode prints toggle-state changes as they happen
type StreamMode struct {
	paths   *config.Paths
	manager *state.Manager
	out     io.Writer
	color   bool
	logger  *slog.Logger
}

// NewStreamMode creates a new StreamMode writing to out
func NewStreamMode(paths *config.Paths, manager *state.Manager, out io.Writer, color bool, logger *slog.Logger) *StreamMode {
	return &StreamMode{
		paths:   paths,
		manager: manager,
		out:     out,
		color:   color,
		logger:  logger,
	}
}

// Run starts the stream mode and blocks until ctx is done
func (s *StreamMode) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Watching audio notifier state... (Ctrl+C to stop)")
	fmt.Fprintln(s.out, "---")

	eventCh := s.manager.Subscribe()
	defer s.manager.Unsubscribe(eventCh)

	followCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	followErr := make(chan error, 1)
	go func() {
		followErr <- Follow(followCtx, s.paths, s.manager, s.logger)
	}()

	s.printStatus(state.Event{Snapshot: s.manager.Get(), Type: "init"})

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, "Stopped.")
			return nil

		case err := <-followErr:
			return err

		case event, ok := <-eventCh:
			if !ok {
				return nil
			}
			s.printStatus(event)
		}
	}
}

func (s *StreamMode) printStatus(event state.Event) {
	snap := event.Snapshot
	ts := snap.UpdatedAt.Format("15:04:05")

	icon, sound := "🔇", "sounds off"
	if snap.SoundsEnabled {
		icon, sound = "🔊", "sounds on"
	}
	lifecycle := "not installed"
	switch {
	case snap.Installed:
		lifecycle = "installed"
	case snap.Uninstalled:
		lifecycle = "uninstalled"
	}

	source := event.Type
	if event.Path != "" {
		source = filepath.Base(event.Path)
	}

	// Format: icon [timestamp] sound lifecycle (source)
	if s.color {
		fmt.Fprintf(s.out, "%s \033[90m[%s]\033[0m %-10s \033[36m%-13s\033[0m \033[90m%s\033[0m\n",
			icon, ts, sound, lifecycle, source)
		return
	}
	fmt.Fprintf(s.out, "%s [%s] %-10s %-13s %s\n", icon, ts, sound, lifecycle, source)
}
