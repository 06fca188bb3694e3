package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/state"
	"github.com/cwveysey/coding-agent-notifications/internal/watcher"
)

// StateFiles are the names under the state directory whose changes refresh
// the toggle state
func StateFiles(paths *config.Paths) []string {
	return []string{
		filepath.Base(paths.SoundsEnabledFile()),
		filepath.Base(paths.UninstalledFile()),
		filepath.Base(paths.ManifestFile()),
		filepath.Base(paths.ConfigFile()),
		filepath.Base(paths.SettingsFile()),
	}
}

// Follow feeds file changes under the state directory into manager until
// ctx is done
func Follow(ctx context.Context, paths *config.Paths, manager *state.Manager, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w, err := watcher.New(paths.ClaudeDir(), StateFiles(paths)...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	configName := filepath.Base(paths.ConfigFile())
	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-w.Events():
			logger.Debug("state file changed", slog.String("path", event.Path), slog.String("op", event.Op))
			if event.Name == configName {
				manager.ConfigChanged(event.Path)
				continue
			}
			manager.Refresh(event.Path)

		case err := <-w.Errors():
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
