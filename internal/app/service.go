// Package app exposes one method per front-end command. The CLI and the
// HTTP command API are thin adapters over Service.
package app

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/cwveysey/coding-agent-notifications/internal/activity"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/installer"
	"github.com/cwveysey/coding-agent-notifications/internal/notifier"
	"github.com/cwveysey/coding-agent-notifications/internal/platform"
	"github.com/cwveysey/coding-agent-notifications/internal/sounds"
	"github.com/cwveysey/coding-agent-notifications/internal/state"
	"github.com/cwveysey/coding-agent-notifications/internal/voice"
)

// Notifier shows desktop notifications for lifecycle events
type Notifier interface {
	NotifyInstalled() error
	NotifyUninstalled() error
	NotifyTest(message string) error
}

// Deps are the collaborators of a Service. Zero fields get the production
// implementation for the running OS.
type Deps struct {
	Paths    *config.Paths
	Runner   platform.Runner
	Player   platform.AudioPlayer
	System   platform.SystemIntegration
	TTS      voice.Synthesizer
	Notifier Notifier
	Logger   *slog.Logger
	Version  string
	Clock    func() time.Time

	// VoiceOptions are passed to the voice service
	VoiceOptions []voice.Option
}

// Service implements the front-end commands
type Service struct {
	paths       *config.Paths
	configs     *config.Store
	installer   *installer.Installer
	voices      *voice.Service
	sounds      *sounds.Library
	diagnostics *activity.Collector
	state       *state.Manager
	notifier    Notifier
	player      platform.AudioPlayer
	system      platform.SystemIntegration
	logger      *slog.Logger
	version     string
}

// New wires a Service
func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := deps.Version
	if version == "" {
		version = installer.DefaultVersion
	}
	runner := deps.Runner
	if runner == nil {
		runner = platform.NewExecRunner(logger)
	}

	player, system := deps.Player, deps.System
	if player == nil || system == nil {
		detectedPlayer, detectedSystem := platform.Detect(runner)
		if player == nil {
			player = detectedPlayer
		}
		if system == nil {
			system = detectedSystem
		}
	}

	tts := deps.TTS
	if tts == nil {
		tts = voice.NewSystem(runner, runtime.GOOS)
	}

	n := deps.Notifier
	if n == nil {
		n = notifier.New()
	}

	installOpts := []installer.Option{
		installer.WithLogger(logger.With(slog.String("component", "installer"))),
		installer.WithVersion(version),
	}
	if deps.Clock != nil {
		installOpts = append(installOpts, installer.WithClock(deps.Clock))
	}

	voiceOpts := append([]voice.Option{
		voice.WithLogger(logger.With(slog.String("component", "voice"))),
	}, deps.VoiceOptions...)

	return &Service{
		paths:       deps.Paths,
		configs:     config.NewStore(deps.Paths.ConfigFile(), logger.With(slog.String("component", "config"))),
		installer:   installer.New(deps.Paths, installOpts...),
		voices:      voice.NewService(deps.Paths, player, tts, voiceOpts...),
		sounds:      sounds.NewLibrary(deps.Paths.SoundsDir(), logger.With(slog.String("component", "sounds"))),
		diagnostics: activity.NewCollector(deps.Paths, system, version),
		state:       state.NewManager(deps.Paths),
		notifier:    n,
		player:      player,
		system:      system,
		logger:      logger,
		version:     version,
	}
}

// Paths returns the resolved file locations
func (s *Service) Paths() *config.Paths {
	return s.paths
}

// Version returns the application version
func (s *Service) Version() string {
	return s.version
}

// StateManager returns the toggle-state manager shared with watchers
func (s *Service) StateManager() *state.Manager {
	return s.state
}

// State returns the current toggle snapshot
func (s *Service) State() state.Snapshot {
	return s.state.Get()
}

// InstallState reports the lifecycle state found on disk
func (s *Service) InstallState() installer.State {
	return s.installer.State()
}

// DiagnosticsReport collects the structured diagnostics report
func (s *Service) DiagnosticsReport(ctx context.Context) *activity.Report {
	return s.diagnostics.Collect(ctx)
}
