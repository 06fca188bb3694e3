package platform

import (
	"context"
	"runtime"
	"strings"
)

// FocusSettingsScript opens the Focus pane of System Settings
const FocusSettingsScript = `tell application "System Settings"
	activate
	delay 0.5
	reveal pane id "com.apple.Focus-Settings.extension"
end tell`

// AudioPlayer plays a sound file without waiting for it to finish
type AudioPlayer interface {
	Play(path string) error
}

// SystemIntegration covers the operating system features the front-end
// exposes
type SystemIntegration interface {
	// Open opens path with its default application
	Open(path string) error
	// OpenFocusSettings shows the Do Not Disturb / Focus preferences
	OpenFocusSettings() error
	// OSVersion returns the operating system product version
	OSVersion(ctx context.Context) (string, error)
	// HasCommand reports whether name is on PATH
	HasCommand(name string) bool
}

// Detect returns the implementations for the running operating system
func Detect(runner Runner) (AudioPlayer, SystemIntegration) {
	return ForOS(runtime.GOOS, runner)
}

// ForOS returns the implementations for goos. Everything except macOS gets
// implementations that fail with an external tool error.
func ForOS(goos string, runner Runner) (AudioPlayer, SystemIntegration) {
	if goos == "darwin" {
		return &Afplay{runner: runner}, &MacSystem{runner: runner}
	}
	u := &Unsupported{goos: goos, runner: runner}
	return u, u
}

// Afplay plays sounds with /usr/bin/afplay
type Afplay struct {
	runner Runner
}

// Play launches afplay on path
func (a *Afplay) Play(path string) error {
	return a.runner.Start("afplay", path)
}

// MacSystem integrates with macOS through open, osascript and sw_vers
type MacSystem struct {
	runner Runner
}

// Open launches open on path
func (m *MacSystem) Open(path string) error {
	return m.runner.Start("open", path)
}

// OpenFocusSettings runs the AppleScript revealing the Focus pane
func (m *MacSystem) OpenFocusSettings() error {
	return m.runner.Start("osascript", "-e", FocusSettingsScript)
}

// OSVersion runs sw_vers -productVersion
func (m *MacSystem) OSVersion(ctx context.Context) (string, error) {
	out, err := m.runner.Output(ctx, "sw_vers", "-productVersion")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// HasCommand looks name up on PATH
func (m *MacSystem) HasCommand(name string) bool {
	_, err := m.runner.LookPath(name)
	return err == nil
}

// Unsupported stands in on operating systems without the macOS tools
type Unsupported struct {
	goos   string
	runner Runner
}

// Play always fails
func (u *Unsupported) Play(string) error { return unsupported(u.goos, "sound playback") }

// Open always fails
func (u *Unsupported) Open(string) error { return unsupported(u.goos, "opening files") }

// OpenFocusSettings always fails
func (u *Unsupported) OpenFocusSettings() error { return unsupported(u.goos, "Focus settings") }

// OSVersion always fails
func (u *Unsupported) OSVersion(context.Context) (string, error) {
	return "", unsupported(u.goos, "OS version lookup")
}

// HasCommand looks name up on PATH
func (u *Unsupported) HasCommand(name string) bool {
	if u.runner == nil {
		return false
	}
	_, err := u.runner.LookPath(name)
	return err == nil
}
