package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// ResourcesEnv overrides the bundled resources directory
const ResourcesEnv = "AUDIO_NOTIFIER_RESOURCES"

// MarkerScript is the hook script every managed hook command invokes
const MarkerScript = "smart-notify.sh"

// Paths supplies every fixed location the command layer touches.
// It is built once at startup and passed to each component, so tests can
// point it at a temporary root.
type Paths struct {
	Home      string
	Resources string
}

// NewPaths creates a resolver rooted at home with bundled resources at resourceDir
func NewPaths(home, resourceDir string) *Paths {
	return &Paths{Home: home, Resources: resourceDir}
}

// DefaultPaths resolves the user's home directory and the resources
// directory: the explicit value, then $AUDIO_NOTIFIER_RESOURCES, then
// <executable dir>/resources.
func DefaultPaths(home, resourceDir string) (*Paths, error) {
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		home = h
	}
	if resourceDir == "" {
		resourceDir = os.Getenv(ResourcesEnv)
	}
	if resourceDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable path: %w", err)
		}
		resourceDir = filepath.Join(filepath.Dir(exe), "resources")
	}
	return NewPaths(home, resourceDir), nil
}

// ClaudeDir returns the per-user state directory
func (p *Paths) ClaudeDir() string {
	return filepath.Join(p.Home, ".claude")
}

func (p *Paths) claude(elem ...string) string {
	return filepath.Join(append([]string{p.ClaudeDir()}, elem...)...)
}

// SettingsFile returns the host tool's shared settings document
func (p *Paths) SettingsFile() string { return p.claude("settings.json") }

// ConfigFile returns the YAML configuration
func (p *Paths) ConfigFile() string { return p.claude("audio-notifier.yaml") }

// ManifestFile returns the installation manifest
func (p *Paths) ManifestFile() string { return p.claude("audio-notifier-install.json") }

// BackupsDir returns the settings backup directory
func (p *Paths) BackupsDir() string { return p.claude("backups") }

// ScriptsDir returns the installed scripts directory
func (p *Paths) ScriptsDir() string { return p.claude("scripts") }

// MarkerScriptFile returns the installed hook script
func (p *Paths) MarkerScriptFile() string { return filepath.Join(p.ScriptsDir(), MarkerScript) }

// VoicesDir returns the root of all generated and bundled voice files
func (p *Paths) VoicesDir() string { return p.claude("voices") }

// GlobalVoicesDir returns the voices used in global mode
func (p *Paths) GlobalVoicesDir() string { return filepath.Join(p.VoicesDir(), "global") }

// PreviewsDir returns the cache of previewed texts
func (p *Paths) PreviewsDir() string { return filepath.Join(p.VoicesDir(), "previews") }

// ProjectVoicesDir returns the voices of a single project, keyed by the
// SHA-256 of its path
func (p *Paths) ProjectVoicesDir(projectPath string) string {
	return filepath.Join(p.VoicesDir(), "projects", HashHex(projectPath))
}

// SoundsDir returns the custom sound library
func (p *Paths) SoundsDir() string { return p.claude("sounds") }

// SoundsEnabledFile returns the sentinel that turns sounds on
func (p *Paths) SoundsEnabledFile() string { return p.claude(".sounds-enabled") }

// UninstalledFile returns the sentinel written by uninstall
func (p *Paths) UninstalledFile() string { return p.claude(".uninstalled") }

// HelperAppDir returns the installed terminal-notifier bundle
func (p *Paths) HelperAppDir() string { return p.claude("terminal-notifier.app") }

// HelperBinary returns the executable inside the installed helper bundle
func (p *Paths) HelperBinary() string {
	return filepath.Join(p.HelperAppDir(), "Contents", "MacOS", "terminal-notifier")
}

// StopInputLog returns the raw Stop hook payload log
func (p *Paths) StopInputLog() string { return p.claude("stop-input.jsonl") }

// OutputLog returns the hook script's captured output
func (p *Paths) OutputLog() string { return p.claude("claude-output.log") }

// DebugLog returns the hook script's debug log
func (p *Paths) DebugLog() string { return p.claude("smart-notify-debug.log") }

// ActivityLog returns the activity event log written by the hook script
func (p *Paths) ActivityLog() string { return p.claude("activity-log.json") }

// HookExecutionLog returns the hook execution trace
func (p *Paths) HookExecutionLog() string { return p.claude("hook-execution.log") }

// BundledScriptsDir returns the scripts shipped with the application
func (p *Paths) BundledScriptsDir() string { return filepath.Join(p.Resources, "scripts") }

// BundledVoicesDir returns the voice previews shipped with the application
func (p *Paths) BundledVoicesDir() string { return filepath.Join(p.Resources, "voices") }

// BundledHelperApp returns the helper bundle shipped with the application
func (p *Paths) BundledHelperApp() string {
	return filepath.Join(p.Resources, "terminal-notifier", "terminal-notifier.app")
}

// HashHex returns the lowercase hex SHA-256 of s
func HashHex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
