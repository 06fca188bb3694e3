package activity

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/hooks"
	"github.com/cwveysey/coding-agent-notifications/internal/jsontree"
	"github.com/cwveysey/coding-agent-notifications/internal/platform"
)

const (
	diagnosticActivityCount = 10
	diagnosticLogLines      = 50
	redacted                = "[REDACTED]"
)

// Report is the diagnostics bundle users attach to bug reports
type Report struct {
	AppVersion       string             `json:"app_version"`
	CollectedAt      string             `json:"collected_at"`
	MacOSVersion     string             `json:"macos_version,omitempty"`
	ScriptsInstalled ScriptStatus       `json:"scripts_installed"`
	TerminalNotifier HelperStatus       `json:"terminal_notifier"`
	HooksConfigured  *jsontree.Object   `json:"hooks_configured,omitempty"`
	HookCheck        *hooks.CheckResult `json:"hook_check,omitempty"`
	RecentActivity   []json.RawMessage  `json:"recent_activity,omitempty"`
	HookExecutionLog []string           `json:"hook_execution_log,omitempty"`
	ConfigYAML       *string            `json:"config_yaml,omitempty"`
}

// ScriptStatus reports on the installed hook script
type ScriptStatus struct {
	SmartNotifyExists     bool `json:"smart_notify_exists"`
	SmartNotifyExecutable bool `json:"smart_notify_executable"`
}

// HelperStatus reports where terminal-notifier can be found
type HelperStatus struct {
	SystemInstalled bool `json:"system_installed"`
	BundledExists   bool `json:"bundled_exists"`
}

// Collector gathers a Report. Each section is best effort: a source that is
// missing or unreadable leaves its section out.
type Collector struct {
	paths   *config.Paths
	system  platform.SystemIntegration
	version string
	now     func() time.Time
}

// NewCollector creates a collector reporting version as the app version
func NewCollector(paths *config.Paths, system platform.SystemIntegration, version string) *Collector {
	return &Collector{paths: paths, system: system, version: version, now: time.Now}
}

// Collect builds the report
func (c *Collector) Collect(ctx context.Context) *Report {
	r := &Report{
		AppVersion:  c.version,
		CollectedAt: c.now().UTC().Format(time.RFC3339),
	}

	if v, err := c.system.OSVersion(ctx); err == nil {
		r.MacOSVersion = strings.TrimSpace(v)
	}

	if info, err := os.Stat(c.paths.MarkerScriptFile()); err == nil {
		r.ScriptsInstalled.SmartNotifyExists = true
		r.ScriptsInstalled.SmartNotifyExecutable = info.Mode()&0o111 != 0
	}

	r.TerminalNotifier.SystemInstalled = c.system.HasCommand("terminal-notifier")
	if _, err := os.Stat(c.paths.HelperBinary()); err == nil {
		r.TerminalNotifier.BundledExists = true
	}

	if doc, exists, err := hooks.LoadSettings(c.paths.SettingsFile()); err == nil && exists {
		if h, err := hooks.ExistingHooks(doc); err == nil {
			r.HooksConfigured = h
		}
	}
	if check, err := hooks.Inspect(c.paths); err == nil {
		r.HookCheck = check
	}

	r.RecentActivity = recentActivity(c.paths.ActivityLog())

	if lines, err := TailLines(c.paths.HookExecutionLog(), diagnosticLogLines); err == nil && len(lines) > 0 {
		r.HookExecutionLog = lines
	}

	if data, err := os.ReadFile(c.paths.ConfigFile()); err == nil {
		sanitized := Sanitize(string(data))
		r.ConfigYAML = &sanitized
	}

	return r
}

// JSON renders the report with two-space indentation
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", apperr.Wrap(apperr.ErrIO, "diagnostics", "failed to serialize diagnostics", err)
	}
	return string(data), nil
}

// recentActivity keeps the raw entries so fields the hook script adds later
// still show up
func recentActivity(path string) []json.RawMessage {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var events []json.RawMessage
	if err := json.Unmarshal(data, &events); err != nil {
		return nil
	}

	out := make([]json.RawMessage, 0, diagnosticActivityCount)
	for i := len(events) - 1; i >= 0 && len(out) < diagnosticActivityCount; i-- {
		out = append(out, events[i])
	}
	return out
}

// Sanitize replaces the value of every line holding an API key
func Sanitize(yamlText string) string {
	lines := strings.Split(yamlText, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "api_key:") {
			continue
		}
		if pos := strings.Index(line, ":"); pos >= 0 {
			lines[i] = line[:pos] + ":  " + redacted
		}
	}
	return strings.Join(lines, "\n")
}
