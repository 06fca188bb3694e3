package hooks

import "github.com/cwveysey/coding-agent-notifications/internal/config"

// Marker is the substring that identifies a hook action as ours. Any group
// holding an action whose command contains it is treated as managed by this
// tool, so a user command that happens to mention the script name would be
// claimed as well.
const Marker = config.MarkerScript

// HooksKey is the settings document key holding the hook mapping
const HooksKey = "hooks"

// HookGroup is a matcher-scoped batch of hook actions
type HookGroup struct {
	Matcher string
	Hooks   []HookAction
}

// HookAction is a single command registered for a hook type
type HookAction struct {
	Type    string
	Command string
}

// CheckResult describes how much of the managed hook set is in place
type CheckResult struct {
	Installed        bool     `json:"installed"`
	SettingsPath     string   `json:"settings_path"`
	ScriptPath       string   `json:"script_path"`
	ScriptExists     bool     `json:"script_exists"`
	ScriptExecutable bool     `json:"script_executable"`
	ConfiguredEvents []string `json:"configured_events"`
	MissingEvents    []string `json:"missing_events"`
}
