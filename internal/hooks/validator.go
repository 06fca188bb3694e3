package hooks

import (
	"fmt"
	"os"

	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/jsontree"
)

// Inspect reports which managed hook types carry our groups and whether the
// hook script is in place.
func Inspect(paths *config.Paths) (*CheckResult, error) {
	result := &CheckResult{
		SettingsPath: paths.SettingsFile(),
		ScriptPath:   paths.MarkerScriptFile(),
	}

	if info, err := os.Stat(result.ScriptPath); err == nil {
		result.ScriptExists = true
		result.ScriptExecutable = info.Mode()&0o111 != 0
	}

	doc, exists, err := LoadSettings(result.SettingsPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		result.MissingEvents = config.HookTypes()
		return result, nil
	}

	inspectDocument(doc, result)
	return result, nil
}

func inspectDocument(doc *jsontree.Object, result *CheckResult) {
	result.Installed = HasOwnHooks(doc)
	for _, hookType := range config.HookTypes() {
		if hasOwnHookForEvent(doc, hookType) {
			result.ConfiguredEvents = append(result.ConfiguredEvents, hookType)
		} else {
			result.MissingEvents = append(result.MissingEvents, hookType)
		}
	}
}

// Problems lists what stands between the current state and a working
// installation. An empty list means every managed hook is configured and the
// script is executable.
func (r *CheckResult) Problems() []error {
	var problems []error
	if !r.Installed {
		problems = append(problems, fmt.Errorf("settings: no audio notifier hooks found in %s", r.SettingsPath))
	}
	for _, event := range r.MissingEvents {
		problems = append(problems, fmt.Errorf("settings: missing hook for event %s", event))
	}
	switch {
	case !r.ScriptExists:
		problems = append(problems, fmt.Errorf("script: %s does not exist", r.ScriptPath))
	case !r.ScriptExecutable:
		problems = append(problems, fmt.Errorf("script: %s is not executable", r.ScriptPath))
	}
	return problems
}
