package config

// Event describes one managed hook type
type Event struct {
	// HookType is the key under "hooks" in the settings document
	HookType string
	// Key is the argument passed to the hook script and the YAML field name
	Key string
	// Spoken is the text substituted for {event} in voice templates
	Spoken string
}

// Events lists the managed hook types in canonical order
var Events = []Event{
	{HookType: "Notification", Key: "notification", Spoken: "notification"},
	{HookType: "Stop", Key: "stop", Spoken: "stop"},
	{HookType: "PreToolUse", Key: "pre_tool_use", Spoken: "pre tool use"},
	{HookType: "PostToolUse", Key: "post_tool_use", Spoken: "post tool use"},
	{HookType: "SubagentStop", Key: "subagent_stop", Spoken: "subagent stop"},
}

// HookTypes returns the managed hook type names in canonical order
func HookTypes() []string {
	out := make([]string, len(Events))
	for i, e := range Events {
		out[i] = e.HookType
	}
	return out
}

// IsManagedHookType reports whether name is one of the managed hook types
func IsManagedHookType(name string) bool {
	for _, e := range Events {
		if e.HookType == name {
			return true
		}
	}
	return false
}
