package hooks

import (
	"fmt"

	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/jsontree"
)

// CanonicalGroups returns our hook group for every managed hook type,
// keyed by hook type in canonical order.
func CanonicalGroups(paths *config.Paths) map[string]HookGroup {
	script := paths.MarkerScriptFile()
	stopLog := paths.StopInputLog()

	groups := make(map[string]HookGroup, len(config.Events))
	for _, event := range config.Events {
		group := HookGroup{Matcher: ""}
		if event.HookType == "Stop" {
			group.Matcher = ".*"
			group.Hooks = append(group.Hooks, HookAction{
				Type:    "command",
				Command: fmt.Sprintf("jq -c -r '.' >> %s || cat >> %s", stopLog, stopLog),
			})
		}
		group.Hooks = append(group.Hooks, HookAction{
			Type:    "command",
			Command: fmt.Sprintf("bash %s %s", script, event.Key),
		})
		groups[event.HookType] = group
	}
	return groups
}

// Canonical builds the hook mapping we install, as a settings tree
func Canonical(paths *config.Paths) *jsontree.Object {
	groups := CanonicalGroups(paths)

	out := jsontree.NewObject()
	for _, event := range config.Events {
		out.Set(event.HookType, []any{groups[event.HookType].tree()})
	}
	return out
}

func (g HookGroup) tree() *jsontree.Object {
	actions := make([]any, 0, len(g.Hooks))
	for _, a := range g.Hooks {
		action := jsontree.NewObject()
		action.Set("type", a.Type)
		action.Set("command", a.Command)
		actions = append(actions, action)
	}

	obj := jsontree.NewObject()
	obj.Set("matcher", g.Matcher)
	obj.Set(HooksKey, actions)
	return obj
}
