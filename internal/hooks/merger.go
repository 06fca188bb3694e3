package hooks

import (
	"strings"

	"github.com/cwveysey/coding-agent-notifications/internal/jsontree"
)

// Merge combines the existing hook mapping with our canonical one. Our
// groups come first for every type we manage, followed by the foreign groups
// that type already had. Our own stale groups are dropped. Types we do not
// manage keep their foreign groups; a type left with nothing but our groups
// disappears. Values that are not arrays are passed through untouched
// unless we manage that type.
func Merge(existing, ours *jsontree.Object) *jsontree.Object {
	result := ours.Clone()
	if result == nil {
		result = jsontree.NewObject()
	}

	for _, hookType := range existing.Keys() {
		value, _ := existing.Get(hookType)

		groups, isArray := value.([]any)
		if !isArray {
			if !result.Has(hookType) {
				result.Set(hookType, jsontree.Clone(value))
			}
			continue
		}

		foreign := foreignGroups(groups)

		if own, ok := result.Array(hookType); ok {
			result.Set(hookType, append(own, foreign...))
			continue
		}
		if result.Has(hookType) {
			continue
		}

		switch {
		case len(groups) == 0:
			result.Set(hookType, []any{})
		case len(foreign) > 0:
			result.Set(hookType, foreign)
		}
	}

	return result
}

// StripOwn returns a copy of the settings document without our hook groups.
// A hook type emptied by the removal is deleted, as is the hooks key itself
// when nothing is left. Types that were already empty stay.
func StripOwn(document *jsontree.Object) *jsontree.Object {
	result := document.Clone()
	if result == nil {
		return jsontree.NewObject()
	}

	hooks, ok := result.Object(HooksKey)
	if !ok || hooks.Len() == 0 {
		return result
	}

	for _, hookType := range hooks.Keys() {
		groups, ok := hooks.Array(hookType)
		if !ok || len(groups) == 0 {
			continue
		}

		filtered := foreignGroups(groups)
		if len(filtered) > 0 {
			hooks.Set(hookType, filtered)
		} else {
			hooks.Delete(hookType)
		}
	}

	if hooks.Len() == 0 {
		result.Delete(HooksKey)
	}

	return result
}

// HookTypes lists every hook type present in the document, ours or not
func HookTypes(document *jsontree.Object) []string {
	hooks, ok := document.Object(HooksKey)
	if !ok {
		return nil
	}
	return hooks.Keys()
}

// HasOwnHooks reports whether the document holds any of our groups
func HasOwnHooks(document *jsontree.Object) bool {
	for _, hookType := range HookTypes(document) {
		if hasOwnHookForEvent(document, hookType) {
			return true
		}
	}
	return false
}

// IsOwnGroup reports whether any action of the group runs our script.
// Groups without a hooks array and actions without a string command never
// match.
func IsOwnGroup(group any) bool {
	obj, ok := group.(*jsontree.Object)
	if !ok {
		return false
	}

	actions, ok := obj.Array(HooksKey)
	if !ok {
		return false
	}

	for _, action := range actions {
		actionObj, ok := action.(*jsontree.Object)
		if !ok {
			continue
		}
		cmd, ok := actionObj.String("command")
		if ok && strings.Contains(cmd, Marker) {
			return true
		}
	}

	return false
}

func hasOwnHookForEvent(document *jsontree.Object, hookType string) bool {
	hooks, ok := document.Object(HooksKey)
	if !ok {
		return false
	}

	groups, ok := hooks.Array(hookType)
	if !ok {
		return false
	}

	for _, group := range groups {
		if IsOwnGroup(group) {
			return true
		}
	}

	return false
}

func foreignGroups(groups []any) []any {
	out := make([]any, 0, len(groups))
	for _, group := range groups {
		if !IsOwnGroup(group) {
			out = append(out, jsontree.Clone(group))
		}
	}
	return out
}
