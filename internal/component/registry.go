// internal/component/registry.go
//
// Process-wide component registry.  cmd/web registers each component with
// its options before serving; tenant cold loads read it to migrate and
// mount.  Iteration order is by name so mounts are stable across restarts.
package component

import (
	"slices"
	"strings"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register adds c, replacing any component with the same name.
func Register(c Component) {
	mu.Lock()
	defer mu.Unlock()
	registry[c.Name()] = c
}

// All returns every registered component ordered by name.
func All() []Component {
	mu.RLock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	mu.RUnlock()

	slices.SortFunc(out, func(a, b Component) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// Except returns All without the named components.
func Except(disabled map[string]bool) []Component {
	all := All()
	return slices.DeleteFunc(all, func(c Component) bool { return disabled[c.Name()] })
}

// Migrations collects every component's statements in mount order.
func Migrations() []string {
	var out []string
	for _, c := range All() {
		out = append(out, c.Migrations()...)
	}
	return out
}

// reset clears the registry; tests only.
func reset() {
	mu.Lock()
	registry = map[string]Component{}
	mu.Unlock()
}
