package core

import (
	"fmt"
	"sort"
	"sync"
)

// Tool describes one tool offered by the application.
type Tool struct {
	Key         string
	Name        string
	Description string
	Icon        string
	Path        string
	Order       int

	// RequiresLogin gates the tool behind Google sign-in.
	RequiresLogin bool

	// AcceptsServiceAccount allows an uploaded service-account key instead
	// of sign-in.
	AcceptsServiceAccount bool

	// Stages are the pipeline stage names, in order.
	Stages []string
}

var (
	registry   = make(map[string]Tool)
	registryMu sync.RWMutex
)

// Register adds a tool to the registry.
// Panics if a tool with the same key is already registered.
func Register(t Tool) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[t.Key]; exists {
		panic(fmt.Sprintf("tool already registered: %s", t.Key))
	}
	registry[t.Key] = t
}

// Get returns a tool by key.
// Returns false if not found.
func Get(key string) (Tool, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	t, ok := registry[key]
	return t, ok
}

// All returns all registered tools sorted by Order, then key.
func All() []Tool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Tool, 0, len(registry))
	for _, t := range registry {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Key < result[j].Key
	})

	return result
}

// ToolCount returns the number of registered tools.
func ToolCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tools.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Tool)
}
