package core

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// tableRegistry keeps definitions in import order.
type tableRegistry struct {
	mu      sync.RWMutex
	ordered []TableDefinition
	byKey   map[string]int
}

var registry = &tableRegistry{byKey: make(map[string]int)}

// Register adds a table definition to the registry. Columns are derived from
// the field specs.
//
// Register panics on an empty or duplicate key, and on a conflict key that
// is empty or names a column the table does not have. Definitions are
// registered from init functions, so these are programming errors.
func Register(def TableDefinition) {
	if def.Info.Key == "" {
		panic("table key is empty")
	}
	if len(def.Info.ConflictKey) == 0 {
		panic(fmt.Sprintf("table %s has no conflict key", def.Info.Key))
	}

	def.Info.Columns = make([]string, len(def.FieldSpecs))
	for i, spec := range def.FieldSpecs {
		def.Info.Columns[i] = spec.Name
	}
	for _, k := range def.Info.ConflictKey {
		if !slices.Contains(def.Info.Columns, k) {
			panic(fmt.Sprintf("table %s: conflict key column %q is not a field", def.Info.Key, k))
		}
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.byKey[def.Info.Key]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Key))
	}

	registry.ordered = append(registry.ordered, def)
	sort.SliceStable(registry.ordered, func(i, j int) bool {
		a, b := registry.ordered[i].Info, registry.ordered[j].Info
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Key < b.Key
	})
	for i, d := range registry.ordered {
		registry.byKey[d.Info.Key] = i
	}
}

// Get returns the definition registered under key.
func Get(key string) (TableDefinition, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	i, ok := registry.byKey[key]
	if !ok {
		return TableDefinition{}, false
	}
	return registry.ordered[i], true
}

// All returns every registered definition, parents before children.
func All() []TableDefinition {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return slices.Clone(registry.ordered)
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return len(registry.ordered)
}

// Clear removes all registered tables. Tests use it to register their own
// definitions.
func Clear() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.ordered = nil
	registry.byKey = make(map[string]int)
}
