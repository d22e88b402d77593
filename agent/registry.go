package agent

import (
	"sort"
	"sync"

	"github.com/grovetools/arbor/errors"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Descriptor)
)

// Register adds a descriptor to the registry. Registering a duplicate name
// replaces the earlier entry; the built-in set registers once at init.
func Register(d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Name()] = d
}

// Resolve returns the descriptor registered under name.
func Resolve(name string) (Descriptor, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[name]
	if !ok {
		return nil, errors.UnknownAgent(name)
	}
	return d, nil
}

// Names returns the sorted list of registered agent names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(&claudeDescriptor{})
	Register(&codexDescriptor{})
	Register(&geminiDescriptor{})
	Register(&opencodeDescriptor{})
}
