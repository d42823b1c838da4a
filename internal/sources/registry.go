package sources

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Registry resolves listing kinds by key or alias.
type Registry struct {
	mu      sync.RWMutex
	kinds   map[string]Kind
	aliases map[string]string
}

func NewRegistry(kinds []Kind) (*Registry, error) {
	r := &Registry{kinds: map[string]Kind{}, aliases: map[string]string{}}
	for _, kind := range kinds {
		if err := r.Register(kind); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(kind Kind) error {
	key := strings.ToLower(strings.TrimSpace(kind.Key))
	if key == "" {
		return fmt.Errorf("kind key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lookup(key); exists {
		return fmt.Errorf("kind %q already registered", key)
	}
	aliases := make([]string, 0, len(kind.Aliases))
	for _, raw := range kind.Aliases {
		alias := strings.ToLower(strings.TrimSpace(raw))
		if alias == "" {
			continue
		}
		if _, exists := r.lookup(alias); exists || alias == key || slices.Contains(aliases, alias) {
			return fmt.Errorf("kind alias %q already registered", alias)
		}
		aliases = append(aliases, alias)
	}

	kind.Key = key
	kind.Aliases = aliases
	r.kinds[key] = kind
	for _, alias := range aliases {
		r.aliases[alias] = key
	}
	return nil
}

// Get resolves a key or alias, case-insensitively.
func (r *Registry) Get(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(strings.ToLower(strings.TrimSpace(name)))
}

func (r *Registry) lookup(name string) (Kind, bool) {
	if kind, ok := r.kinds[name]; ok {
		return kind, true
	}
	if key, ok := r.aliases[name]; ok {
		kind, ok := r.kinds[key]
		return kind, ok
	}
	return Kind{}, false
}

func (r *Registry) List() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]Kind, 0, len(r.kinds))
	for _, kind := range r.kinds {
		items = append(items, kind)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Key < items[j].Key
	})

	return items
}

// Routes lists every name a kind can be addressed by: keys first, then aliases.
func (r *Registry) Routes() []string {
	kinds := r.List()
	names := make([]string, 0, len(kinds)*2)
	for _, kind := range kinds {
		names = append(names, kind.Key)
	}
	for _, kind := range kinds {
		names = append(names, kind.Aliases...)
	}
	return names
}
