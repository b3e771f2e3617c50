package variant

import (
	"fmt"
	"sort"
	"sync"
)

// Built-in variant names.
const (
	NameShared     = "shared"
	NamePerDynamic = "per-dynamic"
)

// Registry stores variants by name.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]Variant
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{variants: make(map[string]Variant)}
}

// Builtin returns a registry seeded with the embedded definitions.
func Builtin() (*Registry, error) {
	variants, err := LoadFS(EmbeddedFS())
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, v := range variants {
		if err := reg.Register(v); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry of embedded variants. Callers that
// register extra variants should build their own registry instead.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Builtin()
		if err != nil {
			panic(fmt.Sprintf("variant: embedded definitions: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Register validates and adds a variant. Duplicate names return an error.
func (r *Registry) Register(v Variant) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("variant: register: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.variants[v.Name]; exists {
		return fmt.Errorf("variant: %q already registered", v.Name)
	}
	r.variants[v.Name] = v
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(v Variant) {
	if err := r.Register(v); err != nil {
		panic(err)
	}
}

// Get retrieves a variant by name.
func (r *Registry) Get(name string) (Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("variant: %q not found", name)
	}
	return v, nil
}

// MustGet panics if the variant is missing.
func (r *Registry) MustGet(name string) Variant {
	v, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// List returns the sorted variant names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a variant is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.variants[name]
	return ok
}
