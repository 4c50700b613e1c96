package rule

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/viant/x"
)

// Registry maps short rule names used in policy documents to rule
// implementations and their type-based identities. Loaders resolve
// name -> key through it without ever obtaining a witness value.
type Registry struct {
	registry *x.Registry
	rules    map[string]Rule
	mux      sync.RWMutex
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		registry: x.NewRegistry(),
		rules:    make(map[string]Rule),
	}
}

// Register adds the rule under its short name. Registering the same name
// twice overwrites the previous entry.
func (r *Registry) Register(impl Rule) {
	rType := reflect.TypeOf(impl)
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.registry.Register(x.NewType(rType, x.WithName(impl.Name())))
	r.rules[impl.Name()] = impl
}

// Lookup returns the rule registered under the short name, or nil.
func (r *Registry) Lookup(name string) Rule {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.rules[name]
}

// KeyOf resolves a short rule name to its canonical identity.
func (r *Registry) KeyOf(name string) (string, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	impl, ok := r.rules[name]
	if !ok {
		return "", fmt.Errorf("rule: unknown rule %q", name)
	}
	return impl.Key(), nil
}

// Names returns the registered short names, sorted.
func (r *Registry) Names() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Type returns the registered implementation type descriptor for a short
// name, or nil.
func (r *Registry) Type(name string) *x.Type {
	r.mux.RLock()
	defer r.mux.RUnlock()
	if _, ok := r.rules[name]; !ok {
		return nil
	}
	return r.registry.Lookup(name)
}
