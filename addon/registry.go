package addon

import (
	"sync"

	"emperror.dev/errors"
)

// Registry holds every addon the handler attempted to load, keyed by name, in load order.
// Failed addons are kept with their error.
type Registry struct {
	mu     sync.RWMutex
	names  []string
	addons map[string]*Addon
}

func NewRegistry() *Registry {
	return &Registry{addons: make(map[string]*Addon)}
}

func (r *Registry) add(a *Addon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.addons[a.Name]; ok {
		return errors.Wrapf(ErrDuplicate, "%q", a.Name)
	}

	r.names = append(r.names, a.Name)
	r.addons[a.Name] = a
	return nil
}

// Get returns the addon with the given name.
func (r *Registry) Get(name string) (*Addon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.addons[name]
	return a, ok
}

// All returns every addon, in load order.
func (r *Registry) All() []*Addon {
	return r.filter(func(*Addon) bool { return true })
}

// Loaded returns the addons that were executed successfully.
func (r *Registry) Loaded() []*Addon {
	return r.filter(func(a *Addon) bool { return a.State() == Executed })
}

// Failed returns the addons that failed validation or execution.
func (r *Registry) Failed() []*Addon {
	return r.filter(func(a *Addon) bool { return a.State() == Failed })
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

func (r *Registry) filter(fn func(*Addon) bool) []*Addon {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Addon
	for _, name := range r.names {
		if a := r.addons[name]; fn(a) {
			out = append(out, a)
		}
	}
	return out
}
