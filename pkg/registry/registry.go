package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/actionkit/pkg/domain"
)

// Registry manages the services actions refer to by name.
// Each service exposes one or more methods; "call" is the default.
type Registry struct {
	mu       sync.RWMutex
	services map[string]map[string]domain.ServiceFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]map[string]domain.ServiceFunc),
	}
}

// Register adds the default "call" method of a service.
// If a method with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn domain.ServiceFunc) {
	r.RegisterMethod(name, domain.DefaultServiceMethod, fn)
}

// RegisterMethod adds a named method of a service.
func (r *Registry) RegisterMethod(name, method string, fn domain.ServiceFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	methods, ok := r.services[name]
	if !ok {
		methods = make(map[string]domain.ServiceFunc)
		r.services[name] = methods
	}
	methods[method] = fn
}

// Resolve looks up a service method.
func (r *Registry) Resolve(name, method string) (domain.ServiceFunc, error) {
	if method == "" {
		method = domain.DefaultServiceMethod
	}
	r.mu.RLock()
	fn, ok := r.services[name][method]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s#%s", domain.ErrServiceNotFound, name, method)
	}
	return fn, nil
}

// Names lists the registered "service#method" pairs in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, methods := range r.services {
		for method := range methods {
			names = append(names, name+"#"+method)
		}
	}
	sort.Strings(names)
	return names
}
