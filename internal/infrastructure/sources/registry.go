package sources

import "github.com/anujkukreti29/mayabu/internal/domain"

// Registry holds the configured sources in registration order. That order
// drives reference-source selection and dedupe preference downstream, so it
// must stay stable.
type Registry struct {
	order  []string
	byName map[string]domain.Source
}

// NewRegistry creates a registry holding the given sources in order.
func NewRegistry(srcs ...domain.Source) *Registry {
	r := &Registry{byName: make(map[string]domain.Source, len(srcs))}
	for _, s := range srcs {
		r.Register(s)
	}
	return r
}

// Register adds a source. Re-registering a name replaces the implementation
// without changing its position.
func (r *Registry) Register(s domain.Source) {
	name := s.Name()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = s
}

// All returns the sources in registration order.
func (r *Registry) All() []domain.Source {
	out := make([]domain.Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Get looks a source up by name.
func (r *Registry) Get(name string) (domain.Source, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names returns the source names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
