package source

import (
	"github.com/rotisserie/eris"

	"github.com/Prastabm/SafeLanes-Research/internal/config"
)

// Registry maps source names to their loaders.
type Registry struct {
	sources map[string]Source
	order   []string // insertion order is the stacking order of the combined table
}

// NewRegistry creates a registry with the four city sources in stacking order:
// Baltimore, Boston, Los Angeles, New York.
func NewRegistry(cfg config.DatasetsConfig) *Registry {
	r := &Registry{
		sources: make(map[string]Source),
	}

	r.Register(&Baltimore{Encoding: cfg.Encoding, CodeMap: cfg.CodeMap, CodeMapSheet: cfg.CodeMapSheet})
	r.Register(&Boston{Encoding: cfg.Encoding})
	r.Register(&LosAngeles{Encoding: cfg.Encoding})
	r.Register(&NewYork{Encoding: cfg.Encoding})

	return r
}

// Register adds a source to the registry.
func (r *Registry) Register(s Source) {
	name := s.Name()
	if _, exists := r.sources[name]; !exists {
		r.order = append(r.order, name)
	}
	r.sources[name] = s
}

// Get returns a source by name.
func (r *Registry) Get(name string) (Source, error) {
	s, ok := r.sources[name]
	if !ok {
		return nil, eris.Errorf("source: unknown source %q", name)
	}
	return s, nil
}

// Select returns the named sources in registration order, or all sources when
// names is empty.
func (r *Registry) Select(names []string) ([]Source, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, err := r.Get(name); err != nil {
			return nil, err
		}
		want[name] = true
	}

	var result []Source
	for _, name := range r.order {
		if want[name] {
			result = append(result, r.sources[name])
		}
	}
	return result, nil
}

// All returns all sources in registration order.
func (r *Registry) All() []Source {
	result := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.sources[name])
	}
	return result
}

// AllNames returns all registered source names in registration order.
func (r *Registry) AllNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
