package action

import "sort"

// Registry is the process-wide name->Spec directory (spec §4.3). There is
// no package-level registry: tests and the simulator construct their own
// Registry so registration order never leaks into semantics (spec §9
// "Global registry").
type Registry struct {
	specs map[string]Spec
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds spec, keyed by spec.Name. Registering the same name twice
// overwrites the prior entry; callers building a registry from a fixed
// list of constructors should treat that as a programmer error, not a
// behavior to rely on.
func (r *Registry) Register(spec Spec) {
	r.specs[spec.Name] = spec
}

// ByName resolves a single action type.
func (r *Registry) ByName(name string) (Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// All returns every registered spec, sorted by name so iteration order
// never depends on registration order (spec §4.3 "Registration order must
// not affect semantics").
func (r *Registry) All() []Spec {
	return r.filtered(func(Spec) bool { return true })
}

// ActualOnly returns specs directly selectable by AI decisions.
func (r *Registry) ActualOnly() []Spec {
	return r.filtered(func(s Spec) bool { return s.Actual })
}

func (r *Registry) filtered(keep func(Spec) bool) []Spec {
	out := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
