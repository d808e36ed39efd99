package matcher

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"go.datamatch.io/engine/pkg/matcher/directives"
)

// Registry is a name-keyed store of directives, matchers and value
// transforms. Populate it fully before running comparisons; registration and
// comparison are not designed to interleave. The insertion order of names is
// preserved by the listing accessors.
type Registry struct {
	directives *linkedhashmap.Map
	matchers   *linkedhashmap.Map
	transforms *linkedhashmap.Map
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		directives: linkedhashmap.New(),
		matchers:   linkedhashmap.New(),
		transforms: linkedhashmap.New(),
	}
}

// DefaultRegistry returns a registry populated with the built-in directive
// set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, h := range directives.Builtin() {
		// Builtin names are unique, registration cannot fail.
		_ = r.RegisterDirective(h)
	}
	return r
}

// RegisterDirective adds a directive handler, rejecting duplicate names.
func (r *Registry) RegisterDirective(h directives.Handler) error {
	if _, ok := r.directives.Get(h.Name()); ok {
		return fmt.Errorf("directive %q is already registered", h.Name())
	}
	r.directives.Put(h.Name(), h)
	return nil
}

// RegisterMatcher adds a matcher, rejecting duplicate names.
func (r *Registry) RegisterMatcher(m directives.Matcher) error {
	if _, ok := r.matchers.Get(m.Name()); ok {
		return fmt.Errorf("matcher %q is already registered", m.Name())
	}
	r.matchers.Put(m.Name(), m)
	return nil
}

// RegisterTransform adds a value transform, rejecting duplicate names.
func (r *Registry) RegisterTransform(t directives.Transform) error {
	if _, ok := r.transforms.Get(t.Name()); ok {
		return fmt.Errorf("transform %q is already registered", t.Name())
	}
	r.transforms.Put(t.Name(), t)
	return nil
}

// GetDirective looks up a directive handler by name.
func (r *Registry) GetDirective(name string) (directives.Handler, error) {
	v, ok := r.directives.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown directive %q", name)
	}
	return v.(directives.Handler), nil
}

// GetMatcher looks up a matcher by name.
func (r *Registry) GetMatcher(name string) (directives.Matcher, error) {
	v, ok := r.matchers.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown matcher %q", name)
	}
	return v.(directives.Matcher), nil
}

// GetTransform looks up a value transform by name.
func (r *Registry) GetTransform(name string) (directives.Transform, error) {
	v, ok := r.transforms.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown transform %q", name)
	}
	return v.(directives.Transform), nil
}

// HasDirective reports whether a directive with the given name exists.
func (r *Registry) HasDirective(name string) bool {
	_, ok := r.directives.Get(name)
	return ok
}

// HasMatcher reports whether a matcher with the given name exists.
func (r *Registry) HasMatcher(name string) bool {
	_, ok := r.matchers.Get(name)
	return ok
}

// HasTransform reports whether a transform with the given name exists.
func (r *Registry) HasTransform(name string) bool {
	_, ok := r.transforms.Get(name)
	return ok
}

// DirectiveNames lists registered directive names in registration order.
func (r *Registry) DirectiveNames() []string {
	return keyNames(r.directives)
}

// MatcherNames lists registered matcher names in registration order.
func (r *Registry) MatcherNames() []string {
	return keyNames(r.matchers)
}

// TransformNames lists registered transform names in registration order.
func (r *Registry) TransformNames() []string {
	return keyNames(r.transforms)
}

// Clear empties all three stores. Intended for test isolation.
func (r *Registry) Clear() {
	r.directives.Clear()
	r.matchers.Clear()
	r.transforms.Clear()
}

func keyNames(m *linkedhashmap.Map) []string {
	keys := m.Keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.(string))
	}
	return names
}
