package params

import "iter"

// View is a read-only handle over a container. It exposes accessors only, so
// code holding a View cannot write even when the underlying container is
// mutable. Nested containers are returned as Views too.
type View struct {
	c *Container
}

// View returns a read-only handle over c.
func (c *Container) View() View {
	return View{c: c}
}

func viewValue(value any) any {
	if child, ok := value.(*Container); ok {
		return child.View()
	}
	return value
}

// Has reports whether key is present.
func (v View) Has(key any) bool { return v.c.Has(key) }

// Get returns the value stored under key, or nil.
func (v View) Get(key any) any { return viewValue(v.c.Get(key)) }

// GetOr returns the value stored under key, or def when missing.
func (v View) GetOr(key, def any) any {
	if value, ok := v.c.Lookup(key); ok {
		return viewValue(value)
	}
	return def
}

// Lookup returns the value stored under key and whether it was present.
func (v View) Lookup(key any) (any, bool) {
	value, ok := v.c.Lookup(key)
	return viewValue(value), ok
}

func (v View) Keys() []any    { return v.c.Keys() }
func (v View) Len() int       { return v.c.Len() }
func (v View) Mutable() bool  { return v.c.Mutable() }
func (v View) String() string { return v.c.String() }

// All iterates entries with the container's strategy.
func (v View) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for key, value := range v.c.All() {
			if !yield(key, viewValue(value)) {
				return
			}
		}
	}
}

// ToMap returns a plain recursive snapshot.
func (v View) ToMap() (map[string]any, error) { return v.c.ToMap(true) }

// Snapshot returns plain data for the whole tree.
func (v View) Snapshot() (any, error) { return v.c.Snapshot() }

// Query evaluates a JMESPath expression.
func (v View) Query(expression string) (any, error) { return v.c.Query(expression) }

// Clone returns a deep copy of the viewed container with the same
// mutability.
func (v View) Clone() (*Container, error) { return v.c.Clone() }

// Equal compares the viewed container with other.
func (v View) Equal(other View) bool { return v.c.Equal(other.c) }

// MarshalJSON encodes the viewed container.
func (v View) MarshalJSON() ([]byte, error) { return v.c.MarshalJSON() }
