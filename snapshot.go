package params

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// ToMap returns the entries as a plain map. Int keys are rendered in decimal.
// With recursive set, nested containers become plain maps and slices and
// opaque leaves must implement Snapshotter; otherwise nested containers are
// returned as they are.
func (c *Container) ToMap(recursive bool) (map[string]any, error) {
	if c == nil {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(c.keys))
	for _, key := range c.keys {
		value := c.values[key]
		if !recursive {
			out[keyString(key)] = value
			continue
		}
		plain, err := snapshotValue(value)
		if err != nil {
			return nil, opError("snapshot", key, err)
		}
		out[keyString(key)] = plain
	}
	return out, nil
}

// Snapshot returns plain data for the whole tree: []any for list containers
// whose keys are 0..n-1 in order, map[string]any otherwise.
func (c *Container) Snapshot() (any, error) {
	if c.isSequence() {
		out := make([]any, len(c.keys))
		for i, key := range c.keys {
			plain, err := snapshotValue(c.values[key])
			if err != nil {
				return nil, opError("snapshot", key, err)
			}
			out[i] = plain
		}
		return out, nil
	}
	return c.ToMap(true)
}

func snapshotValue(value any) (any, error) {
	if child, ok := value.(*Container); ok {
		return child.Snapshot()
	}
	return snapshotLeaf(value)
}

func (c *Container) isSequence() bool {
	if c == nil || !c.list {
		return false
	}
	for i, key := range c.keys {
		if n, ok := key.(int); !ok || n != i {
			return false
		}
	}
	return true
}

// Clone returns a deep copy with the same mutability and configuration. Child
// containers are cloned recursively; opaque leaves must implement Cloner.
func (c *Container) Clone() (*Container, error) {
	if c == nil {
		return nil, nil
	}
	clone := newContainer(c.config(), c.mutable, c.list)
	clone.keys = make([]any, 0, len(c.keys))
	for _, key := range c.keys {
		var (
			copied any
			err    error
		)
		if child, ok := c.values[key].(*Container); ok {
			copied, err = child.Clone()
		} else {
			copied, err = cloneLeaf(c.values[key])
		}
		if err != nil {
			return nil, opError("clone", key, err)
		}
		clone.keys = append(clone.keys, key)
		clone.values[key] = copied
	}
	return clone, nil
}

// Equal reports whether both containers hold structurally equal snapshots.
// Mutability and key order are ignored. Containers that cannot be
// snapshotted are never equal.
func (c *Container) Equal(other *Container) bool {
	if c == nil || other == nil {
		return c == other
	}
	a, err := c.ToMap(true)
	if err != nil {
		return false
	}
	b, err := other.ToMap(true)
	if err != nil {
		return false
	}
	return cmp.Equal(a, b, exportAll)
}

// Opaque leaves may snapshot into structs with unexported fields.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })
