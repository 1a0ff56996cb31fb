package params

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Container is an ordered key/value mapping whose nested mappings and
// sequences are held as child containers. Keys are non-empty strings or ints.
//
// The mutable flag is chosen at construction and never changes: a frozen
// container rejects every write with ErrImmutable. Children inherit the flag
// and configuration of the container they were written into, and each child
// belongs to exactly one parent. A Container is not safe for concurrent use.
//
// The zero value is an empty frozen container with the default configuration;
// use New for a writable one.
type Container struct {
	id      string
	keys    []any
	values  map[any]any
	mutable bool
	list    bool
	cfg     *config
}

// New builds a container from data, which may be nil, any mapping, a sequence
// or another container. Entries are written through the same path as Set
// while writes are temporarily allowed, then the container is frozen when
// WithMutable(false) is given.
func New(data any, opts ...Option) (*Container, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return newContainer(cfg, cfg.mutable, false), nil
	}
	pairs, list, ok := entriesOf(data)
	if !ok {
		return nil, opError("new", nil, fmt.Errorf("%w: data must be a mapping, sequence or container, got %T", ErrInvalidArgument, data))
	}
	c := newContainer(cfg, cfg.mutable, list)
	if err := c.load(pairs); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFrozen is New with WithMutable(false) applied last.
func NewFrozen(data any, opts ...Option) (*Container, error) {
	return New(data, append(slices.Clone(opts), WithMutable(false))...)
}

// MustNew is New that panics on error.
func MustNew(data any, opts ...Option) *Container {
	c, err := New(data, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func newContainer(cfg *config, mutable, list bool) *Container {
	return &Container{
		id:      uuid.NewString(),
		values:  map[any]any{},
		mutable: mutable,
		list:    list,
		cfg:     cfg,
	}
}

// load writes pairs without consulting the mutability gate.
func (c *Container) load(pairs []pair) error {
	for _, p := range pairs {
		key, err := mustKey("set", p.key)
		if err != nil {
			return err
		}
		if err := c.put(key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// put stores value under an already normalized key, wrapping mappings and
// sequences into child containers.
func (c *Container) put(key, value any) error {
	wrapped, err := c.wrap(value)
	if err != nil {
		return err
	}
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = wrapped
	return nil
}

func (c *Container) wrap(value any) (any, error) {
	if isScalar(value) {
		return value, nil
	}
	pairs, list, ok := entriesOf(value)
	if !ok {
		return value, nil
	}
	child := newContainer(c.config(), c.mutable, list)
	if err := child.load(pairs); err != nil {
		return nil, err
	}
	return child, nil
}

func (c *Container) pairs() []pair {
	out := make([]pair, len(c.keys))
	for i, key := range c.keys {
		out[i] = pair{key: key, value: c.values[key]}
	}
	return out
}

// ID returns the identifier used for activity events.
func (c *Container) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Mutable reports whether the container accepts writes.
func (c *Container) Mutable() bool {
	return c != nil && c.mutable
}

// Len returns the number of top-level entries.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Has reports whether key is present, including keys holding nil.
func (c *Container) Has(key any) bool {
	_, ok := c.Lookup(key)
	return ok
}

// Get returns the value stored under key, or nil.
func (c *Container) Get(key any) any {
	value, _ := c.Lookup(key)
	return value
}

// GetOr returns the value stored under key, or def when key is missing. A key
// holding nil returns nil, not def.
func (c *Container) GetOr(key, def any) any {
	if value, ok := c.Lookup(key); ok {
		return value
	}
	return def
}

// Lookup returns the value stored under key and whether it was present.
func (c *Container) Lookup(key any) (any, bool) {
	if c == nil {
		return nil, false
	}
	normalized, ok := normalizeKey(key)
	if !ok {
		return nil, false
	}
	value, ok := c.values[normalized]
	return value, ok
}

// Child returns the nested container stored under key.
func (c *Container) Child(key any) (*Container, bool) {
	child, ok := c.Get(key).(*Container)
	return child, ok
}

// Keys returns the top-level keys in insertion order.
func (c *Container) Keys() []any {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}
