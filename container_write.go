package params

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/goliatone/go-params/pkg/activity"
)

// Set stores value under key, replacing any existing entry. Mappings and
// sequences are wrapped into child containers.
func (c *Container) Set(key, value any) error {
	return c.set("set", key, value, true)
}

// SetDefault stores value under key only when key is missing.
func (c *Container) SetDefault(key, value any) error {
	return c.set("set", key, value, false)
}

func (c *Container) set(op string, key, value any, replace bool) error {
	normalized, err := mustKey(op, key)
	if err != nil {
		return err
	}
	if err := c.writable(op, normalized); err != nil {
		return err
	}
	if !replace {
		if _, exists := c.values[normalized]; exists {
			return nil
		}
	}
	if err := c.put(normalized, value); err != nil {
		return opError(op, normalized, err)
	}
	c.emit(activity.VerbSet, normalized)
	return nil
}

// Add sets every entry of data, which must be a mapping or a container.
func (c *Container) Add(data any) error {
	return c.add(data, true)
}

// AddDefaults sets the entries of data whose keys are missing.
func (c *Container) AddDefaults(data any) error {
	return c.add(data, false)
}

func (c *Container) add(data any, replace bool) error {
	if err := c.writable("add", nil); err != nil {
		return err
	}
	pairs, _, ok := entriesOf(data)
	if !ok || data == nil {
		return opError("add", nil, fmt.Errorf("%w: data must be a mapping or container, got %T", ErrInvalidArgument, data))
	}
	for _, p := range pairs {
		if err := c.set("add", p.key, p.value, replace); err != nil {
			return err
		}
	}
	return nil
}

// Append stores value under the next integer key (one past the largest int
// key, or 0) and returns that key.
func (c *Container) Append(value any) (int, error) {
	if err := c.writable("append", nil); err != nil {
		return 0, err
	}
	largest := 0
	found := false
	for _, key := range c.keys {
		if n, ok := key.(int); ok && (!found || n > largest) {
			largest = n
			found = true
		}
	}
	next := 0
	if found && largest >= 0 {
		if largest == math.MaxInt {
			return 0, opError("append", nil, fmt.Errorf("%w: next index overflows", ErrInvalidArgument))
		}
		next = largest + 1
	}
	if err := c.put(next, value); err != nil {
		return 0, opError("append", next, err)
	}
	c.emit(activity.VerbAppend, next)
	return next, nil
}

// Remove deletes key. Removing a missing key is a no-op.
func (c *Container) Remove(key any) error {
	normalized, err := mustKey("remove", key)
	if err != nil {
		return err
	}
	if err := c.writable("remove", normalized); err != nil {
		return err
	}
	if _, exists := c.values[normalized]; !exists {
		return nil
	}
	delete(c.values, normalized)
	c.keys = slices.DeleteFunc(c.keys, func(k any) bool { return k == normalized })
	c.emit(activity.VerbRemove, normalized)
	return nil
}

// Clear removes every entry.
func (c *Container) Clear() error {
	if err := c.writable("clear", nil); err != nil {
		return err
	}
	c.keys = nil
	c.values = map[any]any{}
	c.emit(activity.VerbClear, nil)
	return nil
}

// Map replaces every top-level value with fn(key, value), in key order.
func (c *Container) Map(fn func(key, value any) any) error {
	if err := c.writable("map", nil); err != nil {
		return err
	}
	if fn == nil {
		return opError("map", nil, fmt.Errorf("%w: map function is nil", ErrInvalidArgument))
	}
	for _, p := range c.pairs() {
		if err := c.set("map", p.key, fn(p.key, p.value), true); err != nil {
			return err
		}
	}
	return nil
}

// SortKeys reorders the entries by key. A nil cmp orders int keys before
// string keys, each ascending.
func (c *Container) SortKeys(cmp func(a, b any) int) error {
	if err := c.writable("sort", nil); err != nil {
		return err
	}
	if cmp == nil {
		cmp = compareKeys
	}
	slices.SortStableFunc(c.keys, cmp)
	c.emit(activity.VerbSort, nil)
	return nil
}

func (c *Container) writable(op string, key any) error {
	if c == nil {
		return opError(op, key, fmt.Errorf("%w: container is nil", ErrInvalidArgument))
	}
	if !c.mutable {
		return opError(op, key, ErrImmutable)
	}
	return nil
}

func (c *Container) emit(verb string, key any) {
	cfg := c.config()
	if !cfg.emitter.Enabled() {
		return
	}
	input := activity.WriteInput{ContainerID: c.id, Name: cfg.name}
	if key != nil {
		input.Key = keyString(key)
	}
	if err := cfg.emitter.Emit(context.Background(), activity.BuildWriteEvent(verb, input)); err != nil {
		cfg.logger.Warn("params: activity hook failed",
			"verb", verb,
			"container", c.id,
			"key", keyString(key),
			"error", err,
		)
	}
}
