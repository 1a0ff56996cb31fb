package params

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// IterationStrategy decides the order in which All and Range visit keys. It
// receives a fresh copy of the insertion-ordered keys and may reorder it in
// place.
type IterationStrategy interface {
	Order(keys []any) []any
}

// IterationFunc adapts a function to IterationStrategy.
type IterationFunc func(keys []any) []any

// Order implements IterationStrategy.
func (f IterationFunc) Order(keys []any) []any {
	if f == nil {
		return keys
	}
	return f(keys)
}

var (
	// InsertionOrder visits keys in the order they were first written.
	InsertionOrder IterationStrategy = IterationFunc(func(keys []any) []any {
		return keys
	})
	// SortedOrder visits int keys ascending, then string keys ascending.
	SortedOrder IterationStrategy = IterationFunc(func(keys []any) []any {
		slices.SortStableFunc(keys, compareKeys)
		return keys
	})
	// ReverseOrder visits keys from the most recently inserted.
	ReverseOrder IterationStrategy = IterationFunc(func(keys []any) []any {
		slices.Reverse(keys)
		return keys
	})
)

// IterationStrategyByName resolves "insertion", "sorted" or "reverse".
func IterationStrategyByName(name string) (IterationStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "insertion":
		return InsertionOrder, nil
	case "sorted":
		return SortedOrder, nil
	case "reverse":
		return ReverseOrder, nil
	default:
		return nil, fmt.Errorf("%w: unknown iteration strategy %q", ErrConfiguration, name)
	}
}

// All iterates the top-level entries using the configured strategy. The key
// order is fixed when iteration starts; entries removed meanwhile are skipped.
func (c *Container) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		if c == nil {
			return
		}
		for _, key := range c.config().iterator.Order(c.Keys()) {
			value, ok := c.values[key]
			if !ok {
				continue
			}
			if !yield(key, value) {
				return
			}
		}
	}
}

// Range calls fn for each entry until fn returns false.
func (c *Container) Range(fn func(key, value any) bool) {
	for key, value := range c.All() {
		if !fn(key, value) {
			return
		}
	}
}
