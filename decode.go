package params

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goliatone/go-params/internal/hydrate"
)

// DecodeContext identifies the decoded container in hooks.
type DecodeContext = hydrate.Context

// DecodeOption configures Decode.
type DecodeOption[T any] struct {
	apply hydrate.DecoderOption[T]
	path  string
}

// DecodePath decodes the sub-container at path (dot separated keys) instead
// of the whole container.
func DecodePath[T any](path string) DecodeOption[T] {
	return DecodeOption[T]{path: path}
}

// DecodeStrict rejects snapshot keys with no matching struct field.
func DecodeStrict[T any]() DecodeOption[T] {
	return DecodeOption[T]{apply: hydrate.WithDisallowUnknownFields[T]()}
}

// DecodeYAML decodes with goccy/go-yaml so `yaml` struct tags apply.
func DecodeYAML[T any](opts ...yaml.DecodeOption) DecodeOption[T] {
	return DecodeOption[T]{apply: hydrate.WithYAML[T](opts...)}
}

// DecodeWithPreHook rewrites the snapshot before decoding.
func DecodeWithPreHook[T any](hook func(DecodeContext, map[string]any) (map[string]any, error)) DecodeOption[T] {
	return DecodeOption[T]{apply: hydrate.WithPreHook[T](hook)}
}

// DecodeWithPostHook adjusts or validates the decoded value.
func DecodeWithPostHook[T any](hook func(DecodeContext, *T) error) DecodeOption[T] {
	return DecodeOption[T]{apply: hydrate.WithPostHook[T](hook)}
}

// Decode hydrates a T from the container's recursive snapshot. Decoding
// runs on a copy; the container is never modified.
func Decode[T any](c *Container, opts ...DecodeOption[T]) (T, error) {
	var zero T
	if c == nil {
		return zero, opError("decode", nil, fmt.Errorf("%w: container is nil", ErrInvalidArgument))
	}
	var (
		decoderOpts []hydrate.DecoderOption[T]
		path        string
	)
	for _, opt := range opts {
		if opt.apply != nil {
			decoderOpts = append(decoderOpts, opt.apply)
		}
		if opt.path != "" {
			path = opt.path
		}
	}

	target := c
	if path != "" {
		child, err := c.childAt(path)
		if err != nil {
			return zero, err
		}
		target = child
	}
	payload, err := target.ToMap(true)
	if err != nil {
		return zero, err
	}
	return hydrate.NewDecoder(decoderOpts...).Decode(hydrate.Context{Name: c.config().label(), Path: path}, payload)
}

// childAt follows dot separated keys to a nested container.
func (c *Container) childAt(path string) (*Container, error) {
	current := c
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		segment := path[start:i]
		start = i + 1
		child, ok := current.Child(segment)
		if !ok {
			return nil, opError("decode", segment, fmt.Errorf("%w: %q is not a nested container", ErrInvalidArgument, path))
		}
		current = child
	}
	return current, nil
}
