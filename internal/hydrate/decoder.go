package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Context identifies the container being decoded in hook calls and errors.
type Context struct {
	Name string
	Path string
}

func (c Context) label() string {
	switch {
	case c.Name != "" && c.Path != "":
		return c.Name + ":" + c.Path
	case c.Name != "":
		return c.Name
	case c.Path != "":
		return c.Path
	default:
		return "params"
	}
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated struct after decoding.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the default decoding when provided.
type CustomDecoder[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts container snapshots into typed structs. The default path
// round-trips through encoding/json so `json` struct tags apply; WithYAML
// switches to goccy/go-yaml and `yaml` tags.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	yamlOpts     []yaml.DecodeOption
	useYAML      bool
	custom       CustomDecoder[T]
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithUseNumber enables json.Decoder.UseNumber during decoding.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithDisallowUnknownFields rejects payload keys with no matching field, on
// both the JSON and the YAML path.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
		d.yamlOpts = append(d.yamlOpts, yaml.DisallowUnknownField())
	}
}

// WithDecoderConfig allows callers to configure the json.Decoder directly.
func WithDecoderConfig[T any](configure func(*json.Decoder)) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if configure != nil {
			d.configureDec = append(d.configureDec, configure)
		}
	}
}

// WithYAML decodes through goccy/go-yaml so `yaml` struct tags apply.
func WithYAML[T any](opts ...yaml.DecodeOption) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.useYAML = true
		d.yamlOpts = append(d.yamlOpts, opts...)
	}
}

// WithCustomDecoder replaces the default decoding path.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

// NewDecoder builds a Decoder from opts.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T applying the configured hooks. The payload
// is owned by the decoder; pre-hooks may modify it in place.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T
	label := ctx.label()

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for %s", label)
	}

	current := payload
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for %s failed: %w", label, err)
		}
		if next != nil {
			current = next
		}
	}

	var (
		result T
		err    error
	)
	switch {
	case d.custom != nil:
		result, err = d.custom(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: custom decoder for %s failed: %w", label, err)
		}
	case d.useYAML:
		result, err = d.decodeYAML(current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: decode %s: %w", label, err)
		}
	default:
		result, err = d.decodeJSON(current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: decode %s: %w", label, err)
		}
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for %s failed: %w", label, err)
		}
	}
	return result, nil
}

func (d *Decoder[T]) decodeJSON(payload map[string]any) (T, error) {
	var result T
	buffer, err := json.Marshal(payload)
	if err != nil {
		return result, err
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	err = decoder.Decode(&result)
	return result, err
}

func (d *Decoder[T]) decodeYAML(payload map[string]any) (T, error) {
	var result T
	buffer, err := yaml.Marshal(payload)
	if err != nil {
		return result, err
	}
	err = yaml.UnmarshalWithOptions(buffer, &result, d.yamlOpts...)
	return result, err
}
