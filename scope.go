package params

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-params/pkg/activity"
)

// Scope models a named precedence bucket (system, tenant, user, etc.). Higher
// priority values represent stronger layers.
type Scope struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScopeOption configures metadata on Scope creation.
type ScopeOption func(*Scope)

// WithScopeLabel sets a human-friendly label on the scope.
func WithScopeLabel(label string) ScopeOption {
	return func(s *Scope) {
		s.Label = label
	}
}

// WithScopeMetadata attaches metadata to the scope. The map is copied.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(s *Scope) {
		s.Metadata = activity.CloneMetadata(metadata)
	}
}

// NewScope builds a Scope. Validation is deferred to NewStack so callers can
// assemble scopes before deciding precedence.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	scope := Scope{Name: name, Priority: priority}
	for _, opt := range opts {
		if opt != nil {
			opt(&scope)
		}
	}
	return scope
}

func (s Scope) clone() Scope {
	s.Metadata = activity.CloneMetadata(s.Metadata)
	return s
}

// Layer pairs a scope with the frozen container captured for it.
type Layer struct {
	Scope      Scope
	Snapshot   *Container
	SnapshotID string
}

// LayerOption configures optional metadata for a layer.
type LayerOption func(*Layer)

// WithSnapshotID sets the snapshot identifier used for auditing.
func WithSnapshotID(id string) LayerOption {
	return func(layer *Layer) {
		layer.SnapshotID = id
	}
}

// NewLayer freezes a copy of data (a mapping or container) for scope.
func NewLayer(scope Scope, data any, opts ...LayerOption) (Layer, error) {
	if data == nil {
		data = map[string]any{}
	}
	snapshot, err := NewFrozen(data)
	if err != nil {
		return Layer{}, fmt.Errorf("scope %q: %w", scope.Name, err)
	}
	layer := Layer{Scope: scope.clone(), Snapshot: snapshot}
	for _, opt := range opts {
		if opt != nil {
			opt(&layer)
		}
	}
	return layer, nil
}

var (
	// ErrScopeNameRequired indicates a missing scope name.
	ErrScopeNameRequired = errors.New("params: scope name must be provided")
	// ErrDuplicateScopeName indicates several layers share a scope name.
	ErrDuplicateScopeName = errors.New("params: scope names must be unique")
	// ErrPriorityOrder indicates duplicate scope priorities.
	ErrPriorityOrder = errors.New("params: scope priorities must be strictly ordered")
	// ErrEmptyStack indicates Merge or Resolve on a stack without layers.
	ErrEmptyStack = errors.New("params: stack must include at least one layer")
)

// Stack is an immutable set of layers ordered from strongest to weakest.
type Stack struct {
	layers []Layer
}

// NewStack validates the layers and sorts them so that the highest priority
// comes first.
func NewStack(layers ...Layer) (*Stack, error) {
	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer, 0, len(layers))
	for _, layer := range layers {
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, ok := seen[layer.Scope.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		seen[layer.Scope.Name] = struct{}{}
		if layer.Snapshot == nil {
			layer.Snapshot = MustNew(nil, WithMutable(false))
		} else if layer.Snapshot.Mutable() {
			frozen, err := NewFrozen(layer.Snapshot)
			if err != nil {
				return nil, fmt.Errorf("scope %q: %w", layer.Scope.Name, err)
			}
			layer.Snapshot = frozen
		}
		layer.Scope = layer.Scope.clone()
		copied = append(copied, layer)
	}

	sort.Slice(copied, func(i, j int) bool {
		if copied[i].Scope.Priority == copied[j].Scope.Priority {
			return copied[i].Scope.Name < copied[j].Scope.Name
		}
		return copied[i].Scope.Priority > copied[j].Scope.Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Scope.Priority <= copied[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Scope.Priority)
		}
	}
	return &Stack{layers: copied}, nil
}

// Layers returns the layers, strongest first.
func (s *Stack) Layers() []Layer {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer, len(s.layers))
	for i, layer := range s.layers {
		layer.Scope = layer.Scope.clone()
		out[i] = layer
	}
	return out
}

// Len returns the number of layers in the stack.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge folds the layers, weakest first, into a new container built with
// opts. Nested mappings merge key by key and the stronger layer wins every
// other conflict. One activity event is emitted per folded layer.
func (s *Stack) Merge(opts ...Option) (*Container, error) {
	if s.Len() == 0 {
		return nil, ErrEmptyStack
	}
	containers := make([]*Container, len(s.layers))
	for i, layer := range s.layers {
		containers[len(s.layers)-1-i] = layer.Snapshot
	}
	merged, err := MergeContainers(containers, opts...)
	if err != nil {
		return nil, err
	}
	if merged.cfg.emitter.Enabled() {
		for i := len(s.layers) - 1; i >= 0; i-- {
			merged.emitMerge(s.layers[i])
		}
	}
	return merged, nil
}

func (c *Container) emitMerge(layer Layer) {
	event := activity.BuildLayerMergedEvent(activity.MergeInput{
		ResultID: c.id,
		Keys:     layer.Snapshot.Len(),
		Scope: activity.ScopeContext{
			Name:       layer.Scope.Name,
			Label:      layer.Scope.Label,
			Priority:   layer.Scope.Priority,
			SnapshotID: layer.SnapshotID,
		},
		OccurredAt: time.Now(),
	})
	if err := c.config().emitter.Emit(context.Background(), event); err != nil {
		c.config().logger.Warn("params: activity hook failed",
			"verb", event.Verb,
			"scope", layer.Scope.Name,
			"error", err,
		)
	}
}

// Resolve evaluates a JMESPath expression against the merged stack and
// traces what every layer, strongest first, holds for it.
func (s *Stack) Resolve(path string, opts ...Option) (any, Trace, error) {
	merged, err := s.Merge(opts...)
	if err != nil {
		return nil, Trace{}, err
	}
	value, err := merged.Query(path)
	if err != nil {
		return nil, Trace{}, err
	}
	trace := Trace{Path: path, Layers: make([]Provenance, 0, len(s.layers))}
	for _, layer := range s.layers {
		layerValue, err := layer.Snapshot.Query(path)
		if err != nil {
			return nil, Trace{}, err
		}
		trace.Layers = append(trace.Layers, Provenance{
			Scope:      layer.Scope.clone(),
			SnapshotID: layer.SnapshotID,
			Path:       path,
			Value:      layerValue,
			Found:      layerValue != nil,
		})
	}
	return value, trace, nil
}

// Flatten lists every leaf of the merged stack in insertion order, each
// attributed to the strongest layer that holds it.
func (s *Stack) Flatten() ([]Provenance, error) {
	merged, err := s.Merge()
	if err != nil {
		return nil, err
	}
	leaves := merged.leaves()
	out := make([]Provenance, 0, len(leaves))
	for _, l := range leaves {
		prov := Provenance{Path: joinKeys(l.keys)}
		for _, layer := range s.layers {
			if value, ok := layer.Snapshot.lookupKeys(l.keys); ok {
				plain, err := snapshotValue(value)
				if err != nil {
					return nil, err
				}
				prov.Scope = layer.Scope.clone()
				prov.SnapshotID = layer.SnapshotID
				prov.Value = plain
				prov.Found = true
				break
			}
		}
		out = append(out, prov)
	}
	return out, nil
}
