package activity

import (
	"fmt"
	"strings"
	"time"
)

// ScopeContext describes the stack layer a merge event refers to.
type ScopeContext struct {
	Name       string
	Label      string
	Priority   int
	SnapshotID string
}

// WriteInput describes a single container write.
type WriteInput struct {
	ContainerID string
	Name        string
	Key         any
	Metadata    map[string]any
	OccurredAt  time.Time
}

// MergeInput describes one layer folded into a merged container.
type MergeInput struct {
	ResultID   string
	Keys       int
	Scope      ScopeContext
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildWriteEvent constructs the event for a write verb such as VerbSet.
func BuildWriteEvent(verb string, input WriteInput) Event {
	metadata := CloneMetadata(input.Metadata)
	if input.Key != nil {
		metadata = ensureMetadata(metadata)
		metadata["key"] = fmt.Sprint(input.Key)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		metadata = ensureMetadata(metadata)
		metadata["name"] = name
	}
	return Event{
		Verb:       verb,
		ObjectType: ObjectTypeParams,
		ObjectID:   strings.TrimSpace(input.ContainerID),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// BuildLayerMergedEvent constructs the event emitted when a stack layer is
// folded into a merged container.
func BuildLayerMergedEvent(input MergeInput) Event {
	metadata := ensureMetadata(CloneMetadata(input.Metadata))
	metadata["keys"] = input.Keys
	if input.ResultID != "" {
		metadata["result_id"] = input.ResultID
	}
	if input.Scope.Name != "" {
		metadata["scope_name"] = input.Scope.Name
		metadata["scope_priority"] = input.Scope.Priority
		if input.Scope.Label != "" {
			metadata["scope_label"] = input.Scope.Label
		}
	}

	objectID := strings.TrimSpace(input.Scope.SnapshotID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Scope.Name)
	}
	if objectID == "" {
		objectID = ObjectTypeLayer
	}
	return Event{
		Verb:       VerbMerged,
		ObjectType: ObjectTypeLayer,
		ObjectID:   objectID,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
