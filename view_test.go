package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestViewIsReadOnly(t *testing.T) {
	c := MustNew(map[string]any{"nested": map[string]any{"a": 1}, "n": 2})
	view := c.View()

	child, ok := view.Get("nested").(View)
	if !ok {
		t.Fatalf("expected nested value exposed as View, got %T", view.Get("nested"))
	}
	if child.Get("a") != 1 || view.Get("n") != 2 {
		t.Fatalf("unexpected values through view")
	}
	if !view.Has("n") || view.Len() != 2 || !view.Mutable() {
		t.Fatalf("view accessors must mirror the container")
	}
	if value, ok := view.Lookup("missing"); ok || value != nil {
		t.Fatalf("expected missing lookup")
	}
	if view.GetOr("missing", "d") != "d" {
		t.Fatalf("expected default through view")
	}

	if err := c.Set("n", 3); err != nil {
		t.Fatalf("set: %v", err)
	}
	if view.Get("n") != 3 {
		t.Fatalf("view must observe writes to the underlying container")
	}
	for _, value := range view.All() {
		if _, leaked := value.(*Container); leaked {
			t.Fatalf("All must not leak writable containers")
		}
	}
}

func TestViewSnapshotAndQuery(t *testing.T) {
	c := MustNew(map[string]any{"a": map[string]any{"b": "c"}}, WithMutable(false))
	view := c.View()
	got, err := view.Query("a.b")
	if err != nil || got != "c" {
		t.Fatalf("expected c, got %v %v", got, err)
	}
	snapshot, err := view.ToMap()
	if err != nil {
		t.Fatalf("to map: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": map[string]any{"b": "c"}}, snapshot); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	clone, err := view.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if clone.Mutable() || !view.Equal(clone.View()) {
		t.Fatalf("clone through view must match the frozen source")
	}
	raw, err := view.MarshalJSON()
	if err != nil || string(raw) != `{"a":{"b":"c"}}` {
		t.Fatalf("unexpected json %s %v", raw, err)
	}
}

func TestViewAsInput(t *testing.T) {
	source := MustNew(map[string]any{"x": 1})
	c, err := New(source.View())
	if err != nil {
		t.Fatalf("new from view: %v", err)
	}
	if c.Get("x") != 1 {
		t.Fatalf("expected views to be accepted as data")
	}
}
