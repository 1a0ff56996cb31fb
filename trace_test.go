package params

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func traceStack(t testing.TB) *Stack {
	t.Helper()
	defaults := mustLayer(t, NewScope("defaults", 10), map[string]any{
		"name":   "defaults",
		"labels": map[string]any{"env": "prod"},
		"limits": map[string]any{"daily": 100, "monthly": 500},
	}, WithSnapshotID("defaults/1"))
	user := mustLayer(t, NewScope("user", 20), map[string]any{
		"labels": map[string]any{"env": "staging", "team": "core"},
		"limits": map[string]any{"daily": 80},
	}, WithSnapshotID("user/5"))
	stack, err := NewStack(defaults, user)
	if err != nil {
		t.Fatalf("stack: %v", err)
	}
	return stack
}

func TestResolveReturnsLayerProvenance(t *testing.T) {
	value, trace, err := traceStack(t).Resolve("labels.env")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if value != "staging" {
		t.Fatalf("expected user override, got %v", value)
	}
	if len(trace.Layers) != 2 {
		t.Fatalf("expected 2 provenance entries, got %d", len(trace.Layers))
	}
	if !trace.Layers[0].Found || trace.Layers[0].Scope.Name != "user" || trace.Layers[0].SnapshotID != "user/5" {
		t.Fatalf("expected first layer to be user and found, got %+v", trace.Layers[0])
	}
	if !trace.Layers[1].Found || trace.Layers[1].Value != "prod" {
		t.Fatalf("expected defaults layer to provide fallback value, got %+v", trace.Layers[1])
	}
	winner, ok := trace.Winner()
	if !ok || winner.Scope.Name != "user" {
		t.Fatalf("expected user to win, got %+v", winner)
	}
}

func TestResolveMissingInStrongerLayer(t *testing.T) {
	value, trace, err := traceStack(t).Resolve("name")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if value != "defaults" {
		t.Fatalf("expected defaults value, got %v", value)
	}
	if trace.Layers[0].Found {
		t.Fatalf("user layer does not hold name")
	}
	winner, _ := trace.Winner()
	if winner.Scope.Name != "defaults" {
		t.Fatalf("expected defaults to win, got %+v", winner)
	}
}

func TestFlattenAttributesLeaves(t *testing.T) {
	results, err := traceStack(t).Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	got := map[string]string{}
	var paths []string
	for _, prov := range results {
		got[prov.Path] = prov.Scope.Name
		paths = append(paths, prov.Path)
	}
	want := map[string]string{
		"name":           "defaults",
		"labels.env":     "user",
		"labels.team":    "user",
		"limits.daily":   "user",
		"limits.monthly": "defaults",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attribution mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"labels.env", "labels.team", "limits.daily", "limits.monthly", "name"}, paths); diff != "" {
		t.Fatalf("flatten order mismatch (-want +got):\n%s", diff)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	_, trace, err := traceStack(t).Resolve("limits.daily")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if decoded.Path != "limits.daily" || len(decoded.Layers) != 2 {
		t.Fatalf("unexpected decoded trace %+v", decoded)
	}
	// JSON numbers decode as float64.
	if decoded.Layers[0].Value != float64(80) || decoded.Layers[1].Value != float64(100) {
		t.Fatalf("unexpected decoded values %+v", decoded.Layers)
	}
	if _, err := TraceFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func BenchmarkResolve(b *testing.B) {
	layers := make([]Layer, 10)
	for i := range layers {
		name := fmt.Sprintf("layer_%d", i)
		layers[i] = mustLayer(b, NewScope(name, 100-i), map[string]any{
			"name":   name,
			"labels": map[string]any{"env": name},
			"limits": map[string]any{"daily": 100 - i, "weekly": 700 - i*10},
		})
	}
	stack, err := NewStack(layers...)
	if err != nil {
		b.Fatalf("stack: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := stack.Resolve("limits.weekly"); err != nil {
			b.Fatalf("resolve: %v", err)
		}
	}
}
