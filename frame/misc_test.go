package frame

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestTypes(t *testing.T) {
	input := `{"@context":{"isA":"@type"},"@graph":[
		{"@id":"a","isA":["Dataset","Resource"],"dist":{"isA":"Distribution"}},
		{"@id":"b","isA":"Dataset"},
		{"@id":"c"}]}`
	reg, err := Load(decode(t, input), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"Dataset", "Resource", "Distribution"}
	if got := Types(reg); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestToDOT(t *testing.T) {
	input := `{"@graph":[
		{"@id":"a","p":{"@id":"b"},"e":{"q":{"@id":"gone"}}},
		{"@id":"b"}]}`
	reg, err := Load(decode(t, input), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dot := ToDOT(reg, CountReferences(reg))
	for _, want := range []string{
		"digraph G {",
		`"a" [label="a\nrefs: 0", style="rounded,filled", fillcolor=lightblue];`,
		`"b" [label="b\nrefs: 1"];`,
		`"gone" [style="rounded,dashed", fontcolor=grey];`,
		`"a" -> "b" [label="p"];`,
		`"a" -> "gone" [label="q"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
}

func TestFrameAll(t *testing.T) {
	docs := []any{
		decode(t, `{"@graph":[{"@id":"a","p":{"@id":"b"}},{"@id":"b","v":1}]}`),
		decode(t, `{"@graph":[{"@id":"b","p":{"@id":"a"}},{"@id":"a","v":2}]}`),
		decode(t, `{"@graph":[{"@id":"x"},{"@id":"y"}]}`),
	}
	out, err := FrameAll(context.Background(), docs, DefaultOptions(), 2)
	if err != nil {
		t.Fatalf("frame all: %v", err)
	}
	want := []string{
		`{"@id":"a","p":{"@id":"b","v":1}}`,
		`{"@id":"b","p":{"@id":"a","v":2}}`,
		`{"@graph":[{"@id":"x"},{"@id":"y"}]}`,
	}
	for i := range want {
		if got := toJSON(t, out[i]); got != want[i] {
			t.Errorf("document %d: got %s, want %s", i, got, want[i])
		}
	}
}

func TestFrameAllStopsOnError(t *testing.T) {
	docs := []any{
		decode(t, `{"@graph":[{"@id":"a"}]}`),
		decode(t, `{"@context":{}}`),
	}
	_, err := FrameAll(context.Background(), docs, DefaultOptions(), 0)
	if !errors.Is(err, ErrMalformedGraph) {
		t.Fatalf("expected ErrMalformedGraph, got %v", err)
	}
	var batchErr *BatchError
	if !errors.As(err, &batchErr) || batchErr.Index != 1 {
		t.Fatalf("expected BatchError for document 1, got %v", err)
	}
	if !strings.Contains(err.Error(), "document 1") {
		t.Fatalf("error does not name the document: %v", err)
	}
}

func TestFrameAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FrameAll(ctx, []any{decode(t, `{"@graph":[]}`)}, DefaultOptions(), 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions(OptFields("$id", "isA"), OptMaxDepth(5), OptDetectCycles(), OptOrder(OrderTable{"T": {"a"}}))
	if opts.Fields != (Fields{ID: "$id", Type: "isA"}) || opts.MaxDepth != 5 || !opts.DetectCycles || len(opts.Order) != 1 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if got := normalizeOptions(Options{}); got.MaxDepth != DefaultMaxDepth || got.DetectCycles {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if got := normalizeOptions(Options{MaxDepth: -1}); !got.DetectCycles {
		t.Fatal("disabling the ceiling must enable cycle detection")
	}
}
