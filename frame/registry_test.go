package frame

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		index int
	}{
		{"missing graph", `{"@context":{}}`, -1},
		{"graph not a list", `{"@graph":"x"}`, -1},
		{"record not an object", `{"@graph":[{"@id":"a"},"b"]}`, 1},
		{"record without id", `{"@graph":[{"@id":"a"},{"name":"b"}]}`, 1},
		{"non-string id", `{"@graph":[{"@id":3}]}`, 0},
		{"nested list", `{"@graph":[{"@id":"a","p":[[1]]}]}`, 0},
		{"document not an object", `[{"@id":"a"}]`, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(decode(t, tt.input), DefaultOptions())
			if !errors.Is(err, ErrMalformedGraph) {
				t.Fatalf("expected ErrMalformedGraph, got %v", err)
			}
			if Code(err) != ErrCodeMalformedGraph {
				t.Fatalf("unexpected code %s", Code(err))
			}
			var graphErr *GraphError
			if !errors.As(err, &graphErr) {
				t.Fatalf("expected *GraphError, got %T", err)
			}
			if graphErr.Index != tt.index {
				t.Fatalf("expected index %d, got %d", tt.index, graphErr.Index)
			}
		})
	}
}

func TestLoadSingleObjectGraph(t *testing.T) {
	reg, err := Load(decode(t, `{"@graph":{"@id":"a","p":"v"}}`), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 resource, got %d", reg.Len())
	}
}

func TestLoadObjects(t *testing.T) {
	input := `{"@graph":[{"@id":"a",
		"lit":"x",
		"ref":{"@id":"b"},
		"typed":{"@type":"xsd:int","@value":"1"},
		"embedded":{"@id":"_:e","v":1},
		"anon":{"v":2},
		"mixed":["y",{"@id":"c"}]}]}`
	reg, err := Load(decode(t, input), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	res, ok := reg.Lookup("a")
	if !ok {
		t.Fatal("resource a not found")
	}
	if got := strings.Join(res.Names(), ","); got != "lit,ref,typed,embedded,anon,mixed" {
		t.Fatalf("unexpected property order %s", got)
	}
	kinds := map[string]ObjectKind{
		"lit":      ObjectLiteral,
		"ref":      ObjectReference,
		"typed":    ObjectLiteral,
		"embedded": ObjectResource,
		"anon":     ObjectResource,
	}
	for name, kind := range kinds {
		objs := res.Get(name)
		if len(objs) != 1 || objs[0].Kind() != kind {
			t.Errorf("%s: expected one %v, got %v", name, kind, objs)
		}
	}
	if lit := res.Get("typed")[0].(Literal); lit.Datatype != "xsd:int" || lit.Value != "1" {
		t.Errorf("unexpected typed literal %+v", lit)
	}
	if emb := res.Get("embedded")[0].(*Resource); emb.ID != "_:e" || emb.Has("@id") {
		t.Errorf("unexpected embedded resource %+v", emb)
	}
	if anon := res.Get("anon")[0].(*Resource); anon.ID != "" || !anon.IsBlank() {
		t.Errorf("anonymous resource should be blank: %+v", anon)
	}
	if mixed := res.Get("mixed"); len(mixed) != 2 || mixed[1].(Reference).Target != "c" {
		t.Errorf("unexpected mixed objects %v", mixed)
	}
}

func TestLoadDuplicateIDs(t *testing.T) {
	input := `{"@graph":[{"@id":"a","v":1},{"@id":"b"},{"@id":"a","v":2}]}`
	reg, err := Load(decode(t, input), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 resources, got %d", reg.Len())
	}
	resources := reg.Resources()
	if resources[0].ID != "a" || resources[1].ID != "b" {
		t.Fatalf("unexpected order %v", resources)
	}
	if v := resources[0].Get("v")[0].(Literal).Value; v != int64(2) {
		t.Fatalf("expected last record to win, got %v", v)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	first, err := Load(decode(t, `{"@graph":[{"@id":"a"}]}`), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := Load(decode(t, `{"@graph":[{"@id":"b"}]}`), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := first.Lookup("b"); ok {
		t.Fatal("first registry sees resources of the second")
	}
	if _, ok := second.Lookup("a"); ok {
		t.Fatal("second registry sees resources of the first")
	}
}

func TestDetectFields(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    Fields
	}{
		{"none", `null`, Fields{ID: "@id", Type: "@type"}},
		{"string", `"https://example.org/context.jsonld"`, Fields{ID: "@id", Type: "@type"}},
		{"object", `{"$id":"@id","isA":"@type","dct":"http://purl.org/dc/terms/"}`, Fields{ID: "$id", Type: "isA"}},
		{"array", `["https://example.org/c.jsonld",{"id":"@id"},{"type":"@type"}]`, Fields{ID: "id", Type: "type"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectFields(decode(t, tt.context), DefaultFields())
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadHeaderIsCopy(t *testing.T) {
	reg, err := Load(decode(t, `{"@context":"c","@graph":[]}`), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	reg.Header().Set("@context", "changed")
	if v, _ := reg.Header().Get("@context"); v != "c" {
		t.Fatalf("header was mutated: %v", v)
	}
}
