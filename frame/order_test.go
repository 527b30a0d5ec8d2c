package frame

import (
	"errors"
	"strings"
	"testing"
)

func TestOrderDataset(t *testing.T) {
	input := `{"@graph":[{"@id":"d","title":"T","isA":"Dataset","abstract":"A"}]}`
	out := mustFrame(t, input, Options{
		Fields: Fields{Type: "isA"},
		Order:  OrderTable{"Dataset": {"abstract", "title"}},
	})
	if got := strings.Join(out.Keys(), ","); got != "@id,abstract,title,isA" {
		t.Fatalf("unexpected order %s", got)
	}
}

func TestOrderSkipsAbsentAndUnknown(t *testing.T) {
	table := OrderTable{"Dataset": {"missing", "b", "b"}}
	res := &Resource{ID: "x", Properties: []Property{
		{Name: "a", Objects: []Object{Literal{Value: 1}}},
		{Name: "@type", Objects: []Object{Literal{Value: "Dataset"}}},
		{Name: "b", Objects: []Object{Literal{Value: 2}}},
	}}
	got := table.Apply(res, DefaultFields())
	if names := strings.Join(got.Names(), ","); names != "b,a,@type" {
		t.Fatalf("unexpected order %s", names)
	}
	if names := strings.Join(res.Names(), ","); names != "a,@type,b" {
		t.Fatalf("input was modified: %s", names)
	}

	untyped := &Resource{ID: "y", Properties: []Property{{Name: "b"}, {Name: "a"}}}
	if names := strings.Join(table.Apply(untyped, DefaultFields()).Names(), ","); names != "b,a" {
		t.Fatalf("untyped resource reordered: %s", names)
	}
	other := &Resource{ID: "z", Properties: []Property{
		{Name: "b"},
		{Name: "@type", Objects: []Object{Literal{Value: "Other"}}},
	}}
	if names := strings.Join(table.Apply(other, DefaultFields()).Names(), ","); names != "b,@type" {
		t.Fatalf("resource with unknown type reordered: %s", names)
	}
}

func TestOrderFirstMatchWins(t *testing.T) {
	table := OrderTable{
		"A": {"a"},
		"B": {"b"},
	}
	res := func(types ...any) *Resource {
		objs := make([]Object, len(types))
		for i, typ := range types {
			objs[i] = Literal{Value: typ}
		}
		return &Resource{Properties: []Property{
			{Name: "@type", Objects: objs},
			{Name: "b"},
			{Name: "a"},
		}}
	}
	if names := strings.Join(table.Apply(res("A", "B"), DefaultFields()).Names(), ","); names != "a,@type,b" {
		t.Fatalf("expected A to win: %s", names)
	}
	if names := strings.Join(table.Apply(res("X", "B"), DefaultFields()).Names(), ","); names != "b,@type,a" {
		t.Fatalf("expected B to be used: %s", names)
	}
}

func TestOrderRecursesIntoNestedResources(t *testing.T) {
	input := `{"@graph":[
		{"@id":"d","@type":"Dataset","publisher":{"@id":"o"},"title":"T"},
		{"@id":"o","mbox":"m","@type":"Organization","name":"N"}]}`
	out := mustFrame(t, input, NewOptions(OptOrder(OrderTable{
		"Dataset":      {"title"},
		"Organization": {"name", "mbox"},
	})))
	want := `{"@id":"d","title":"T","@type":"Dataset","publisher":{"@id":"o","name":"N","mbox":"m","@type":"Organization"}}`
	if got := toJSON(t, out); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestOrderIdempotent(t *testing.T) {
	input := `{"@graph":[
		{"@id":"d","@type":"Dataset","z":1,"publisher":{"@id":"o"},"title":"T"},
		{"@id":"o","mbox":"m","@type":"Organization","name":"N"}]}`
	table := OrderTable{"Dataset": {"title", "publisher"}, "Organization": {"name"}}
	reg, err := Load(decode(t, input), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	roots, err := NewFramer(reg, CountReferences(reg), DefaultOptions()).Frame()
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	once := table.Apply(roots[0], reg.Fields())
	twice := table.Apply(once, reg.Fields())
	a := toJSON(t, once.Encode(reg.Fields(), 0))
	b := toJSON(t, twice.Encode(reg.Fields(), 0))
	if a != b {
		t.Fatalf("ordering is not idempotent:\n%s\n%s", a, b)
	}

	m := once.Encode(reg.Fields(), 0)
	if c := toJSON(t, table.ApplyMap(table.ApplyMap(m, reg.Fields()), reg.Fields())); c != a {
		t.Fatalf("map ordering is not idempotent:\n%s\n%s", a, c)
	}
}

func TestOrderApplyMap(t *testing.T) {
	doc := decode(t, `{"@context":"c","b":1,"@type":["Other","Dataset"],"a":2,
		"parts":[{"@type":"Part","y":1,"x":2},"lit"]}`)
	table := OrderTable{"Dataset": {"a", "b"}, "Part": {"x"}}
	got := toJSON(t, table.ApplyMap(doc.(*Map), DefaultFields()))
	want := `{"@context":"c","a":2,"b":1,"@type":["Other","Dataset"],"parts":[{"x":2,"@type":"Part","y":1},"lit"]}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestLoadOrderTable(t *testing.T) {
	input := `
classes:
  Dataset:
    - title
    - abstract
  Organization: [name]
`
	table, err := LoadOrderTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(table["Dataset"], ","); got != "title,abstract" {
		t.Fatalf("unexpected Dataset entry %s", got)
	}
	if got := strings.Join(table["Organization"], ","); got != "name" {
		t.Fatalf("unexpected Organization entry %s", got)
	}
}

func TestLoadOrderTableInvalid(t *testing.T) {
	for _, input := range []string{"", "other: 1\n", "classes: [a, b]\n"} {
		_, err := LoadOrderTable(strings.NewReader(input))
		if !errors.Is(err, ErrInvalidOrderTable) {
			t.Errorf("%q: expected ErrInvalidOrderTable, got %v", input, err)
		}
		if Code(err) != ErrCodeInvalidOrderTable {
			t.Errorf("%q: unexpected code %s", input, Code(err))
		}
	}
}

func TestSortGraph(t *testing.T) {
	input := `{"@context":{"$id":"@id","isA":"@type"},"@graph":[
		{"$id":"_:x","isA":"IMT","value":"application/xml","label":"XML"},
		{"$id":"d","isA":"Dataset","fmt":{"$id":"_:x"}}]}`
	out, err := SortGraph(decode(t, input), OrderTable{"IMT": {"label", "value"}}, DefaultOptions())
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	want := `{"@context":{"$id":"@id","isA":"@type"},"@graph":[` +
		`{"$id":"_:x","label":"XML","value":"application/xml","isA":"IMT"},` +
		`{"$id":"d","isA":"Dataset","fmt":{"$id":"_:x"}}]}`
	if got := toJSON(t, out); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestOrderApplyMapMatchesApply(t *testing.T) {
	input := `{"@graph":[{"@id":"d","title":"T","@type":"Dataset","abstract":"A","isA":1}]}`
	table := OrderTable{"Dataset": {"abstract", "@id", "title"}}
	reg, err := Load(decode(t, input), DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	res := reg.Resources()[0]
	fromResource := toJSON(t, table.Apply(res, reg.Fields()).Encode(reg.Fields(), 0))
	fromMap := toJSON(t, table.ApplyMap(res.Encode(reg.Fields(), 0), reg.Fields()))
	if fromResource != fromMap {
		t.Fatalf("orderings differ:\n%s\n%s", fromResource, fromMap)
	}
	want := `{"@id":"d","abstract":"A","title":"T","@type":"Dataset","isA":1}`
	if fromMap != want {
		t.Fatalf("got %s, want %s", fromMap, want)
	}
}

func TestSortGraphNestedDocument(t *testing.T) {
	input := `{"@context":{"$id":"@id","isA":"@type"},"$id":"d","isA":"Dataset","z":1,"title":"T",
		"fmt":{"$id":"_:x","isA":"IMT","value":"application/xml","label":"XML"}}`
	table := OrderTable{"Dataset": {"title"}, "IMT": {"label", "value"}}
	out, err := SortGraph(decode(t, input), table, DefaultOptions())
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	want := `{"@context":{"$id":"@id","isA":"@type"},"$id":"d","title":"T","isA":"Dataset","z":1,` +
		`"fmt":{"$id":"_:x","label":"XML","value":"application/xml","isA":"IMT"}}`
	if got := toJSON(t, out); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
