package frame

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMapOrderOperations(t *testing.T) {
	m := NewMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("b", 4)
	if got := strings.Join(m.Keys(), ","); got != "b,a,c" {
		t.Fatalf("unexpected keys %s", got)
	}
	if v, _ := m.Get("b"); v != 4 {
		t.Fatalf("expected overwritten value, got %v", v)
	}
	m.Delete("a")
	m.Delete("missing")
	if got := strings.Join(m.Keys(), ","); got != "b,c" {
		t.Fatalf("unexpected keys after delete %s", got)
	}
	if m.Len() != 2 {
		t.Fatalf("expected length 2, got %d", m.Len())
	}

	var seen []string
	m.Range(func(key string, _ any) bool {
		seen = append(seen, key)
		return false
	})
	if len(seen) != 1 {
		t.Fatalf("range did not stop: %v", seen)
	}
}

func TestMapCloneIsDeep(t *testing.T) {
	inner := NewMap()
	inner.Set("x", 1)
	m := NewMap()
	m.Set("inner", inner)
	m.Set("list", []any{inner})

	clone := m.Clone()
	inner.Set("x", 2)
	v, _ := clone.Get("inner")
	if x, _ := v.(*Map).Get("x"); x != 1 {
		t.Fatalf("clone shares nested map: %v", x)
	}
	list, _ := clone.Get("list")
	if x, _ := list.([]any)[0].(*Map).Get("x"); x != 1 {
		t.Fatalf("clone shares nested list item: %v", x)
	}
}

func TestMapPlainRoundTrip(t *testing.T) {
	m := FromPlain(map[string]any{"b": []any{map[string]any{"y": 1, "x": 2}}, "a": "v"}).(*Map)
	if got := toJSON(t, m); got != `{"a":"v","b":[{"x":2,"y":1}]}` {
		t.Fatalf("unexpected JSON %s", got)
	}
	plain := m.ToPlain()
	nested := plain["b"].([]any)[0].(map[string]any)
	if nested["x"] != 2 {
		t.Fatalf("unexpected plain value %v", plain)
	}
}

func TestMapMarshalJSONKeepsHTMLCharacters(t *testing.T) {
	out := mustFrame(t, `{"@graph":[
		{"@id":"http://x/csw?service=CSW&request=GetRecords","title":"a <b> c","part":{"@id":"p"}},
		{"@id":"p","note":"x & y"}]}`, DefaultOptions())

	data, err := out.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"@id":"http://x/csw?service=CSW&request=GetRecords","title":"a <b> c","part":{"@id":"p","note":"x & y"}}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.TrimSuffix(buf.String(), "\n"); got != want {
		t.Fatalf("encoder escaped output: %s", got)
	}
}

func TestMapMarshalYAML(t *testing.T) {
	doc := decode(t, `{"@context":"c","z":[1,{"b":true,"a":null}],"m":{"k":"v"}}`)
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `'@context': c
z:
    - 1
    - b: true
      a: null
m:
    k: v
`
	if string(data) != want {
		t.Fatalf("unexpected YAML:\n%s\nwant:\n%s", data, want)
	}
}

func TestDecodeJSONKeepsOrder(t *testing.T) {
	doc, err := DecodeJSON(strings.NewReader(`{"z":1,"a":{"y":2.5,"b":"s"},"m":[true,null]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m := doc.(*Map)
	if got := strings.Join(m.Keys(), ","); got != "z,a,m" {
		t.Fatalf("unexpected keys %s", got)
	}
	if v, _ := m.Get("z"); v != int64(1) {
		t.Fatalf("expected int64 1, got %T %v", v, v)
	}
	inner, _ := m.Get("a")
	if v, _ := inner.(*Map).Get("y"); v != 2.5 {
		t.Fatalf("expected 2.5, got %v", v)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	for _, input := range []string{"", "{", `{"a":1} {"b":2}`, `{"a":}`} {
		if _, err := DecodeJSON(strings.NewReader(input)); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
}

func TestDecodeYAMLKeepsOrder(t *testing.T) {
	input := `
'@context':
  $id: '@id'
'@graph':
  - $id: b
    zeta: 1
    alpha: &shared text
  - $id: a
    copy: *shared
`
	doc, err := DecodeYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `{"@context":{"$id":"@id"},"@graph":[{"$id":"b","zeta":1,"alpha":"text"},{"$id":"a","copy":"text"}]}`
	if got := toJSON(t, doc); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestDecodeYAMLEmpty(t *testing.T) {
	if _, err := DecodeYAML(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}
