package frame

// Types returns the distinct type names used by registry resources, in
// order of first appearance. Nested input resources are included.
func Types(reg *Registry) []string {
	var out []string
	seen := map[string]bool{}
	typeField := reg.Fields().Type
	var visit func(res *Resource)
	visit = func(res *Resource) {
		for _, typ := range resourceTypes(res, typeField) {
			if !seen[typ] {
				seen[typ] = true
				out = append(out, typ)
			}
		}
		for _, p := range res.Properties {
			for _, obj := range p.Objects {
				if nested, ok := obj.(*Resource); ok {
					visit(nested)
				}
			}
		}
	}
	for _, res := range reg.Resources() {
		visit(res)
	}
	return out
}
