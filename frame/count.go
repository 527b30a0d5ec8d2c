package frame

// Counts maps a resource id to the number of references targeting it.
type Counts map[string]int

// CountReferences visits every resource of reg once and counts, for each
// target id, the references found among its property objects. Embedded
// resources of the input are visited as part of their record.
// Every registry id has an entry; dangling targets are counted as well.
func CountReferences(reg *Registry) Counts {
	counts := make(Counts, reg.Len())
	for _, id := range reg.order {
		counts[id] += 0
	}
	var visit func(res *Resource)
	visit = func(res *Resource) {
		for _, p := range res.Properties {
			for _, obj := range p.Objects {
				switch o := obj.(type) {
				case Reference:
					counts[o.Target]++
				case *Resource:
					visit(o)
				}
			}
		}
	}
	for _, id := range reg.order {
		visit(reg.byID[id])
	}
	return counts
}

// Roots returns the registry resources nothing references, in source order.
func (c Counts) Roots(reg *Registry) []*Resource {
	var roots []*Resource
	for _, id := range reg.order {
		if c[id] == 0 {
			roots = append(roots, reg.byID[id])
		}
	}
	return roots
}

// Dangling returns referenced ids that are absent from the registry, in
// order of first appearance.
func (r *Registry) Dangling() []string {
	var out []string
	seen := map[string]bool{}
	var visit func(res *Resource)
	visit = func(res *Resource) {
		for _, p := range res.Properties {
			for _, obj := range p.Objects {
				switch o := obj.(type) {
				case Reference:
					if _, ok := r.byID[o.Target]; !ok && !seen[o.Target] {
						seen[o.Target] = true
						out = append(out, o.Target)
					}
				case *Resource:
					visit(o)
				}
			}
		}
	}
	for _, res := range r.Resources() {
		visit(res)
	}
	return out
}
