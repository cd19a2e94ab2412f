package layer

import "sort"

// Invalidated translates a change report into the sorted set of
// attribute names that must be recomputed.
//
// Three signals invalidate an attribute, strongest first: a data
// identity change invalidates every attribute unconditionally, a
// changed update trigger invalidates the owning accessor's attributes,
// and a changed prop that an attribute declares as a dependency
// invalidates that attribute. Trigger keys can only add invalidations;
// they never suppress a data-identity change.
func Invalidated(r *ChangeReport, d *Descriptor) []string {
	if r.DataChanged {
		return sortedNames(d.attributeNames())
	}

	out := make(map[string]struct{})
	for accessor := range r.ChangedTriggers {
		for _, attr := range d.AccessorAttributes[accessor] {
			out[attr] = struct{}{}
		}
	}
	for attr, deps := range d.AttributePropDeps {
		for _, prop := range deps {
			if r.Changed(prop) {
				out[attr] = struct{}{}
				break
			}
		}
	}
	return sortedNames(out)
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
