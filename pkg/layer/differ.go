package layer

import "errors"

// ChangeReport is the structured result of diffing one layer's previous
// and next props.
type ChangeReport struct {
	// ChangedProps holds every prop key whose value changed under its
	// declared rule.
	ChangedProps map[string]struct{}

	// DataChanged is true when the data prop changed. It is the
	// strongest invalidation signal: every attribute recomputes,
	// regardless of update trigger content.
	DataChanged bool

	// ChangedTriggers holds accessor names whose update trigger value
	// changed, independent of data identity.
	ChangedTriggers map[string]struct{}
}

// Changed reports whether the given prop key changed.
func (r *ChangeReport) Changed(key string) bool {
	_, ok := r.ChangedProps[key]
	return ok
}

// Empty reports whether nothing changed.
func (r *ChangeReport) Empty() bool {
	return len(r.ChangedProps) == 0 && !r.DataChanged && len(r.ChangedTriggers) == 0
}

// Diff compares previous and next props under the descriptor's rules.
//
// A nil prev means first mount: every key counts as changed and
// DataChanged is true. A key absent from next but present in prev is
// compared against its declared default. Update triggers are compared
// keywise by identity. Comparator failures return a ComparatorError and
// no report.
func Diff(prev, next Props, d *Descriptor) (*ChangeReport, error) {
	report := &ChangeReport{
		ChangedProps:    make(map[string]struct{}),
		ChangedTriggers: make(map[string]struct{}),
	}

	if prev == nil {
		for key := range keyUnion(nil, next, d) {
			report.ChangedProps[key] = struct{}{}
		}
		report.DataChanged = true
		for key := range triggers(next) {
			report.ChangedTriggers[key] = struct{}{}
		}
		return report, nil
	}

	for key := range keyUnion(prev, next, d) {
		oldVal := valueOf(prev, key, d)
		newVal := valueOf(next, key, d)

		changed, err := compareProp(key, oldVal, newVal, d)
		if err != nil {
			return nil, &ComparatorError{Prop: key, Err: err}
		}
		if !changed {
			continue
		}
		report.ChangedProps[key] = struct{}{}
		if key == PropData {
			report.DataChanged = true
		}
	}

	prevTriggers := triggers(prev)
	nextTriggers := triggers(next)
	for key := range triggerKeyUnion(prevTriggers, nextTriggers) {
		if !shallowEqual(prevTriggers[key], nextTriggers[key]) {
			report.ChangedTriggers[key] = struct{}{}
		}
	}

	return report, nil
}

// compareProp applies the declared rule for one key and reports whether
// the value changed.
func compareProp(key string, oldVal, newVal any, d *Descriptor) (bool, error) {
	if key == PropData && d.DataComparator != nil {
		equal, err := d.DataComparator(oldVal, newVal)
		return !equal, err
	}
	rule, declared := d.Rules[key]
	if !declared {
		return !shallowEqual(oldVal, newVal), nil
	}
	switch rule.Kind {
	case RuleAlways:
		return true, nil
	case RuleCustom:
		if rule.Compare == nil {
			return false, errors.New("custom rule has no comparator")
		}
		equal, err := rule.Compare(oldVal, newVal)
		return !equal, err
	default:
		return !shallowEqual(oldVal, newVal), nil
	}
}

// valueOf resolves a prop value, falling back to the declared default
// for keys absent from the props.
func valueOf(p Props, key string, d *Descriptor) any {
	if v, ok := p[key]; ok {
		return v
	}
	return d.DefaultProps[key]
}

// keyUnion collects every key to diff: declared rules, declared
// defaults and keys present in either prop set. The updateTriggers
// container itself is diffed keywise, not as a prop.
func keyUnion(prev, next Props, d *Descriptor) map[string]struct{} {
	keys := make(map[string]struct{})
	for key := range d.Rules {
		keys[key] = struct{}{}
	}
	for key := range d.DefaultProps {
		keys[key] = struct{}{}
	}
	for key := range prev {
		keys[key] = struct{}{}
	}
	for key := range next {
		keys[key] = struct{}{}
	}
	delete(keys, PropUpdateTriggers)
	return keys
}

// triggers extracts the update trigger mapping from props, tolerating
// both map[string]any and Props values.
func triggers(p Props) map[string]any {
	switch t := p[PropUpdateTriggers].(type) {
	case map[string]any:
		return t
	case Props:
		return t
	default:
		return nil
	}
}

func triggerKeyUnion(prev, next map[string]any) map[string]struct{} {
	keys := make(map[string]struct{}, len(prev)+len(next))
	for key := range prev {
		keys[key] = struct{}{}
	}
	for key := range next {
		keys[key] = struct{}{}
	}
	return keys
}
