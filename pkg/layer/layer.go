package layer

import (
	"fmt"
	"math"
)

// UpdateResult is the record an update cycle hands to the external
// rendering collaborator: which GPU buffers to refill and whether to
// issue a draw call. The coordinator never touches GPU resources
// itself.
type UpdateResult struct {
	InvalidatedAttributes []string `json:"invalidatedAttributes"`
	InstanceCount         int      `json:"instanceCount"`
	NeedsRerender         bool     `json:"needsRerender"`
}

// Layer is one live layer instance: an id unique among live instances,
// the props from the last completed update cycle, per-instance state
// and the attributes derived from its data.
//
// A Layer is not safe for concurrent use. One update cycle runs to
// completion before the next starts; distinct instances share no
// mutable state and may be updated in any order.
type Layer struct {
	id   string
	desc *Descriptor
	reg  *Registry

	// State persists derived data across updates. It is owned
	// exclusively by this instance.
	State map[string]any

	props     Props // previous props for the next diff; nil before first update
	attrs     map[string]*Attribute
	count     int
	hasCount  bool
	destroyed bool
}

// New creates a layer instance and registers its id. A nil registry
// uses DefaultRegistry. The id stays registered until Destroy.
func New(id string, desc *Descriptor, reg *Registry) (*Layer, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = DefaultRegistry
	}
	if err := reg.Register(id); err != nil {
		return nil, err
	}
	return &Layer{
		id:    id,
		desc:  desc,
		reg:   reg,
		State: make(map[string]any),
		attrs: make(map[string]*Attribute),
	}, nil
}

// ID returns the layer instance id.
func (l *Layer) ID() string { return l.id }

// Descriptor returns the shared layer-type descriptor.
func (l *Layer) Descriptor() *Descriptor { return l.desc }

// Props returns the props from the last completed update cycle, nil
// before the first.
func (l *Layer) Props() Props { return l.props }

// InstanceCount returns the instance count from the last completed
// update cycle.
func (l *Layer) InstanceCount() int { return l.count }

// SubLayerID derives the id for a generated child of this layer.
func (l *Layer) SubLayerID(index int) string {
	return SubLayerID(l.id, index)
}

// Attribute returns the named attribute, creating it on first need.
func (l *Layer) Attribute(name string) *Attribute {
	a, ok := l.attrs[name]
	if !ok {
		a = &Attribute{Name: name}
		l.attrs[name] = a
	}
	return a
}

// Update runs one update cycle: diff the new props against the previous
// ones, invalidate the implicated attributes, re-derive the instance
// count and swap the previous-props snapshot.
//
// On error the cycle is a no-op: previous props, attributes and the
// cached count are left untouched and remain valid for one more frame.
func (l *Layer) Update(next Props) (*UpdateResult, error) {
	report, err := Diff(l.props, next, l.desc)
	if err != nil {
		return nil, err
	}
	invalidated := Invalidated(report, l.desc)
	count, err := l.nextCount(report, next)
	if err != nil {
		return nil, err
	}

	for _, name := range invalidated {
		l.Attribute(name).MarkDirty()
	}
	l.props = next
	l.count = count
	l.hasCount = true

	return &UpdateResult{
		InvalidatedAttributes: invalidated,
		InstanceCount:         count,
		NeedsRerender:         len(invalidated) > 0 || report.Changed(PropVisible) || report.Changed(PropOpacity),
	}, nil
}

// Destroy unregisters the layer's id and drops its attributes. The
// instance must not be used afterwards.
func (l *Layer) Destroy() {
	if l.destroyed {
		return
	}
	l.destroyed = true
	l.attrs = nil
	l.reg.Unregister(l.id)
}

// nextCount resolves the instance count for this cycle. An explicit
// numInstances prop always wins; otherwise the count is derived by
// iterating the data, and re-derived only when the data identity or
// numInstances itself changed, keeping the cached count for unchanged
// data.
func (l *Layer) nextCount(report *ChangeReport, next Props) (int, error) {
	if v := valueOf(next, PropNumInstances, l.desc); v != nil {
		n, err := toCount(v)
		if err != nil {
			return 0, &ComparatorError{Prop: PropNumInstances, Err: err}
		}
		return n, nil
	}
	if l.hasCount && !report.DataChanged && !report.Changed(PropNumInstances) {
		return l.count, nil
	}
	n, err := Count(valueOf(next, PropData, l.desc))
	if err != nil {
		return 0, &ComparatorError{Prop: PropData, Err: err}
	}
	return n, nil
}

func toCount(v any) (int, error) {
	var n int
	switch c := v.(type) {
	case int:
		n = c
	case int64:
		n = int(c)
	case float64:
		if c != math.Trunc(c) {
			return 0, fmt.Errorf("numInstances %v is not an integer", c)
		}
		n = int(c)
	default:
		return 0, fmt.Errorf("numInstances of type %T is not an integer", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("numInstances %d is negative", n)
	}
	return n, nil
}
