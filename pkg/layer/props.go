// Package layer implements the prop diffing and attribute invalidation
// cycle for rendering layers: deciding, on every prop update, which
// derived GPU-facing buffers must be recomputed.
package layer

import (
	"fmt"
	"reflect"
)

// Props is one layer instance's property set. Values are treated as
// immutable once an update cycle completes.
type Props map[string]any

// Reserved prop keys with built-in semantics.
const (
	// PropData is the layer's data container. An identity change
	// invalidates every attribute.
	PropData = "data"

	// PropUpdateTriggers maps accessor names to opaque trigger values.
	// A trigger value change invalidates the accessor's attributes.
	PropUpdateTriggers = "updateTriggers"

	// PropNumInstances overrides the derived instance count.
	PropNumInstances = "numInstances"

	// PropVisible and PropOpacity are visual props that force a
	// rerender without invalidating attributes.
	PropVisible = "visible"
	PropOpacity = "opacity"
)

// Clone returns a shallow copy of the props.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// RuleKind selects the comparison strategy for one prop key.
type RuleKind uint8

const (
	// RuleShallow compares by reference or primitive equality.
	RuleShallow RuleKind = iota

	// RuleCustom compares with a supplied comparator function.
	RuleCustom

	// RuleAlways marks the key changed on every update.
	RuleAlways
)

// Comparator compares a previous and next prop value. A false result
// marks the prop changed. Errors propagate as ComparatorError and abort
// the update cycle.
type Comparator func(old, new any) (equal bool, err error)

// Rule is the declared comparison rule for one prop key.
type Rule struct {
	Kind    RuleKind
	Compare Comparator // required for RuleCustom
}

// Descriptor is the shared, read-only record defining one layer type:
// its name, default props, per-key comparison rules and the mapping
// from accessor names to the attributes they populate. One Descriptor
// is shared by every instance of the type.
type Descriptor struct {
	// Name is the layer type name, used as a prefix for generated ids.
	Name string

	// DefaultProps supplies values for keys absent from an instance's
	// props. A key that disappears between updates reverts to its
	// default and counts as changed if the default differs.
	DefaultProps Props

	// Rules maps prop keys to comparison rules. Undeclared keys
	// compare shallowly.
	Rules map[string]Rule

	// DataComparator, when set, replaces shallow comparison for the
	// data prop entirely.
	DataComparator Comparator

	// AccessorAttributes maps accessor names to the attributes they
	// populate.
	AccessorAttributes map[string][]string

	// AttributePropDeps maps attribute names to non-accessor prop keys
	// they depend on. A change to such a prop invalidates the
	// attribute.
	AttributePropDeps map[string][]string
}

// Validate checks that the descriptor is internally consistent.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("layer: descriptor has no name")
	}
	for key, rule := range d.Rules {
		if rule.Kind == RuleCustom && rule.Compare == nil {
			return fmt.Errorf("layer: prop %q declares a custom rule without a comparator", key)
		}
	}
	return nil
}

// attributeNames returns every attribute the descriptor knows about.
func (d *Descriptor) attributeNames() map[string]struct{} {
	out := make(map[string]struct{})
	for _, attrs := range d.AccessorAttributes {
		for _, a := range attrs {
			out[a] = struct{}{}
		}
	}
	for a := range d.AttributePropDeps {
		out[a] = struct{}{}
	}
	return out
}

// shallowEqual compares two values by identity: pointer equality for
// reference types (maps, slices, funcs, channels, pointers) and ==
// for comparable primitives. This identity semantic is first-class: a
// new container with equal contents still counts as changed.
func shallowEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	}
	if !av.Comparable() {
		return false
	}
	return a == b
}
