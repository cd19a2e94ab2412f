package layer

import (
	"fmt"
	"reflect"
)

// Sequence is a finite, forward-only stream of data elements. Data
// props that are not slices or arrays implement it so instance counts
// can be derived by iterating the data fully once, with no
// random-access requirement.
type Sequence interface {
	// Each calls fn for every element in order, stopping early when fn
	// returns false. Iteration failures surface as ComparatorError on
	// the update cycle that triggered the count.
	Each(fn func(element any) bool) error
}

// Count derives the number of elements in a data prop. Slices and
// arrays report their length; a Sequence is iterated fully once; nil
// data counts zero.
func Count(data any) (int, error) {
	if data == nil {
		return 0, nil
	}
	if seq, ok := data.(Sequence); ok {
		n := 0
		if err := seq.Each(func(any) bool {
			n++
			return true
		}); err != nil {
			return 0, err
		}
		return n, nil
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), nil
	default:
		return 0, fmt.Errorf("data of type %T is not countable", data)
	}
}

// SliceSequence adapts a plain slice to the Sequence interface.
type SliceSequence []any

// Each implements Sequence.
func (s SliceSequence) Each(fn func(element any) bool) error {
	for _, el := range s {
		if !fn(el) {
			return nil
		}
	}
	return nil
}
