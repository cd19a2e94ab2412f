package layer

import "fmt"

// ComparatorError reports a failure raised by a custom prop comparator
// or by data iteration during an update cycle. The cycle it aborts
// leaves the layer's previous props and attribute state untouched, so
// the prior state remains valid for one more frame.
type ComparatorError struct {
	Prop string
	Err  error
}

func (e *ComparatorError) Error() string {
	return fmt.Sprintf("layer: comparing prop %q: %v", e.Prop, e.Err)
}

func (e *ComparatorError) Unwrap() error { return e.Err }

// DuplicateIDError reports an attempt to register a layer id that is
// already live.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("layer: id %q is already registered", e.ID)
}
