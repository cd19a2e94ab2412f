package layer

// Attribute is a named GPU-bound numeric buffer owned by one layer
// instance. It is created on first need, marked dirty when a change
// report implicates it, and cleared to clean when re-populated. The
// external rendering collaborator fills the buffer; this core only
// tracks the dirty state.
type Attribute struct {
	Name  string
	Value []float64

	dirty bool
}

// Dirty reports whether the attribute needs recomputation.
func (a *Attribute) Dirty() bool { return a.dirty }

// MarkDirty flags the attribute for recomputation.
func (a *Attribute) MarkDirty() { a.dirty = true }

// Fill replaces the attribute's buffer and clears the dirty flag.
func (a *Attribute) Fill(value []float64) {
	a.Value = value
	a.dirty = false
}
