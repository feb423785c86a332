package document

// Slot is the state of a key in one version of a document: either a present
// Value or absent. A present null and an absent key are different states.
type Slot struct {
	Value   Value
	Present bool
}

// Present returns a slot holding v
func Present(v Value) Slot { return Slot{Value: v, Present: true} }

// Absent returns the empty slot
func Absent() Slot { return Slot{} }

// Equal reports whether two slots hold the same state
func (s Slot) Equal(o Slot) bool {
	if s.Present != o.Present {
		return false
	}
	if !s.Present {
		return true
	}
	return Equal(s.Value, o.Value)
}
