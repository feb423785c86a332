package document

// Equal reports deep structural equality. Map key order is ignored, list
// order is not. Numbers compare by literal text, so 1 and 1.0 differ.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber, KindString:
		return a.s == b.s
	case KindConflict:
		return a.id == b.id
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if a.Len() != b.Len() {
			return false
		}
		for key, av := range a.Entries() {
			bv, ok := b.Get(key)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
