package document

import (
	"fmt"
	"iter"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
	// KindConflict marks an unresolved conflict left in a merged tree.
	// Parse never produces it.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a node of a document tree. The zero Value is null.
//
// Map values share their backing storage between copies, so Set on a copy
// is visible through the original.
type Value struct {
	kind Kind
	b    bool
	// s holds string content, or the literal text of a number
	s    string
	list []Value
	m    *sequencedmap.Map[string, Value]
	id   int
}

// Entry is a key/value pair used to build maps
type Entry struct {
	Key   string
	Value Value
}

// Null returns the null value
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value holding the literal text lit
func Number(lit string) Value { return Value{kind: KindNumber, s: lit} }

// String returns a string value
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list value holding items in order
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Map returns a map value holding entries in order. A repeated key keeps its
// first position and its last value.
func Map(entries ...Entry) Value {
	v := Value{kind: KindMap, m: sequencedmap.New[string, Value]()}
	for _, e := range entries {
		v.m.Set(e.Key, e.Value)
	}
	return v
}

// Conflict returns a node standing in for the conflict record with the given id
func Conflict(id int) Value { return Value{kind: KindConflict, id: id} }

// Kind returns the variant of v
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) IsMap() bool      { return v.kind == KindMap }
func (v Value) IsList() bool     { return v.kind == KindList }
func (v Value) IsString() bool   { return v.kind == KindString }
func (v Value) IsConflict() bool { return v.kind == KindConflict }

// BoolValue returns the boolean held by v
func (v Value) BoolValue() bool { return v.b }

// Str returns the content of a string value
func (v Value) Str() string { return v.s }

// Literal returns the literal text of a number value
func (v Value) Literal() string { return v.s }

// ConflictID returns the conflict record id of a conflict node
func (v Value) ConflictID() int { return v.id }

// Items returns the elements of a list value
func (v Value) Items() []Value { return v.list }

// Len returns the number of elements of a list or entries of a map
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		if v.m == nil {
			return 0
		}
		return v.m.Len()
	}
	return 0
}

// Get returns the value stored under key in a map
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap || v.m == nil {
		return Value{}, false
	}
	return v.m.Get(key)
}

// Has reports whether a map holds key
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Lookup resolves key to a Slot. Non-map values hold no keys.
func (v Value) Lookup(key string) Slot {
	if val, ok := v.Get(key); ok {
		return Present(val)
	}
	return Absent()
}

// Set stores val under key. New keys are appended, existing keys keep their
// position. Set panics if v is not a map.
func (v Value) Set(key string, val Value) {
	if v.kind != KindMap || v.m == nil {
		panic(fmt.Sprintf("document: Set on %s value", v.kind))
	}
	v.m.Set(key, val)
}

// Entries iterates a map in insertion order
func (v Value) Entries() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if v.kind != KindMap || v.m == nil {
			return
		}
		for key, val := range v.m.All() {
			if !yield(key, val) {
				return
			}
		}
	}
}

// Keys returns the keys of a map in insertion order
func (v Value) Keys() []string {
	keys := make([]string, 0, v.Len())
	for key := range v.Entries() {
		keys = append(keys, key)
	}
	return keys
}

// Clone returns a shallow copy of a map, so entries can be replaced without
// touching v. Other kinds are returned as is.
func (v Value) Clone() Value {
	if v.kind != KindMap {
		return v
	}
	out := Map()
	for key, val := range v.Entries() {
		out.Set(key, val)
	}
	return out
}
