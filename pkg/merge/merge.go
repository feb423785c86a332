// Package merge implements the three-way merge of document trees.
//
// Maps are reconciled key by key against the common ancestor. Edits made on
// only one side are adopted, identical edits are kept, nested maps merge
// field by field, and everything else is recorded as a Conflict whose node
// is left in the merged tree for the renderer to expand.
package merge

import (
	"github.com/arthur-debert/composer-merge/pkg/document"
)

// Merge merges ours and theirs against their common ancestor. When both
// sides are maps they are merged key by key; any other root is resolved as
// a single value and may itself become a conflict node.
func Merge(ctx *Context, ancestor, ours, theirs document.Value) document.Value {
	if ours.IsMap() && theirs.IsMap() {
		return MergeMaps(ctx, nil, ancestor, ours, theirs)
	}

	slot := resolve(ctx, nil, document.Present(ancestor), document.Present(ours), document.Present(theirs))
	return slot.Value
}

// MergeMaps merges two maps under path. A non-map ancestor counts as an
// empty map. Keys keep ours' order, followed by keys only theirs holds.
func MergeMaps(ctx *Context, path []string, ancestor, ours, theirs document.Value) document.Value {
	merged := document.Map()

	for key, ourValue := range ours.Entries() {
		slot := resolve(ctx, childPath(path, key), ancestor.Lookup(key), document.Present(ourValue), theirs.Lookup(key))
		if slot.Present {
			merged.Set(key, slot.Value)
		}
	}

	for key, theirValue := range theirs.Entries() {
		if ours.Has(key) {
			continue
		}
		slot := resolve(ctx, childPath(path, key), ancestor.Lookup(key), document.Absent(), document.Present(theirValue))
		if slot.Present {
			merged.Set(key, slot.Value)
		}
	}

	return merged
}

// resolve decides the merged state of one key
func resolve(ctx *Context, path []string, ancestor, ours, theirs document.Slot) document.Slot {
	// Identical edits, or theirs left the key alone
	if ours.Equal(theirs) || theirs.Equal(ancestor) {
		return ours
	}

	// Only theirs changed
	if ours.Equal(ancestor) {
		return theirs
	}

	if ours.Present && theirs.Present && ours.Value.IsMap() && theirs.Value.IsMap() {
		return document.Present(MergeMaps(ctx, path, ancestor.Value, ours.Value, theirs.Value))
	}

	// Lists are atomic, and every other divergence is a conflict too
	return document.Present(ctx.Add(path, ours, theirs))
}

func childPath(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}
