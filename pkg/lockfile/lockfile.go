// Package lockfile adapts composer.lock documents to the generic merge.
//
// Dependency lists in a lock file are ordered arrays of package records.
// Merging them as atomic lists would turn every reordering into a conflict,
// so ToKeyed rewrites each list into a map keyed by package name whose
// values are the serialized records, and FromKeyed turns the merged map
// back into a list sorted by name. The content-hash is neutralized before
// the merge and replaced by an instruction to regenerate it afterwards.
package lockfile

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/composer-merge/pkg/document"
	"github.com/arthur-debert/composer-merge/pkg/logging"
	"github.com/arthur-debert/composer-merge/pkg/merge"
)

const (
	DefaultFilename       = "composer.lock"
	DefaultContentHashKey = "content-hash"

	// KeySeparator joins multi-field record keys
	KeySeparator = " as "

	regenerateHint    = "Run `composer update --lock` to regenerate"
	MessageConflicted = "Merge conflict! " + regenerateHint + " after fixing conflict(s)"
	MessageMerged     = "Auto-merged! " + regenerateHint
)

// ListField names a list of records and the record fields that identify
// each entry
type ListField struct {
	Field string
	Key   []string
}

// DefaultLists are the dependency lists of a composer.lock
func DefaultLists() []ListField {
	return []ListField{
		{Field: "packages", Key: []string{"name"}},
		{Field: "packages-dev", Key: []string{"name"}},
		{Field: "aliases", Key: []string{"package", "alias"}},
	}
}

// Normalizer converts lock documents to and from their keyed form
type Normalizer struct {
	ContentHashKey string
	Lists          []ListField
	logger         zerolog.Logger
}

// New creates a Normalizer. Empty arguments select the composer defaults.
func New(contentHashKey string, lists []ListField) *Normalizer {
	if contentHashKey == "" {
		contentHashKey = DefaultContentHashKey
	}
	if len(lists) == 0 {
		lists = DefaultLists()
	}
	return &Normalizer{
		ContentHashKey: contentHashKey,
		Lists:          lists,
		logger:         logging.GetLogger("lockfile"),
	}
}

// IsLockFile reports whether name designates a lock file. Only the base
// name is compared, ignoring case.
func IsLockFile(name, lockFilename string) bool {
	if name == "" {
		return false
	}
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.EqualFold(name, lockFilename)
}

// ToKeyed prepares one version of a lock document for merging. The content
// hash is set to null and every configured list whose records all carry
// distinct keys becomes a map of key to serialized record. doc is not
// modified.
func (n *Normalizer) ToKeyed(doc document.Value) document.Value {
	if !doc.IsMap() {
		return doc
	}

	out := doc.Clone()
	out.Set(n.ContentHashKey, document.Null())

	for _, field := range n.Lists {
		list, ok := out.Get(field.Field)
		if !ok || !list.IsList() {
			continue
		}
		keyed, ok := field.toKeyed(list)
		if !ok {
			n.logger.Debug().Str("field", field.Field).Msg("List left as is, records without key")
			continue
		}
		out.Set(field.Field, keyed)
	}

	return out
}

// FromKeyed restores the list shape of a merged lock document and sets the
// content hash message. Conflict records that refer to serialized records
// are rewritten to hold the parsed records, so they render as objects.
func (n *Normalizer) FromKeyed(ctx *merge.Context, merged document.Value) document.Value {
	if !merged.IsMap() {
		return merged
	}

	out := merged.Clone()
	for _, field := range n.Lists {
		val, ok := out.Get(field.Field)
		if !ok {
			continue
		}

		switch val.Kind() {
		case document.KindMap:
			if list, ok := n.fromKeyed(ctx, val); ok {
				out.Set(field.Field, list)
			}
		case document.KindConflict:
			if c, ok := ctx.Get(val.ConflictID()); ok {
				c.Ours = n.restoreListSide(c.Ours)
				c.Theirs = n.restoreListSide(c.Theirs)
			}
		}
	}

	message := MessageMerged
	if ctx.HasConflicts() {
		message = MessageConflicted
	}
	out.Set(n.ContentHashKey, document.String(message))

	return out
}

func (n *Normalizer) fromKeyed(ctx *merge.Context, keyed document.Value) (document.Value, bool) {
	if !isKeyedList(keyed) {
		return keyed, false
	}

	keys := keyed.Keys()
	sort.Strings(keys)

	items := make([]document.Value, 0, len(keys))
	for _, key := range keys {
		entry, _ := keyed.Get(key)
		if entry.IsConflict() {
			if c, ok := ctx.Get(entry.ConflictID()); ok {
				c.Ours = restoreRecord(c.Ours)
				c.Theirs = restoreRecord(c.Theirs)
			}
			items = append(items, entry)
			continue
		}
		record, err := document.Parse([]byte(entry.Str()))
		if err != nil {
			return keyed, false
		}
		items = append(items, record)
	}

	return document.List(items...), true
}

// restoreListSide converts one side of a whole-list conflict back to a list
func (n *Normalizer) restoreListSide(s document.Slot) document.Slot {
	if !s.Present || !s.Value.IsMap() || !isKeyedList(s.Value) {
		return s
	}
	items := make([]document.Value, 0, s.Value.Len())
	keys := s.Value.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		entry, _ := s.Value.Get(key)
		record, err := document.Parse([]byte(entry.Str()))
		if err != nil {
			return s
		}
		items = append(items, record)
	}
	return document.Present(document.List(items...))
}

func restoreRecord(s document.Slot) document.Slot {
	if !s.Present || !s.Value.IsString() {
		return s
	}
	record, err := document.Parse([]byte(s.Value.Str()))
	if err != nil {
		return s
	}
	return document.Present(record)
}

// isKeyedList reports whether every entry of m is a serialized record or a
// conflict node, which is the shape ToKeyed produces
func isKeyedList(m document.Value) bool {
	for _, entry := range m.Entries() {
		if entry.IsConflict() {
			continue
		}
		if !entry.IsString() || !strings.HasPrefix(entry.Str(), "{") {
			return false
		}
	}
	return true
}

func (f ListField) toKeyed(list document.Value) (document.Value, bool) {
	keyed := document.Map()
	for _, record := range list.Items() {
		key, ok := f.keyOf(record)
		if !ok || keyed.Has(key) {
			return list, false
		}
		serialized, err := document.MarshalCompact(record)
		if err != nil {
			return list, false
		}
		keyed.Set(key, document.String(serialized))
	}
	return keyed, true
}

func (f ListField) keyOf(record document.Value) (string, bool) {
	if !record.IsMap() || len(f.Key) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(f.Key))
	for _, name := range f.Key {
		v, ok := record.Get(name)
		if !ok || !v.IsString() {
			return "", false
		}
		parts = append(parts, v.Str())
	}
	return strings.Join(parts, KeySeparator), true
}
