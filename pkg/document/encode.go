package document

import (
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/composer-merge/pkg/errors"
)

const hexDigits = "0123456789abcdef"

// ConflictSite describes where a conflict node sits in the output
type ConflictSite struct {
	ID int
	// Key is nil for list elements and for the document root
	Key *string
	// Depth is the nesting level of the line the node would occupy
	Depth int
	// Last is true when no sibling follows the node
	Last bool
}

// ConflictWriter expands conflict nodes while a tree is encoded. It must
// write whole lines, each terminated by a newline.
type ConflictWriter interface {
	WriteConflict(b *strings.Builder, enc *Encoder, site ConflictSite) error
}

// Encoder renders Values as pretty-printed JSON. Non-ASCII characters and
// forward slashes are written literally.
type Encoder struct {
	// Indent is repeated once per nesting level. An empty Indent selects the
	// compact form with no whitespace at all.
	Indent    string
	Conflicts ConflictWriter
}

// Marshal renders v with the given indent unit
func Marshal(v Value, indent string) (string, error) {
	enc := &Encoder{Indent: indent}
	return enc.Encode(v)
}

// MarshalCompact renders v on a single line
func MarshalCompact(v Value) (string, error) {
	return Marshal(v, "")
}

// Encode renders v and returns the text without a trailing newline
func (e *Encoder) Encode(v Value) (string, error) {
	var b strings.Builder

	if v.kind == KindConflict {
		if err := e.writeConflict(&b, ConflictSite{ID: v.id, Depth: 0, Last: true}); err != nil {
			return "", err
		}
		return strings.TrimSuffix(b.String(), "\n"), nil
	}

	if err := e.WriteValue(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteValue writes v at the current position. Nested lines are indented
// relative to depth.
func (e *Encoder) WriteValue(b *strings.Builder, v Value, depth int) error {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.BoolValue() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(v.s)
	case KindString:
		writeQuoted(b, v.s)
	case KindList:
		return e.writeList(b, v, depth)
	case KindMap:
		return e.writeMap(b, v, depth)
	case KindConflict:
		return errors.Newf(errors.ErrInternal, "conflict %d cannot be written inline", v.id)
	}
	return nil
}

// WriteIndent writes the indentation of the given depth
func (e *Encoder) WriteIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(e.Indent)
	}
}

// WriteKey writes a quoted map key and its separator
func (e *Encoder) WriteKey(b *strings.Builder, key string) {
	writeQuoted(b, key)
	if e.compact() {
		b.WriteByte(':')
	} else {
		b.WriteString(": ")
	}
}

func (e *Encoder) compact() bool {
	return e.Indent == ""
}

func (e *Encoder) writeList(b *strings.Builder, v Value, depth int) error {
	if len(v.list) == 0 {
		b.WriteString("[]")
		return nil
	}

	b.WriteByte('[')
	e.newline(b)
	for i, item := range v.list {
		last := i == len(v.list)-1
		if item.kind == KindConflict {
			if err := e.writeConflict(b, ConflictSite{ID: item.id, Depth: depth + 1, Last: last}); err != nil {
				return err
			}
			continue
		}
		e.WriteIndent(b, depth+1)
		if err := e.WriteValue(b, item, depth+1); err != nil {
			return err
		}
		if !last {
			b.WriteByte(',')
		}
		e.newline(b)
	}
	e.WriteIndent(b, depth)
	b.WriteByte(']')
	return nil
}

func (e *Encoder) writeMap(b *strings.Builder, v Value, depth int) error {
	n := v.Len()
	if n == 0 {
		b.WriteString("{}")
		return nil
	}

	b.WriteByte('{')
	e.newline(b)
	i := 0
	for key, val := range v.Entries() {
		last := i == n-1
		i++
		if val.kind == KindConflict {
			k := key
			if err := e.writeConflict(b, ConflictSite{ID: val.id, Key: &k, Depth: depth + 1, Last: last}); err != nil {
				return err
			}
			continue
		}
		e.WriteIndent(b, depth+1)
		e.WriteKey(b, key)
		if err := e.WriteValue(b, val, depth+1); err != nil {
			return err
		}
		if !last {
			b.WriteByte(',')
		}
		e.newline(b)
	}
	e.WriteIndent(b, depth)
	b.WriteByte('}')
	return nil
}

func (e *Encoder) newline(b *strings.Builder) {
	if !e.compact() {
		b.WriteByte('\n')
	}
}

func (e *Encoder) writeConflict(b *strings.Builder, site ConflictSite) error {
	if e.Conflicts == nil {
		return errors.Newf(errors.ErrInternal, "no conflict writer for conflict %d", site.ID)
	}
	return e.Conflicts.WriteConflict(b, e, site)
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString(`\ufffd`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r < 0x20 || r == '\u2028' || r == '\u2029':
			b.WriteString(`\u`)
			b.WriteByte(hexDigits[(r>>12)&0xf])
			b.WriteByte(hexDigits[(r>>8)&0xf])
			b.WriteByte(hexDigits[(r>>4)&0xf])
			b.WriteByte(hexDigits[r&0xf])
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
