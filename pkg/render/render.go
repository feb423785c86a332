// Package render turns a merged document into the text written back to the
// working tree, expanding conflict nodes into git style marker blocks.
package render

import (
	"strings"

	"github.com/arthur-debert/composer-merge/pkg/document"
	"github.com/arthur-debert/composer-merge/pkg/errors"
	"github.com/arthur-debert/composer-merge/pkg/merge"
)

const (
	DefaultIndent     = "    "
	DefaultMarkerSize = 7

	headLabel = "HEAD"
)

// Options controls the rendered output
type Options struct {
	// Indent is the unit repeated per nesting level
	Indent string
	// MarkerSize is the number of marker characters per marker line
	MarkerSize int
}

// DetectIndent returns the leading whitespace of the first line that starts
// with whitespace and has content after it, or fallback when no line does
func DetectIndent(data []byte, fallback string) string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || len(trimmed) == len(line) {
			continue
		}
		return line[:len(line)-len(trimmed)]
	}
	return fallback
}

// Render encodes merged and expands its conflict nodes. The result ends with
// a single newline.
func Render(ctx *merge.Context, merged document.Value, opts Options) (string, error) {
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	if opts.MarkerSize <= 0 {
		return "", errors.Newf(errors.ErrInvalidInput, "marker size must be positive, got %d", opts.MarkerSize)
	}

	enc := &document.Encoder{
		Indent:    opts.Indent,
		Conflicts: &blockWriter{ctx: ctx, markerSize: opts.MarkerSize},
	}
	out, err := enc.Encode(merged)
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}

// blockWriter writes one marker block per conflict. Their version comes
// first, under the HEAD label, followed by ours.
type blockWriter struct {
	ctx        *merge.Context
	markerSize int
}

func (w *blockWriter) WriteConflict(b *strings.Builder, enc *document.Encoder, site document.ConflictSite) error {
	c, ok := w.ctx.Get(site.ID)
	if !ok {
		return errors.Newf(errors.ErrInternal, "unknown conflict %d", site.ID)
	}

	w.marker(b, '<')
	b.WriteByte(' ')
	b.WriteString(headLabel)
	b.WriteByte('\n')
	if err := writeSide(b, enc, site, c.Theirs); err != nil {
		return err
	}
	w.marker(b, '=')
	b.WriteByte('\n')
	if err := writeSide(b, enc, site, c.Ours); err != nil {
		return err
	}
	w.marker(b, '>')
	b.WriteByte('\n')
	return nil
}

func (w *blockWriter) marker(b *strings.Builder, c byte) {
	for i := 0; i < w.markerSize; i++ {
		b.WriteByte(c)
	}
}

func writeSide(b *strings.Builder, enc *document.Encoder, site document.ConflictSite, side document.Slot) error {
	if !side.Present {
		return nil
	}
	if side.Value.IsConflict() {
		return errors.Newf(errors.ErrInternal, "conflict %d holds a nested conflict", site.ID)
	}

	enc.WriteIndent(b, site.Depth)
	if site.Key != nil {
		enc.WriteKey(b, *site.Key)
	}
	if err := enc.WriteValue(b, side.Value, site.Depth); err != nil {
		return err
	}
	if !site.Last {
		b.WriteByte(',')
	}
	b.WriteByte('\n')
	return nil
}
