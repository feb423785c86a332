// Package report writes a summary of the conflicts left by a merge, for
// people reading the terminal or for tools consuming YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/composer-merge/pkg/document"
	"github.com/arthur-debert/composer-merge/pkg/errors"
	"github.com/arthur-debert/composer-merge/pkg/merge"
)

// Format selects the summary output
type Format string

const (
	FormatNone Format = "none"
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the accepted format names
var Formats = []Format{FormatNone, FormatText, FormatYAML, FormatJSON}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown summary format %q", s).
		WithDetail("format", s)
}

// Summary describes one merge run
type Summary struct {
	File      string  `json:"file" yaml:"file"`
	Lock      bool    `json:"lock" yaml:"lock"`
	Conflicts []Entry `json:"conflicts" yaml:"conflicts"`
}

// Entry describes one conflict. A nil side was absent.
type Entry struct {
	ID     int     `json:"id" yaml:"id"`
	Path   string  `json:"path" yaml:"path"`
	Ours   *string `json:"ours" yaml:"ours"`
	Theirs *string `json:"theirs" yaml:"theirs"`
}

// New builds a summary from the conflicts of a run
func New(file string, lock bool, conflicts []*merge.Conflict) (Summary, error) {
	s := Summary{File: file, Lock: lock, Conflicts: make([]Entry, 0, len(conflicts))}
	for _, c := range conflicts {
		ours, err := side(c.Ours)
		if err != nil {
			return Summary{}, err
		}
		theirs, err := side(c.Theirs)
		if err != nil {
			return Summary{}, err
		}
		s.Conflicts = append(s.Conflicts, Entry{
			ID:     c.ID,
			Path:   c.PathString(),
			Ours:   ours,
			Theirs: theirs,
		})
	}
	return s, nil
}

func side(s document.Slot) (*string, error) {
	if !s.Present {
		return nil, nil
	}
	text, err := document.MarshalCompact(s.Value)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

// Write renders s to w in the given format
func Write(w io.Writer, s Summary, format Format) error {
	switch format {
	case FormatNone, "":
		return nil
	case FormatText:
		return writeText(w, s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode summary")
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode summary")
		}
		return nil
	}
	return errors.Newf(errors.ErrInvalidInput, "unknown summary format %q", format)
}

// NewRenderer returns a lipgloss renderer for w. Output that is not a
// terminal gets no escape sequences.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func writeText(w io.Writer, s Summary) error {
	styles, err := LoadStyles(NewRenderer(w))
	if err != nil {
		return err
	}

	var b strings.Builder
	if len(s.Conflicts) == 0 {
		b.WriteString(styles.Get("Clean").Render(fmt.Sprintf("%s: merged cleanly", s.File)))
		b.WriteByte('\n')
	} else {
		noun := "conflicts"
		if len(s.Conflicts) == 1 {
			noun = "conflict"
		}
		b.WriteString(styles.Get("Conflicted").Render(fmt.Sprintf("%s: %d %s", s.File, len(s.Conflicts), noun)))
		b.WriteByte('\n')
	}

	for _, e := range s.Conflicts {
		b.WriteString(styles.Get("Header").Render(fmt.Sprintf("#%d", e.ID)))
		b.WriteByte(' ')
		b.WriteString(styles.Get("Path").Render(e.Path))
		b.WriteByte('\n')
		b.WriteString(styles.Get("Side").Render("ours:   " + textSide(styles, e.Ours)))
		b.WriteByte('\n')
		b.WriteString(styles.Get("Side").Render("theirs: " + textSide(styles, e.Theirs)))
		b.WriteByte('\n')
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func textSide(styles *Styles, v *string) string {
	if v == nil {
		return styles.Get("Absent").Render("(absent)")
	}
	return *v
}
