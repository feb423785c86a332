package merge

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/composer-merge/pkg/document"
	"github.com/arthur-debert/composer-merge/pkg/logging"
)

// Conflict is a divergence the merge could not resolve. ID is the append
// position in the owning Context.
type Conflict struct {
	ID     int
	Path   []string
	Ours   document.Slot
	Theirs document.Slot
}

// PathString joins the key path with dots, or returns "(root)"
func (c *Conflict) PathString() string {
	if len(c.Path) == 0 {
		return "(root)"
	}
	return strings.Join(c.Path, ".")
}

// Context holds the conflicts recorded during one merge run. Records are
// only ever appended.
type Context struct {
	conflicts []*Conflict
	logger    zerolog.Logger
}

// NewContext creates an empty merge context
func NewContext() *Context {
	return &Context{
		logger: logging.GetLogger("merge"),
	}
}

// Add records a conflict and returns the node that stands in for it
func (c *Context) Add(path []string, ours, theirs document.Slot) document.Value {
	conflict := &Conflict{
		ID:     len(c.conflicts),
		Path:   path,
		Ours:   ours,
		Theirs: theirs,
	}
	c.conflicts = append(c.conflicts, conflict)

	c.logger.Debug().
		Int("id", conflict.ID).
		Str("path", conflict.PathString()).
		Bool("oursPresent", ours.Present).
		Bool("theirsPresent", theirs.Present).
		Msg("Conflict recorded")

	return document.Conflict(conflict.ID)
}

// Get returns the conflict with the given id
func (c *Context) Get(id int) (*Conflict, bool) {
	if id < 0 || id >= len(c.conflicts) {
		return nil, false
	}
	return c.conflicts[id], true
}

// Conflicts returns all recorded conflicts in id order
func (c *Context) Conflicts() []*Conflict {
	return c.conflicts
}

// Len returns the number of recorded conflicts
func (c *Context) Len() int {
	return len(c.conflicts)
}

// HasConflicts reports whether any conflict was recorded
func (c *Context) HasConflicts() bool {
	return len(c.conflicts) > 0
}
