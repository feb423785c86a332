// Package driver runs one merge of three document versions from raw bytes
// to rendered text: parse, normalize lock lists, merge, restore, render.
package driver

import (
	"github.com/arthur-debert/composer-merge/pkg/document"
	"github.com/arthur-debert/composer-merge/pkg/errors"
	"github.com/arthur-debert/composer-merge/pkg/lockfile"
	"github.com/arthur-debert/composer-merge/pkg/logging"
	"github.com/arthur-debert/composer-merge/pkg/merge"
	"github.com/arthur-debert/composer-merge/pkg/render"
)

// Input holds the raw text of the three versions
type Input struct {
	Ancestor []byte
	Ours     []byte
	Theirs   []byte
}

// Options controls a run
type Options struct {
	MarkerSize int
	// Lock selects lock file handling
	Lock bool
	// Normalizer is used when Lock is set. Nil selects the defaults.
	Normalizer *lockfile.Normalizer
	// FallbackIndent applies when no indentation can be detected in ours
	FallbackIndent string
}

// Result is the outcome of a run. Conflicts are not errors: the text holds
// their marker blocks.
type Result struct {
	Text      string
	Conflicts []*merge.Conflict
}

// HasConflicts reports whether the merged text holds marker blocks
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Run merges the three versions. Parse failures are ErrParse errors with the
// offending version in the "state" detail; nothing is rendered for them.
func Run(in Input, opts Options) (*Result, error) {
	logger := logging.GetLogger("driver")
	done := logging.LogOperationStart(logger, "merge")
	defer done()

	if opts.MarkerSize <= 0 {
		opts.MarkerSize = render.DefaultMarkerSize
	}
	if opts.FallbackIndent == "" {
		opts.FallbackIndent = render.DefaultIndent
	}

	ancestor, err := parseState("ancestor", in.Ancestor)
	if err != nil {
		return nil, err
	}
	ours, err := parseState("ours", in.Ours)
	if err != nil {
		return nil, err
	}
	theirs, err := parseState("theirs", in.Theirs)
	if err != nil {
		return nil, err
	}

	var normalizer *lockfile.Normalizer
	if opts.Lock {
		normalizer = opts.Normalizer
		if normalizer == nil {
			normalizer = lockfile.New("", nil)
		}
		ancestor = normalizer.ToKeyed(ancestor)
		ours = normalizer.ToKeyed(ours)
		theirs = normalizer.ToKeyed(theirs)
	}

	ctx := merge.NewContext()
	merged := merge.Merge(ctx, ancestor, ours, theirs)

	if normalizer != nil {
		merged = normalizer.FromKeyed(ctx, merged)
	}

	indent := render.DetectIndent(in.Ours, opts.FallbackIndent)
	text, err := render.Render(ctx, merged, render.Options{
		Indent:     indent,
		MarkerSize: opts.MarkerSize,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Bool("lock", opts.Lock).
		Int("conflicts", ctx.Len()).
		Str("indent", indent).
		Msg("Merge finished")

	return &Result{Text: text, Conflicts: ctx.Conflicts()}, nil
}

func parseState(state string, data []byte) (document.Value, error) {
	v, err := document.Parse(data)
	if err != nil {
		return document.Value{}, errors.Wrapf(err, errors.ErrParse, "cannot parse %s version", state).
			WithDetail("state", state)
	}
	return v, nil
}
