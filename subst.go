package subst

import (
	"fmt"
	"io"
	"strings"
)

// Format renders template with args and returns the result. It never panics:
// malformed templates, missing arguments, and failing conversions all render
// as in-band diagnostic markers. The {m} substitution is resolved from
// [ErrnoSource] before anything else happens.
func Format(template string, args ...any) string {
	return FormatErrno(currentErrno(), template, args...)
}

// FormatErrno is [Format] with an explicit error bound to the {m}
// substitution. This is the natural calling convention in Go, where system
// errors arrive as values rather than through an ambient errno.
func FormatErrno(err error, template string, args ...any) string {
	f := newFormatter(err, template, len(args))
	for i, arg := range args {
		f.formatArg(i, arg)
	}
	return f.finish()
}

// Write formats template with args and writes the result to w. The returned
// error can only be the writer's own; formatting itself cannot fail.
func Write(w io.Writer, template string, args ...any) (int, error) {
	n, err := io.WriteString(w, Format(template, args...))
	if err != nil {
		return n, fmt.Errorf("subst: write: %w", err)
	}
	return n, nil
}

// formatter is the per-call working state: a parsed template whose
// placeholder slots are filled in as arguments arrive. Nothing here is
// shared or reused across calls.
type formatter struct {
	tmpl *template
}

// newFormatter captures the {m} error first, then parses the template and
// resolves any {m} substitutions, so later argument evaluation cannot
// disturb the error. A panic escaping the whole parse phase collapses the
// call to a single diagnostic segment.
func newFormatter(err error, tmpl string, nargs int) *formatter {
	errText := errnoText(err)

	f := &formatter{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				defer func() {
					if recover() != nil {
						abort()
					}
				}()
				f.tmpl = &template{segs: []string{describePanic(r)}}
			}
		}()
		f.tmpl = parse(tmpl, nargs)
		if f.tmpl.errnoRoot.target != indexInvalid {
			f.tmpl.renderChain(&f.tmpl.errnoRoot, strValue(errText))
		}
	}()
	return f
}

// formatArg renders argument i into every placeholder that references it.
// Arguments the template never mentions are simply skipped.
func (f *formatter) formatArg(i int, arg any) {
	t := f.tmpl
	if i >= t.nargs {
		return // parse phase failed and reset the spec table
	}
	root := &t.specs[i]
	if root.argIndex == indexInvalid {
		return
	}
	t.renderChain(root, classify(arg))
}

// finish concatenates the segments in order. Even the final assembly is
// contained: if it panics, the whole output becomes one diagnostic marker.
func (f *formatter) finish() (out string) {
	defer func() {
		if r := recover(); r != nil {
			defer func() {
				if recover() != nil {
					abort()
				}
			}()
			out = describePanic(r)
		}
	}()
	var sb strings.Builder
	for _, seg := range f.tmpl.segs {
		sb.WriteString(seg)
	}
	return sb.String()
}
