// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"cleavr/internal/runutil"
)

var warnColor = color.New(color.FgYellow)

// Warnf prints a "WARN: " line to dst unless quiet. The prefix is coloured
// when the terminal supports it.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet || dst == nil {
		return
	}
	_, _ = warnColor.Fprint(dst, "WARN: ")
	_, _ = fmt.Fprintf(dst, format+"\n", a...)
}

// Warner reports each key at most once (within a bounded memory) and
// counts everything it suppressed.
type Warner struct {
	dst        io.Writer
	quiet      bool
	seen       *runutil.LRUSet[string]
	Suppressed int
}

// NewWarner returns a Warner remembering up to capacity keys.
func NewWarner(dst io.Writer, quiet bool, capacity int) *Warner {
	return &Warner{dst: dst, quiet: quiet, seen: runutil.NewLRUSet[string](capacity)}
}

// Once prints the warning unless key was reported recently.
func (w *Warner) Once(key, format string, a ...any) {
	if w.seen.Seen(key) {
		w.Suppressed++
		return
	}
	Warnf(w.dst, w.quiet, format, a...)
}
