package cmdutil

import (
	"io"
	"strings"

	"github.com/gedex/inflector"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Noun pluralizes word unless n is 1.
func Noun(n int, word string) string {
	if n == 1 {
		return word
	}
	return inflector.Pluralize(word)
}

// Count formats n with digit grouping followed by the matching noun form,
// e.g. "12,345 peptides".
func Count(n int, word string) string {
	return printer.Sprintf("%d %s", n, Noun(n, word))
}

// Summaryf writes one run-summary line joining the given counts, unless
// quiet.
func Summaryf(dst io.Writer, quiet bool, prefix string, parts ...string) {
	if quiet || dst == nil {
		return
	}
	_, _ = printer.Fprintf(dst, "%s: %s\n", prefix, strings.Join(parts, ", "))
}
