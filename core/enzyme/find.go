package enzyme

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
	"golang.org/x/text/cases"
)

// Find looks enzymes up by name. An exact case-folded match on name or code
// wins outright; otherwise every enzyme sharing a Porter2 stem with any word
// of the query is returned, in library order.
func (l *Library) Find(query string) []*Enzyme {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var exact []*Enzyme
	for _, e := range l.list {
		if fold.String(e.Name) == q || fold.String(e.Code) == q {
			exact = append(exact, e)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	want := stems(q)
	var out []*Enzyme
	for _, e := range l.list {
		for s := range stems(fold.String(e.Name)) {
			if want[s] {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func stems(s string) map[string]bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	m := make(map[string]bool, len(words))
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		m[porter2.Stem(w)] = true
	}
	return m
}
