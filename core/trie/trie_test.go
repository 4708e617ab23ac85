package trie

import (
	"reflect"
	"testing"

	"cleavr/core/residue"
)

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("X X X K|R !P X X X")
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 8 {
		t.Fatalf("len=%d", len(p))
	}
	if p[3].Allow != "KR" || p[4].Forbid != "P" || !p[0].IsWild() {
		t.Fatalf("parsed %+v", p)
	}
	if got := p.String(); got != "X X X K|R !P X X X" {
		t.Fatalf("round trip %q", got)
	}
	for _, bad := range []string{"", "X Z", "X !!K", "K|!"} {
		if _, err := ParsePattern(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestSlotMaskNegations(t *testing.T) {
	s, _ := ParseSlot("!P,!C")
	for i := 0; i < residue.Size; i++ {
		r := residue.Alphabet[i]
		want := r != 'P' && r != 'C'
		if s.Admits(r) != want {
			t.Errorf("%c: admits=%v want %v", r, s.Admits(r), want)
		}
	}
	if s.Admits('X') {
		t.Fatal("unknown symbol must not satisfy a negated slot")
	}
}

func TestMatchTotality(t *testing.T) {
	pats := []Entry{
		{"trypsin", MustParse("X X X K|R !P X X X")},
		{"lysc", MustParse("X X X K X X X X")},
		{"gluc", MustParse("X X X E X X X X")},
		{"asp", MustParse("X X X X D X X X")},
		{"neg", MustParse("!G !G !G !G X X X X")},
	}
	tr, skipped, err := Build(8, pats)
	if err != nil || len(skipped) != 0 {
		t.Fatalf("build: %v %v", err, skipped)
	}
	windows := []string{
		"AAAKAAAA", "AAAKPAAA", "GGGRAAAA", "XXXKDXXX", "AAAEDAAA", "XXXXXXXX", "GAAKGGGG",
	}
	for _, w := range windows {
		var want []string
		for _, e := range pats {
			if e.Pattern.Matches(w) {
				want = append(want, e.Label)
			}
		}
		got := tr.Match(w)
		if !sameSet(got, want) {
			t.Errorf("%s: trie %v, direct %v", w, got, want)
		}
	}
}

func TestMatchSingleResidue(t *testing.T) {
	tr, _, err := Build(4, []Entry{{"k", MustParse("X K X X")}})
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Match("AKAA"); !reflect.DeepEqual(got, []string{"k"}) {
		t.Fatalf("AKAA: %v", got)
	}
	if got := tr.Match("AAAA"); len(got) != 0 {
		t.Fatalf("AAAA: %v", got)
	}
	if got := tr.Match("AKA"); got != nil {
		t.Fatalf("short window: %v", got)
	}
}

func TestMatchNegationExcludesProline(t *testing.T) {
	tr, _, _ := Build(4, []Entry{{"t", MustParse("X K !P X")}})
	if len(tr.Match("AKPA")) != 0 {
		t.Fatal("KP must not match")
	}
	if len(tr.Match("AKAA")) != 1 {
		t.Fatal("KA must match")
	}
}

func TestMatchUnknownFollowsWildcardOnly(t *testing.T) {
	tr, _, _ := Build(2, []Entry{
		{"conc", MustParse("K X")},
		{"wild", MustParse("X X")},
	})
	// "X X" is all-wildcard, skipped at Build
	tr2 := New(2)
	_ = tr2.Insert(MustParse("K X"), "conc")
	_ = tr2.Insert(MustParse("X A"), "wild")
	if got := tr2.Match("BA"); !reflect.DeepEqual(got, []string{"wild"}) {
		t.Fatalf("B: %v", got)
	}
	if got := tr2.Match("KA"); !reflect.DeepEqual(got, []string{"conc", "wild"}) {
		t.Fatalf("concrete edge first: %v", got)
	}
	if got := tr.Match("KA"); !reflect.DeepEqual(got, []string{"conc"}) {
		t.Fatalf("%v", got)
	}
}

func TestBuildSkipsAllWildcard(t *testing.T) {
	_, skipped, err := Build(3, []Entry{{"w", MustParse("X X X")}, {"k", MustParse("K X X")}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(skipped, []string{"w"}) {
		t.Fatalf("skipped %v", skipped)
	}
}

func TestNegationHeavyPatternsStaySmall(t *testing.T) {
	p := MustParse("!W !W !W !W !W !W !W !W")
	tr, _, err := Build(8, []Entry{{"a", p}, {"b", MustParse("!C !C !C !C !C !C !C !C")}})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Size() > 64 {
		t.Fatalf("trie has %d nodes", tr.Size())
	}
	if got := tr.Match("AAAAAAAA"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("%v", got)
	}
	if got := tr.Match("AAAWAAAA"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("%v", got)
	}
}

func TestInsertIsIdempotentPerLabel(t *testing.T) {
	tr := New(2)
	_ = tr.Insert(MustParse("K X"), "a")
	_ = tr.Insert(MustParse("K|R X"), "a")
	tr.Compact()
	if got := tr.Match("KA"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("%v", got)
	}
	if err := tr.Insert(MustParse("K"), "a"); err == nil {
		t.Fatal("length mismatch must fail")
	}
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	m := map[string]int{}
	for _, x := range a {
		m[x]++
	}
	for _, x := range b {
		m[x]--
	}
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}
