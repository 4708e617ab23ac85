package enzyme

import "cleavr/core/trie"

// standard enzymes with their fixed P4..P4' patterns. Codes are MEROPS
// identifiers; "/P" variants ignore the proline rule at P1'.
var standard = []struct {
	code, name, pattern string
}{
	{"S01.151", "Trypsin", "X X X K|R !P X X X"},
	{"S01.151/P", "Trypsin/P", "X X X K|R X X X X"},
	{"S01.280", "Lys-C", "X X X K !P X X X"},
	{"S01.280/P", "Lys-C/P", "X X X K X X X X"},
	{"M35.004", "Lys-N", "X X X X K X X X"},
	{"S01.281", "Arg-C", "X X X R !P X X X"},
	{"S01.281/P", "Arg-C/P", "X X X R X X X X"},
	{"S01.269", "Glu-C", "X X X D|E X X X X"},
	{"M72.001", "Asp-N", "X X X X D|N X X X"},
	{"S01.001", "Chymotrypsin", "X X X F|Y|W|L|I !P X X X"},
	{"S01.001/P", "Chymotrypsin/P", "X X X F|Y|W|L|I X X X X"},
	{"A01.001", "PepsinA", "X X X F|L|I X X X X"},
	{"S01.131", "leukocyte elastase", "X X X A|L|I|V !P X X X"},
	{"S01.268", "alpha-lytic protease", "X X X T|A|S|V X X X X"},
	{"S09.001", "proline endopeptidase", "X X X P X X X X"},
}

// Standard returns fresh copies of the built-in enzymes in their fixed
// order.
func Standard() []*Enzyme {
	out := make([]*Enzyme, 0, len(standard))
	for _, s := range standard {
		out = append(out, &Enzyme{
			Code:     s.code,
			Name:     s.name,
			Standard: true,
			Pattern:  trie.MustParse(s.pattern),
		})
	}
	return out
}

// IsStandard reports whether code names a built-in enzyme.
func IsStandard(code string) bool {
	for _, s := range standard {
		if s.code == code {
			return true
		}
	}
	return false
}
