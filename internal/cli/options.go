// internal/cli/options.go
package cli

import (
	"github.com/spf13/pflag"

	"cleavr/core/aggregate"
	"cleavr/core/motif"
	"cleavr/core/profile"
	"cleavr/core/seqindex"
	"cleavr/core/window"
)

// Flag groups. Each command registers the groups it uses; names double as
// config keys (see internal/config).

// RegisterInputs adds --proteins and --peptides.
func RegisterInputs(fs *pflag.FlagSet) {
	fs.StringP("proteins", "f", "", "protein FASTA (gzip ok, '-' = stdin) [*]")
	fs.StringP("peptides", "p", "", "peptide table, CSV or TSV with a Sequence column [*]")
	fs.Bool("keep-zero-intensity", false, "keep peptides with missing or zero intensity")
	fs.Int("k", seqindex.DefaultK, "k-mer length of the protein index")
}

// RegisterModel adds the enzyme library and scoring flags.
func RegisterModel(fs *pflag.FlagSet) {
	fs.StringP("enzymes", "e", "", "enzyme site table (TSV) merged into the standard enzymes")
	fs.Int("half-width", window.DefaultHalfWidth, "residues on each side of a cleavage (S, 1..4)")
	fs.Float64("threshold", motif.DefaultThreshold, "log2-odds cut-off (bits) for enriched/depleted residues")
	fs.Float64("pseudocount", motif.DefaultPseudocount, "background pseudo-count weight for PSSMs")
	fs.Bool("standard", false, "keep the standard enzymes (combine with --species/--enzyme-names)")
	fs.StringSlice("species", nil, "keep enzymes from these species (repeatable, comma-separated)")
	fs.StringSlice("enzyme-names", nil, "keep enzymes with these names (repeatable, comma-separated)")
}

// RegisterRun adds performance flags.
func RegisterRun(fs *pflag.FlagSet) {
	fs.IntP("threads", "t", 0, "worker goroutines (0 = physical cores)")
	fs.Int("batch-size", 0, "peptides per work batch (0 = scale with RAM)")
	fs.Bool("progress", false, "show a progress bar on stderr")
}

// RegisterOutput adds output flags shared by analyze and profile.
func RegisterOutput(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "text", "output format: text | json | jsonl")
	fs.Bool("sort", false, "order proteins by ID instead of first appearance")
	fs.Bool("no-header", false, "suppress header line in text output")
	RegisterExit(fs)
}

// RegisterExit adds --no-match-exit-code.
func RegisterExit(fs *pflag.FlagSet) {
	fs.Int("no-match-exit-code", 1, "exit code when nothing was found")
}

// RegisterAnalyze adds flags specific to `cleavr analyze`.
func RegisterAnalyze(fs *pflag.FlagSet) {
	fs.Int("top-k", aggregate.DefaultTopK, "enzymes reported per protein (0 = all)")
	fs.String("matches", "", "also write one row per attributed window to this file ('-' = stdout)")
	fs.Bool("pretty", false, "print motif tables under each protein (text)")
}

// RegisterProfile adds flags specific to `cleavr profile`.
func RegisterProfile(fs *pflag.FlagSet) {
	fs.String("metadata", "", "per-sample table with a Sample column, CSV or TSV")
	fs.String("group-by", string(profile.ByProtein), "series key: protein | sample | a metadata column")
	fs.String("method", string(profile.Sum), "combine repeated peptides: sum | mean | median")
	fs.StringSlice("protein", nil, "restrict to these protein IDs")
	fs.StringSlice("sample", nil, "restrict to these samples")
	fs.StringSlice("group", nil, "restrict to samples whose metadata Group is listed (needs --metadata)")
}

// RegisterProteins adds flags for `cleavr proteins`.
func RegisterProteins(fs *pflag.FlagSet) {
	fs.StringP("peptides", "p", "", "peptide table, CSV or TSV [*]")
	fs.String("filter", "", "case-insensitive substring of the protein ID")
	fs.Int("limit", 5, "maximum IDs to print (0 = all)")
	RegisterExit(fs)
}
