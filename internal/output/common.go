// internal/output/common.go
package output

// Canonical header rows for text/TSV outputs.
// Keep these as the single source of truth; all writers should use them.
const (
	SummaryHeader = "protein_id\tenzyme_code\tdisplay_name\ttotal_count\tmean_p_value\tpositions"
	TotalsHeader  = "enzyme_code\tdisplay_name\tcount"
	MatchHeader   = "protein_id\tenzyme_code\tside\tposition\twindow\tp_value\tsample"
	EnzymeHeader  = "code\tname\tspecies\tstandard\tpattern"
	ProfileHeader = "protein_id\tgroup\tposition\tcount\tintensity\tcleavages"
)
