// pkg/api/summaries_v1.go
package api

// Keep fields, names, and types stable. Add new fields only with ",omitempty".

// MotifRowV1 is one window position of an empirical motif: residue →
// fraction of attributed windows. Residues never seen are omitted.
type MotifRowV1 struct {
	Site        string             `json:"site"` // "P2", "P1", "P1'", ...
	Frequencies map[string]float64 `json:"frequencies"`
}

// EnzymeSummaryV1 is one enzyme's attribution within a protein.
type EnzymeSummaryV1 struct {
	EnzymeCode  string       `json:"enzyme_code"`
	DisplayName string       `json:"display_name"`
	TotalCount  int          `json:"total_count"`
	MeanPValue  float64      `json:"mean_p_value"`
	Positions   []int        `json:"positions"`
	Motif       []MotifRowV1 `json:"motif,omitempty"`
}

// ProteinSummaryV1 is the stable JSON/JSONL schema for one protein.
type ProteinSummaryV1 struct {
	ProteinID string            `json:"protein_id"`
	Enzymes   []EnzymeSummaryV1 `json:"enzymes"`
}

// EnzymeTotalV1 counts every attributed window for one enzyme.
type EnzymeTotalV1 struct {
	EnzymeCode  string `json:"enzyme_code"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// ReportV1 is the single-document JSON output.
type ReportV1 struct {
	Proteins    []ProteinSummaryV1 `json:"proteins"`
	TotalCounts []EnzymeTotalV1    `json:"total_enzyme_counts"`
}

// MatchV1 is one attributed cleavage window.
type MatchV1 struct {
	ProteinID  string  `json:"protein_id"`
	EnzymeCode string  `json:"enzyme_code"`
	Side       string  `json:"side"` // "N" | "C"
	Position   int     `json:"position"`
	Window     string  `json:"window"`
	PValue     float64 `json:"p_value"`
	Sample     string  `json:"sample,omitempty"`
}

// EnzymeV1 describes a library entry for `cleavr enzymes`.
type EnzymeV1 struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Species  string `json:"species,omitempty"`
	Standard bool   `json:"standard"`
	Pattern  string `json:"pattern,omitempty"`
}

// ProfileV1 is one coverage/cleavage series.
type ProfileV1 struct {
	ProteinID string    `json:"protein_id"`
	Group     string    `json:"group,omitempty"`
	Count     []int     `json:"count"`
	Intensity []float64 `json:"intensity"`
	Cleavages []int     `json:"cleavages"`
}
