// internal/writers/summary.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"

	"cleavr/core/aggregate"
	"cleavr/internal/jsonlutil"
	"cleavr/internal/output"
)

func init() {
	RegisterSummary("text", writeSummaryText)
	RegisterSummary("json", func(w io.Writer, res aggregate.Result, opt SummaryOptions) error {
		return output.WriteJSON(w, res, opt.Name, opt.Sort)
	})
	RegisterSummary("jsonl", writeSummaryJSONL)
}

func writeSummaryText(w io.Writer, res aggregate.Result, opt SummaryOptions) error {
	bw := bufio.NewWriter(w)
	if err := output.WriteTextWithRenderer(bw, res, opt.Name, opt.Sort, opt.Header, opt.Pretty, opt.Render); err != nil {
		return err
	}
	return bw.Flush()
}

// writeSummaryJSONL streams one ProteinSummaryV1 per line. Totals are not
// part of the line stream; use json for a complete report.
func writeSummaryJSONL(w io.Writer, res aggregate.Result, opt SummaryOptions) error {
	in, done := jsonlutil.Start[aggregate.ProteinSummary](w, 64,
		func(enc *json.Encoder, p aggregate.ProteinSummary) error {
			return enc.Encode(output.ToAPIProtein(p))
		},
		IsBrokenPipe,
	)
	for _, p := range output.SortedProteins(res.Proteins, opt.Sort) {
		in <- p
	}
	close(in)
	return <-done
}
