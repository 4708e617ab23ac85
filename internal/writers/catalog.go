// internal/writers/catalog.go
package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"cleavr/core/enzyme"
	"cleavr/core/profile"
	"cleavr/internal/jsonutil"
	"cleavr/internal/output"
	"cleavr/pkg/api"
)

func init() {
	RegisterEnzyme("text", func(w io.Writer, list []*enzyme.Enzyme, header bool) error {
		bw := bufio.NewWriter(w)
		if header {
			fmt.Fprintln(bw, output.EnzymeHeader)
		}
		for _, e := range list {
			fmt.Fprintln(bw, output.FormatEnzymeRowTSV(e))
		}
		return bw.Flush()
	})
	RegisterEnzyme("json", func(w io.Writer, list []*enzyme.Enzyme, _ bool) error {
		return jsonutil.EncodePretty(w, enzymesV1(list))
	})
	RegisterEnzyme("jsonl", func(w io.Writer, list []*enzyme.Enzyme, _ bool) error {
		enc := json.NewEncoder(w)
		for _, v := range enzymesV1(list) {
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
		return nil
	})

	RegisterProfile("text", func(w io.Writer, list []profile.Series, header bool) error {
		bw := bufio.NewWriter(w)
		if header {
			fmt.Fprintln(bw, output.ProfileHeader)
		}
		for _, s := range list {
			for _, row := range output.FormatProfileRowsTSV(s) {
				fmt.Fprintln(bw, row)
			}
		}
		return bw.Flush()
	})
	RegisterProfile("json", func(w io.Writer, list []profile.Series, _ bool) error {
		return jsonutil.EncodePretty(w, profilesV1(list))
	})
	RegisterProfile("jsonl", func(w io.Writer, list []profile.Series, _ bool) error {
		enc := json.NewEncoder(w)
		for _, v := range profilesV1(list) {
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
		return nil
	})
}

func enzymesV1(list []*enzyme.Enzyme) []api.EnzymeV1 {
	out := make([]api.EnzymeV1, 0, len(list))
	for _, e := range list {
		out = append(out, output.ToAPIEnzyme(e))
	}
	return out
}

func profilesV1(list []profile.Series) []api.ProfileV1 {
	out := make([]api.ProfileV1, 0, len(list))
	for _, s := range list {
		out = append(out, output.ToAPIProfile(s))
	}
	return out
}
