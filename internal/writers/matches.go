// internal/writers/matches.go
package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"cleavr/core/aggregate"
	"cleavr/internal/jsonlutil"
	"cleavr/internal/output"
)

func init() {
	RegisterMatch("text", func(w io.Writer, in <-chan aggregate.MatchResult, header bool) error {
		bw := bufio.NewWriter(w)
		if err := output.StreamMatchText(bw, in, header); err != nil {
			return err
		}
		return bw.Flush()
	})
	RegisterMatch("jsonl", func(w io.Writer, in <-chan aggregate.MatchResult, _ bool) error {
		out, done := StartMatchJSONLWriter(w, 64)
		for m := range in {
			out <- m
		}
		close(out)
		return <-done
	})
}

// StartMatchJSONLWriter streams each MatchResult as one JSON line (v1).
func StartMatchJSONLWriter(out io.Writer, bufSize int) (chan<- aggregate.MatchResult, <-chan error) {
	return jsonlutil.Start[aggregate.MatchResult](out, bufSize,
		func(enc *json.Encoder, m aggregate.MatchResult) error {
			return enc.Encode(output.ToAPIMatch(m))
		},
		IsBrokenPipe,
	)
}

// StartMatchWriter spins up a writer goroutine for attributed windows in
// the given format. The channel is always drained, even after a write
// error, so the pipeline never blocks on a dead writer.
func StartMatchWriter(out io.Writer, format string, header bool, bufSize int) (chan<- aggregate.MatchResult, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan aggregate.MatchResult, bufSize)
	errCh := make(chan error, 1)

	go func() {
		defer jsonlutil.Drain[aggregate.MatchResult](in)
		fn, ok := MatchWriters[format]
		if !ok {
			errCh <- fmt.Errorf("unknown match format %q (no writer registered)", format)
			return
		}
		errCh <- quiet(fn(out, in, header))
	}()

	return in, errCh
}
