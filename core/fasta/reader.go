// core/fasta/reader.go
package fasta

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Record is one parsed protein: the header ID (text up to the first space)
// and the upper-cased sequence.
type Record struct {
	ID  string
	Seq string
}

// Stream parses protein FASTA from r and calls emit for every record.
// Cancellation is checked between records; emit may return an error to stop.
func Stream(ctx context.Context, r io.Reader, emit func(Record) error) error {
	in := biofasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := in.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("fasta: %w", err)
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return fmt.Errorf("fasta: unexpected sequence type %T", s)
		}
		buf := make([]byte, len(ls.Seq))
		for i, l := range ls.Seq {
			buf[i] = byte(l)
		}
		if err := emit(Record{ID: s.Name(), Seq: string(bytes.ToUpper(buf))}); err != nil {
			return err
		}
	}
}

// ReadFile loads every record from path (gzip and "-" handled by Open).
func ReadFile(ctx context.Context, path string) ([]Record, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var out []Record
	err = Stream(ctx, rc, func(r Record) error {
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
