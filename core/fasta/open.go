// core/fasta/open.go
package fasta

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for path; "-" is stdin. Gzip input (magic 1F 8B or
// a .gz suffix) is inflated with the parallel pgzip reader. Shared by the
// FASTA, peptide table and enzyme library loaders.
func Open(path string) (io.ReadCloser, error) {
	var (
		src     io.Reader
		closers []io.Closer
	)
	if path == "-" {
		src = os.Stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = fh
		closers = append(closers, fh)
	}
	br := bufio.NewReaderSize(src, 64*1024)
	sig, _ := br.Peek(2)
	if (len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(br)
		if err != nil {
			for _, c := range closers {
				_ = c.Close()
			}
			return nil, err
		}
		return &multiReadCloser{Reader: zr, closers: append([]io.Closer{zr}, closers...)}, nil
	}
	return &multiReadCloser{Reader: br, closers: closers}, nil
}
