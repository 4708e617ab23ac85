package appcore

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"

	"cleavr/core/aggregate"
	"cleavr/internal/config"
	"cleavr/internal/pretty"
	"cleavr/internal/writers"
)

// ---------------- Summary writer ----------------

type SummaryWriterFactory struct {
	Format string
	Sort   bool
	Header bool
	Pretty bool
}

func NewSummaryWriterFactory(format string, sort, header, pretty bool) SummaryWriterFactory {
	return SummaryWriterFactory{Format: format, Sort: sort, Header: header, Pretty: pretty}
}

// NeedMotif reports whether the writer renders motif blocks.
func (w SummaryWriterFactory) NeedMotif() bool {
	return w.Format == config.FormatText && w.Pretty
}

func (w SummaryWriterFactory) Write(out io.Writer, res aggregate.Result, name func(string) string) error {
	opt := writers.SummaryOptions{Sort: w.Sort, Header: w.Header, Pretty: w.NeedMotif(), Name: name}
	if opt.Pretty {
		opt.Render = pretty.RenderMotif
	}
	return writers.WriteSummaries(w.Format, out, res, opt)
}

// ---------------- Match writer ----------------

// MatchWriterFactory streams per-window rows to Path while the pipeline
// runs. An empty Path disables it; "-" shares stdout with the summary,
// which is written only after the last row.
type MatchWriterFactory struct {
	Path   string
	Format string
	Header bool
}

// NewMatchWriterFactory picks text rows for text summaries and JSONL
// otherwise, since a match stream has no single-document form.
func NewMatchWriterFactory(path, summaryFormat string, header bool) MatchWriterFactory {
	f := config.FormatJSONL
	if summaryFormat == config.FormatText {
		f = config.FormatText
	}
	return MatchWriterFactory{Path: path, Format: f, Header: header}
}

func (w MatchWriterFactory) Enabled() bool { return w.Path != "" }

// Start opens the destination and spins up the writer. The returned error
// channel reports once the writer is done and the file is closed.
func (w MatchWriterFactory) Start(stdout io.Writer, bufSize int) (chan<- aggregate.MatchResult, <-chan error, error) {
	dst, err := createOutput(w.Path, stdout)
	if err != nil {
		return nil, nil, err
	}
	in, werr := writers.StartMatchWriter(dst, w.Format, w.Header, bufSize)
	done := make(chan error, 1)
	go func() {
		err := <-werr
		if cerr := dst.Close(); err == nil && !writers.IsBrokenPipe(cerr) {
			err = cerr
		}
		done <- err
	}()
	return in, done, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

type gzipFile struct {
	*pgzip.Writer
	f *os.File
}

func (g gzipFile) Close() error {
	err := g.Writer.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// createOutput opens path for writing; "-" is stdout and a ".gz" suffix
// compresses with parallel gzip.
func createOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		return gzipFile{Writer: pgzip.NewWriter(f), f: f}, nil
	}
	return f, nil
}
