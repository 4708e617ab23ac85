package appshell

import (
	"context"
	"io"
	"testing"
)

func TestExecDefaultsToHelp(t *testing.T) {
	var got []string
	code := Exec(func(_ context.Context, argv []string, _, _ io.Writer) int {
		got = argv
		return 4
	}, nil, io.Discard, io.Discard)
	if code != 4 || len(got) != 1 || got[0] != "-h" {
		t.Fatalf("code=%d argv=%v", code, got)
	}
}

func TestExecPassesContext(t *testing.T) {
	code := Exec(func(ctx context.Context, _ []string, _, _ io.Writer) int {
		if ctx.Err() != nil {
			return 9
		}
		return 0
	}, []string{"analyze"}, io.Discard, io.Discard)
	if code != 0 {
		t.Fatalf("code=%d", code)
	}
}
