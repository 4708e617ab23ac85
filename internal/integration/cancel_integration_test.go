package integration

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"cleavr/internal/app"
)

func TestCtrlC_MidRun_Exit130(t *testing.T) {
	// Biggish inputs to ensure loading or matching is underway.
	const Mb = 1 << 20
	unit := "MKVLAARGKPLVRSTEEKLLGGRPAWQYDMKAAFSTPLKDE"
	seq := strings.Repeat(unit, (2*Mb)/len(unit))
	fa := write(t, "cancel_big.fa", ">big\n"+seq+"\n")

	var b strings.Builder
	b.WriteString("Sequence\tIntensity\n")
	for i := 0; i < 50000; i++ {
		b.WriteString("VLAARGKPLVR\t1\n")
	}
	pep := write(t, "cancel_big.tsv", b.String())

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel shortly after start.
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	code := app.RunContext(ctx, []string{"analyze", "-q", "-f", fa, "-p", pep}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
