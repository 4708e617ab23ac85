// Package appshell wires a command's RunContext to the process: signals,
// arguments, standard streams and the exit status.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Runner is the signature every command entry point implements.
type Runner func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs run with a context cancelled on SIGINT/SIGTERM and exits.
func Main(run Runner) {
	os.Exit(Exec(run, os.Args[1:], os.Stdout, os.Stderr))
}

// Exec is Main without the process exit, for tests.
func Exec(run Runner, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	code := run(ctx, argv, stdout, stderr)
	// Normalize cancellation exit code.
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	return code
}
