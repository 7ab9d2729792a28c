package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/KATT/sanitize-csvs/internal/cli"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(sanitize.ExitPanic)
		}
	}()

	if os.Getenv("SANITIZE_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(sanitize.ExitCodeForError(err))
	}
}
