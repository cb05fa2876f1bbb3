// Command colomine mines spatial colocations and emergent cascades from CSV.
//
// Usage:
//
//	colomine general  [flags] instances.csv
//	colomine emergent [flags] events.csv [--baseline old.csv]
//
// Settings come from --config (YAML); flags given on the command line win.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
