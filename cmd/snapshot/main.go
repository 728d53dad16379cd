// Command snapshot renders the demo layout mid-drag, with its alignment
// guides and rulers, to a PNG file without opening a window.
//
// Usage:
//
//	snapshot [--zoom 0.5] [--pan-x 0] [--pan-y 0] [--drag-x 3] [--drag-y 0] [--alt] [--out frame.png]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"design-canvas/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.ExecuteSnapshot(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
