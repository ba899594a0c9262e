// SPDX-License-Identifier: MIT

// Command connectome builds brain graphs from tractography and derives
// their invariants and spectral embeddings.
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

	if err := newApp().root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "connectome:", err)
		stop()
		os.Exit(1)
	}
}
