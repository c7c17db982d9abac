// Command lorekeep manages a tabletop campaign knowledge base stored in SQLite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/lorekeep/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "lorekeep: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
