package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/indaco/reqscan/internal/cli"
	"github.com/indaco/reqscan/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, printer.Error(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

// runCLI runs the root command with a context canceled on SIGINT or SIGTERM,
// which also stops any interpreter process still running.
func runCLI(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.New().Run(ctx, args)
}
