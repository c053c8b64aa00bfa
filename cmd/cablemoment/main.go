package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/cablemoment/internal/cli"
	"github.com/matzehuels/cablemoment/pkg/errors"
)

// Exit codes.
const (
	exitError    = 1
	exitTopology = 3   // the network has no single root or collides on a segment
	exitCanceled = 130 // SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the exit code for it.
func report(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return exitCanceled
	}
	if code := errors.GetCode(err); code != "" {
		fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", code, errors.UserMessage(err))
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	if errors.IsTopology(err) {
		return exitTopology
	}
	return exitError
}

func run(ctx context.Context) error {
	root := cli.New(os.Stderr, cli.LogInfo).RootCommand()
	root.SilenceErrors = true
	return root.ExecuteContext(ctx)
}
