package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"lingochat/pkg/console"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	if err := execute(ctx, a, newRootCmd(a)); err != nil {
		if !errors.Is(err, errReported) {
			console.PrintError(os.Stderr, "%v", err)
		}
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree and then ends the backend session, including
// after a failed or interrupted run.
func execute(ctx context.Context, a *app, root *cobra.Command) error {
	defer a.endSession()
	return root.ExecuteContext(ctx)
}
