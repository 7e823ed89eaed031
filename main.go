package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/dendrascience/tidydir/internal/cmd"
	"github.com/dendrascience/tidydir/version"
)

func main() {
	// an interrupt stops a sweep between entries, never in the middle of a move
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fang.Execute(ctx, cmd.NewRootCmd(),
		fang.WithVersion(version.GetFullVersion()),
		fang.WithCommit(version.GetCommit()),
	)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
