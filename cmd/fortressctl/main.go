package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/cli"
)

var version = "dev" //nolint:gochecknoglobals // set by -ldflags

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := cli.NewRootCommand(os.Stdin, os.Stdout, os.Stderr, version)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(cli.ExitCode(err)) //nolint:gocritic
	}
}
