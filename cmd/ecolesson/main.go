package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/promarceloborges/Ecolesson/internal/cli"
)

// Version information
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Ctrl-C 取消正在进行的生成
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
