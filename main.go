package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// Adapters register themselves with the datasource registry.
	_ "github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource/oracle"
	_ "github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource/postgres"
	"github.com/ekaya-inc/ekaya-dal/pkg/cli"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(Version).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
