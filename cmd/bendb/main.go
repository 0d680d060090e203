// Command bendb is the BenDB shell, admin UI and TCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
