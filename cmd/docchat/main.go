// Command docchat chats with PDF documents from the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
)

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)
	err := cli.ExecuteContext(ctx)
	cli.Shutdown()
	stop()
	if err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}
