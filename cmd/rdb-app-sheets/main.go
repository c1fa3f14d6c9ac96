package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rdb-forms/rdb-app-sheets/commands"
	"github.com/rdb-forms/rdb-app-sheets/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.Execute(ctx)

	stop()

	if err != nil {
		log.Fatalf("%v", err)
	}
}
