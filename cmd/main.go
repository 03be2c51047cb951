package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/dsaquest-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewServerApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize app:", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start(ctx)
	if err := a.Run(ctx); err != nil {
		a.Log.Error("Server exited", "error", err)
	}
}
