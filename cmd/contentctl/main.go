package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/dsaquest-backend/internal/app"
)

func openApp(ctx context.Context) (contentOps, func(), error) {
	a, err := app.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init app: %w", err)
	}
	return a.Services.Content, a.Close, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openApp).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "contentctl:", err)
		stop()
		os.Exit(1)
	}
}
