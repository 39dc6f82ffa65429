package app

// pkg/app/server.go bridges Application → internal/server.

import (
	"context"

	"github.com/shashiranjanraj/catalog/internal/server"
)

// Serve builds the handler and serves it on addr until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, addr string) error {
	return server.Start(ctx, addr, buildHandler(a))
}
