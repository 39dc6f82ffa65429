package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// catalog serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := boot(ctx)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := k.close(closeCtx); err != nil {
				logger.Error("database close failed", "error", err)
			}
		}()

		if config.LogToMongo() && k.db != nil {
			sink := logger.NewMongoHandler(ctx, k.db.Collection(config.LogMongoCollection()), nil)
			logger.Attach(sink)
			defer sink.Close()
		}

		logger.Info("catalog starting",
			"env", config.AppEnv(),
			"store", storeName(k),
			"strict", config.StrictCatalog(),
		)
		return k.app.Serve(ctx, ":"+config.AppPort())
	},
}

func storeName(k *kernel) string {
	if k.db == nil {
		return MemoryStore
	}
	return "mongodb/" + config.MongoDatabase()
}

// catalog route:list: print all registered routes. Needs no database.
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return application(nil).PrintRoutes(os.Stdout)
	},
}
