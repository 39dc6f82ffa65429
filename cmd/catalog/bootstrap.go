package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/app"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// MemoryStore as MONGO_URI runs the catalog on in-process stores. Nothing
// survives a restart.
const MemoryStore = "memory"

// kernel is everything a command needs once the store is up. db is nil on
// the memory store.
type kernel struct {
	db      *database.Handle
	catalog *services.CatalogService
	app     *app.Application
}

// boot loads config, connects MongoDB and wires repositories into the
// catalog service. The caller must call k.close.
func boot(ctx context.Context) (*kernel, error) {
	if err := config.LoadFrom(configPath, envPath); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger.Setup(os.Stdout, config.AppEnv())

	if config.MongoURI() == MemoryStore {
		return bootMemory(), nil
	}

	db, err := database.Connect(ctx, database.Options{
		URI:      config.MongoURI(),
		Database: config.MongoDatabase(),
		Timeout:  config.MongoTimeout(),
	})
	if err != nil {
		return nil, err
	}

	products := repositories.NewProductRepository(db.DB())
	variants := repositories.NewVariantRepository(db.DB())
	if err := products.EnsureIndexes(ctx); err != nil {
		_ = db.Close(context.Background())
		return nil, err
	}

	catalog := services.NewCatalogService(products, variants, services.Options{
		Strict: config.StrictCatalog(),
	})

	return &kernel{
		db:      db,
		catalog: catalog,
		app:     application(catalog).HealthCheck(db.Ping),
	}, nil
}

func bootMemory() *kernel {
	variants := repositories.NewMemoryVariantStore()
	products := repositories.NewMemoryProductStore(variants)
	catalog := services.NewCatalogService(products, variants, services.Options{
		Strict: config.StrictCatalog(),
	})
	return &kernel{catalog: catalog, app: application(catalog)}
}

func (k *kernel) close(ctx context.Context) error {
	if k.db == nil {
		return nil
	}
	return k.db.Close(ctx)
}

func application(catalog *services.CatalogService) *app.Application {
	return app.New().Routes(func(r *router.Router) {
		routes.RegisterAPI(r, catalog)
	})
}
