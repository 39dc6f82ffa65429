// Package database owns the MongoDB connection. One Handle is opened at
// process start, passed to the repositories, and closed on shutdown.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Options configures Connect.
type Options struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Handle is a connected client bound to one database.
type Handle struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the client and verifies it with a ping. Returns an error
// instead of exiting so the caller can shut down cleanly.
func Connect(ctx context.Context, opts Options) (*Handle, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	clientOpts := options.Client().ApplyURI(opts.URI).
		SetConnectTimeout(opts.Timeout).
		SetServerSelectionTimeout(opts.Timeout).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &Handle{client: client, db: client.Database(opts.Database)}, nil
}

// Wrap binds an existing database (used by tests with a mocked deployment).
func Wrap(db *mongo.Database) *Handle {
	return &Handle{client: db.Client(), db: db}
}

// DB returns the bound database.
func (h *Handle) DB() *mongo.Database { return h.db }

// Collection returns a collection of the bound database.
func (h *Handle) Collection(name string) *mongo.Collection {
	return h.db.Collection(name)
}

// Ping checks the primary is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	return h.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (h *Handle) Close(ctx context.Context) error {
	if err := h.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("database: disconnect: %w", err)
	}
	return nil
}
