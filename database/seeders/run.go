// Package seeders provides a registry of seed functions.
//
// Define a seeder in any file in this package:
//
//	func init() {
//	    Register("catalog", SeedCatalog)
//	}
//
// Then run it via CLI: catalog seed
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/catalog/app/services"
)

// SeederFunc is the signature for a seed function. Seeders write through the
// service so cascades and validation apply exactly as for API requests.
type SeederFunc func(ctx context.Context, catalog *services.CatalogService) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order, reporting
// progress to w. It stops on the first error.
func RunAll(ctx context.Context, catalog *services.CatalogService, w io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(w, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(w, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, catalog); err != nil {
			fmt.Fprintln(w, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(w, "done")
	}
	return nil
}
