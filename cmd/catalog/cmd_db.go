package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/database/seeders"
)

// catalog seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		k, err := boot(ctx)
		if err != nil {
			return err
		}
		defer k.close(ctx) //nolint:errcheck

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, k.catalog, os.Stdout)
	},
}
