package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frostmart/storefront-service/internal/export"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the enriched catalog to an Excel workbook",
	Example: `  storefront export
  storefront export --out /tmp/catalog.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOutput, "out", "catalog.xlsx", "Output file path")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	products, err := newCatalogService(store).Load(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := export.WriteFile(products, exportOutput); err != nil {
		return err
	}

	logger.Info().Str("file", exportOutput).Int("products", len(products)).Msg("Catalog exported")
	return nil
}
