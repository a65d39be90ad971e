package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	catalogRefresh   bool
	catalogCategory  string
	catalogTranslate bool
	catalogOutput    string
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the enriched product catalog",
	Long: `Fetch the product catalog, apply the discount table, and print the
result. Serves from the cached snapshot unless --refresh is given.`,
	Example: `  storefront catalog
  storefront catalog --category electronics --output json
  storefront catalog --refresh --translate`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().BoolVar(&catalogRefresh, "refresh", false, "Bypass the cache and fetch from upstream")
	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "Filter by category")
	catalogCmd.Flags().BoolVar(&catalogTranslate, "translate", false, "Translate titles and descriptions")
	catalogCmd.Flags().StringVar(&catalogOutput, "output", "table", "Output format: table or json")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	catalogSvc := newCatalogService(store)

	products, err := catalogSvc.Load(ctx, catalogRefresh)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if catalogCategory != "" {
		products, err = catalogSvc.ByCategory(ctx, catalogCategory)
		if err != nil {
			return fmt.Errorf("failed to filter catalog: %w", err)
		}
	}

	if catalogTranslate {
		products = newTranslationService(store).TranslateProducts(ctx, products, true)
	}

	if catalogOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRICE\tDISCOUNT")
	for _, p := range products {
		discount := "-"
		if p.Discounted() {
			discount = fmt.Sprintf("-%d%% (was %.2f)", p.DiscountPercent, p.OriginalPrice)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n", p.ID, p.Title, p.Category, p.Price, discount)
	}
	return w.Flush()
}
