package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var translateClear bool

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Warm or clear the translation cache",
	Long: `Translate the whole catalog once so shoppers with translation enabled
get instant cache hits. Translation runs serially with a fixed delay
between calls, so warming a full catalog takes a few minutes.`,
	Example: `  storefront translate
  storefront translate --clear`,
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().BoolVar(&translateClear, "clear", false, "Clear the cache instead of warming it")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	translationSvc := newTranslationService(store)

	if translateClear {
		translationSvc.ClearCache(ctx)
		logger.Info().Msg("Translation cache cleared")
		return nil
	}

	products, err := newCatalogService(store).Load(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	logger.Info().Int("products", len(products)).Msg("Warming translation cache")
	translationSvc.TranslateProducts(ctx, products, true)
	logger.Info().Msg("Translation cache warmed")
	return nil
}
