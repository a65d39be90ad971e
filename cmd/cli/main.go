package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/frostmart/storefront-service/config"
	"github.com/frostmart/storefront-service/internal/assistant"
	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/httpx/ratelimit"
	"github.com/frostmart/storefront-service/internal/intent"
	"github.com/frostmart/storefront-service/internal/kvstore"
	"github.com/frostmart/storefront-service/internal/translation"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront CLI - catalog, translation, and assistant tooling",
	Long: `A CLI tool for working with the storefront's product catalog:
listing enriched products, warming the translation cache, exporting the
catalog to Excel, and talking to the shopping assistant from a terminal.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	if cfg == nil {
		return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
	}
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	noColor := false
	if cfg != nil {
		noColor = cfg.Logging.NoColor
	}
	output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

// openStore builds the configured key-value store for CLI commands.
func openStore(ctx context.Context) (kvstore.Store, func(), error) {
	switch cfg.Store.Type {
	case "postgres":
		url := cfg.Store.URL
		if url == "" {
			url = config.GetStoreURL()
		}
		if url == "" {
			return nil, nil, fmt.Errorf("store type is postgres but DATABASE_URL is not set")
		}
		pg, err := kvstore.NewPostgres(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		local, err := kvstore.NewLocal(cfg.Store.BasePath)
		if err != nil {
			return nil, nil, err
		}
		return local, func() {}, nil
	}
}

func rateConfig() ratelimit.Config {
	return ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
		MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
	}
}

func newCatalogService(store kvstore.Store) *catalog.Service {
	client := catalog.NewClient(cfg.Catalog.BaseURL, rateConfig(), cfg.Catalog.RequestTimeout)
	return catalog.NewService(client, store, cfg.Catalog.Discounts, cfg.Catalog.CacheTTL, nil, *logger)
}

func newTranslationService(store kvstore.Store) *translation.Service {
	translator := translation.NewMyMemory(cfg.Translation.BaseURL, rateConfig(), cfg.Translation.RequestTimeout)
	cache := translation.NewCache(store, *logger)
	return translation.NewService(translator, cache,
		cfg.Translation.CallDelay, cfg.Translation.SourceLang, cfg.Translation.TargetLang, nil, *logger)
}

func newAssistantService(cat *catalog.Service) *assistant.Service {
	provider := assistant.NewGemini(cfg.Assistant.APIKey, cfg.Assistant.Model, cfg.Assistant.RequestTimeout)
	resolver := intent.NewResolver(intent.DefaultLexicon())
	return assistant.NewService(provider, cat, resolver,
		cfg.Assistant.RequestTimeout, cfg.Assistant.HistoryWindow, cfg.Assistant.CatalogExcerpt, nil, *logger)
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
