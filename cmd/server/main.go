package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/frostmart/storefront-service/config"
	"github.com/frostmart/storefront-service/internal/assistant"
	"github.com/frostmart/storefront-service/internal/auth"
	"github.com/frostmart/storefront-service/internal/cart"
	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/handlers"
	"github.com/frostmart/storefront-service/internal/httpx/ratelimit"
	"github.com/frostmart/storefront-service/internal/intent"
	"github.com/frostmart/storefront-service/internal/kvstore"
	"github.com/frostmart/storefront-service/internal/metrics"
	"github.com/frostmart/storefront-service/internal/middleware"
	"github.com/frostmart/storefront-service/internal/settings"
	"github.com/frostmart/storefront-service/internal/telemetry"
	"github.com/frostmart/storefront-service/internal/translation"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting storefront service")

	ctx := context.Background()

	telemetryCleanup := telemetry.MustInit(ctx, telemetry.GetConfigFromEnv())
	defer telemetryCleanup(ctx)

	store, statusChecker, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open key-value store")
	}
	defer closeStore()

	logger.Info().Str("type", cfg.Store.Type).Msg("Key-value store ready")

	rateCfg := ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
		MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
	}

	recorder := metrics.NewRecorder()

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, rateCfg, cfg.Catalog.RequestTimeout)
	catalogSvc := catalog.NewService(catalogClient, store, cfg.Catalog.Discounts, cfg.Catalog.CacheTTL, recorder, *logger)

	translator := translation.NewMyMemory(cfg.Translation.BaseURL, rateCfg, cfg.Translation.RequestTimeout)
	translationCache := translation.NewCache(store, *logger)
	translationSvc := translation.NewService(translator, translationCache,
		cfg.Translation.CallDelay, cfg.Translation.SourceLang, cfg.Translation.TargetLang, recorder, *logger)

	resolver := intent.NewResolver(intent.DefaultLexicon())
	provider := assistant.NewGemini(cfg.Assistant.APIKey, cfg.Assistant.Model, cfg.Assistant.RequestTimeout)
	assistantSvc := assistant.NewService(provider, catalogSvc, resolver,
		cfg.Assistant.RequestTimeout, cfg.Assistant.HistoryWindow, cfg.Assistant.CatalogExcerpt, recorder, *logger)

	if provider.Enabled() {
		logger.Info().Str("model", provider.ModelVersion()).Msg("Assistant enabled")
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, assistant runs in disabled mode")
	}

	cartSvc := cart.NewService(ctx, store, recorder, *logger)
	authSvc := auth.NewService(store, *logger)
	settingsSvc := settings.NewService(store, *logger)

	h := &handlers.Handlers{
		Catalog:     catalogSvc,
		Translation: translationSvc,
		Cart:        cartSvc,
		Assistant:   assistantSvc,
		Auth:        authSvc,
		Settings:    settingsSvc,
		Status:      statusChecker,
		Logger:      *logger,
	}

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit())
	{
		products := api.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/categories", h.ListCategories)
			products.GET("/recommendations", h.ListRecommendations)
			products.GET("/:id", h.GetProduct)
		}

		cartRoutes := api.Group("/cart")
		{
			cartRoutes.GET("", h.GetCart)
			cartRoutes.DELETE("", h.ClearCart)
			cartRoutes.POST("/items", h.AddCartItem)
			cartRoutes.PUT("/items/:id", h.SetCartItemQuantity)
			cartRoutes.DELETE("/items/:id", h.RemoveCartItem)
		}

		chat := api.Group("/chat")
		{
			chat.POST("", h.SendChatMessage)
			chat.GET("/history", h.GetChatHistory)
			chat.DELETE("/history", h.ClearChatHistory)
		}

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Register)
			authRoutes.POST("/login", h.Login)
			authRoutes.POST("/logout", h.Logout)
			authRoutes.GET("/session", h.GetSession)
		}

		settingsRoutes := api.Group("/settings")
		{
			settingsRoutes.GET("", h.GetSettings)
			settingsRoutes.PUT("", h.UpdateSettings)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.InternalAuth())
		{
			admin.POST("/cache/clear", h.ClearCaches)
			admin.GET("/export", h.ExportCatalog)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// openStore builds the configured key-value store. The Postgres store
// additionally serves as the health check's status source.
func openStore(ctx context.Context, cfg config.StoreConfig) (kvstore.Store, handlers.StatusChecker, func(), error) {
	switch cfg.Type {
	case "postgres":
		url := cfg.URL
		if url == "" {
			url = config.GetStoreURL()
		}
		if url == "" {
			return nil, nil, nil, fmt.Errorf("store type is postgres but DATABASE_URL is not set")
		}
		pg, err := kvstore.NewPostgres(ctx, url)
		if err != nil {
			return nil, nil, nil, err
		}
		return pg, pg, pg.Close, nil
	case "local", "":
		local, err := kvstore.NewLocal(cfg.BasePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return local, nil, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "storefront-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
