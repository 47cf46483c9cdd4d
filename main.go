package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itish2003/notionkeep/config"
	"github.com/itish2003/notionkeep/controller"
	"github.com/itish2003/notionkeep/logging"
	"github.com/itish2003/notionkeep/metrics"
	"github.com/itish2003/notionkeep/middleware"
	"github.com/itish2003/notionkeep/services"
	"github.com/itish2003/notionkeep/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.Setup(cfg, os.Stdout)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open note store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close note store", slog.Any("error", err))
		}
	}()

	// chat stays disabled, not fatal, until a key is configured
	var generator services.Generator
	if cfg.HasAPIKey() {
		params := services.GenerationParameters{
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
			MaxOutputTokens: cfg.MaxOutputTokens,
		}
		gc, err := services.NewGeminiClient(ctx, cfg.APIKey(), cfg.GeminiBaseURL, params, services.NewQuotaClassifier(cfg.RetryDelay))
		if err != nil {
			logger.Error("failed to create gemini client", slog.Any("error", err))
			os.Exit(1)
		}
		generator = gc
		logger.Info("gemini client ready", slog.Any("models", cfg.Models))
	} else {
		logger.Warn("GOOGLE_AI_API_KEY not set, chat requests will be rejected")
	}

	chatService := services.NewChatService(repo, generator, services.ChatOptions{
		Models:       cfg.Models,
		ProbeModels:  cfg.ProbeModels,
		Locale:       services.LocaleFor(cfg.ChatLanguage),
		SnippetChars: cfg.SnippetChars,
		Timeout:      cfg.ChatTimeout,
		Logger:       logger,
	})
	fileStore, err := services.NewFileStore(cfg.UploadDir, cfg.MaxUploadBytes())
	if err != nil {
		logger.Error("failed to prepare upload directory", slog.Any("error", err))
		os.Exit(1)
	}
	noteService := services.NewNoteService(repo, fileStore, logger)

	if cfg.IndexPath != "" {
		startImporter(ctx, cfg, repo, logger)
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSAllowOrigins),
		metrics.Middleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "NotionKeep API",
			"store":   cfg.NoteStore,
			"chat":    chatService.HasAPIKey(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/uploads", fileStore.Dir)

	controller.RegisterRoutes(router,
		controller.NewChatController(chatService),
		controller.NewNotesController(noteService),
		controller.NewUploadController(fileStore, cfg.MaxUploadBytes()),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// a chat run may wait out one quota back-off
		WriteTimeout: cfg.ChatTimeout + 15*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

// openRepository returns the configured note store. Chroma is retried with
// exponential back-off while it starts up.
func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.NoteRepository, error) {
	if !cfg.UsesChroma() {
		opts := []store.MemoryOption{}
		if cfg.SeedWelcomeNote {
			opts = append(opts, store.WithWelcomeNote())
		}
		logger.Info("using in-memory note store")
		return store.NewMemoryStore(opts...), nil
	}

	embedder, err := store.NewOllamaEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel)
	if err != nil {
		return nil, fmt.Errorf("op=main.openRepository: %w", err)
	}

	var (
		client     chromago.Client
		collection chromago.Collection
	)
	op := func() error {
		c, col, err := store.ConnectChroma(ctx, cfg.ChromaURL, cfg.ChromaCollection)
		if err != nil {
			logger.Warn("chroma not reachable yet", slog.String("url", cfg.ChromaURL), slog.Any("error", err))
			return err
		}
		client, collection = c, col
		return nil
	}
	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = cfg.ChromaConnectMax
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return nil, fmt.Errorf("op=main.openRepository: %w", err)
	}

	count, err := collection.Count(ctx)
	if err != nil {
		logger.Warn("could not count chroma records", slog.Any("error", err))
	}
	logger.Info("using chroma note store",
		slog.String("collection", cfg.ChromaCollection),
		slog.Int("records", int(count)),
	)
	return store.NewChromaStore(client, collection, embedder, logger), nil
}

func startImporter(ctx context.Context, cfg config.Config, repo store.NoteRepository, logger *slog.Logger) {
	if err := services.SetupPDFLicense(cfg.UnidocLicenseKey); err != nil {
		logger.Warn("pdf import disabled", slog.Any("error", err))
	}
	importer, err := services.NewImporter(repo, cfg.IndexPath, logger)
	if err != nil {
		logger.Error("directory import disabled", slog.Any("error", err))
		return
	}
	go func() {
		if err := importer.Run(ctx); err != nil {
			logger.Error("directory import stopped", slog.Any("error", err))
		}
	}()
}
