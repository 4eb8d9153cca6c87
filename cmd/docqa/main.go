package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/chunker"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/config"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/db"
	dbRedis "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/db/redis"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/domain"
	logpkg "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/logger"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/metrics"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/parser"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/repository/embcache"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/repository/index"
	chiTransport "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/transport/chi"
	lcTransport "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/transport/langchain"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/transport/local"
	openaiTransport "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/transport/openai"
	embeddinguc "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/usecase/embedding"
	healthuc "github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/usecase/health"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/usecase/rag"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docqa API server",
		zap.String("version", version.Version),
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("generation_provider", cfg.Generation.Provider),
		zap.String("generation_model", cfg.Generation.Model),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	ctx := context.Background()
	healthChecks := []healthuc.Component{}

	// Optional embedding cache
	var cache db.Store
	if cfg.Embedding.Cache.Enabled() {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Embedding.Cache.Addrs,
			Username: cfg.Embedding.Cache.Username,
			Password: cfg.Embedding.Cache.Password,
			DB:       cfg.Embedding.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create embedding cache store", zap.Error(err))
		}
		defer cache.Close()

		readiness := time.Duration(cfg.Embedding.Cache.ReadinessTimeout) * time.Second
		if err := cache.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Embedding cache not ready", zap.Error(err))
		}
		healthChecks = append(healthChecks, healthuc.Component{Name: "cache", Checker: healthuc.CheckFunc(cache.Ping)})
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Embedding.Cache.Addrs))
	}

	embedder, err := buildEmbedder(cfg.Embedding, cache, logger)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	healthChecks = append(healthChecks, healthuc.Component{Name: "embedding", Checker: embedder})

	generator, err := buildGenerator(ctx, cfg.Generation, logger)
	if err != nil {
		logger.Fatal("Failed to create generator", zap.Error(err))
	}
	if hc, ok := generator.(domain.HealthChecker); ok {
		healthChecks = append(healthChecks, healthuc.Component{Name: "generation", Checker: hc})
	}
	logger.Info("Providers created",
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", embedder.Dimensions()),
		zap.String("generation_model", cfg.Generation.Model),
	)

	splitter, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.Overlap())
	if err != nil {
		logger.Fatal("Invalid chunking settings", zap.Error(err))
	}

	builder, err := rag.NewBuilder(rag.BuilderConfig{
		Loader:   parser.LoadPDF,
		Splitter: splitter,
		Index: func(ctx context.Context, chunks []domain.Chunk, e domain.Embedder) (rag.Searcher, error) {
			return index.Build(ctx, chunks, e)
		},
		Embedder:  embedder,
		Generator: generator,
		TopK:      cfg.RAG.TopK,
		Observer:  rag.NewLogObserver(logger, metrics.PipelineStageDuration),
	})
	if err != nil {
		logger.Fatal("Failed to create pipeline builder", zap.Error(err))
	}

	session := rag.NewSession(builder, logger)
	healthSvc := healthuc.New(healthChecks...)

	server := chiTransport.NewServer(session, healthSvc, logger, int64(cfg.HTTP.MaxUploadMB)<<20)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: provider -> cached -> instrumented -> normalized.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	cache db.Store,
	logger *zap.Logger,
) (*embeddinguc.NormalizedEmbedder, error) {
	var base domain.Embedder
	switch cfg.Provider {
	case config.EmbeddingOpenAI:
		base = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Logger:     logger,
		})
	case config.EmbeddingOllama:
		e, err := lcTransport.NewOllamaEmbedder(cfg.BaseURL, cfg.Model, cfg.BatchSize)
		if err != nil {
			return nil, err
		}
		base = e
	default:
		base = local.New(cfg.Dimensions)
	}

	embedder := base
	if cache != nil {
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		embedder = embcache.New(base, cache, embcache.Namespace(cfg.Provider, cfg.Model, cfg.Dimensions), ttl, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, cfg.BatchSize, logger)

	// Normalized (outermost: the index sees unit vectors of one fixed width)
	return embeddinguc.NewNormalizedEmbedder(embedder, cfg.Dimensions), nil
}

func buildGenerator(ctx context.Context, cfg config.GenerationConfig, logger *zap.Logger) (domain.Generator, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	switch cfg.Provider {
	case config.GenerationOpenAI:
		return openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			Config: openaiTransport.Config{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
				Model:   cfg.Model,
				Logger:  logger,
			},
			Temperature: float32(cfg.Temperature),
			Timeout:     timeout,
		}), nil
	case config.GenerationOllama:
		return lcTransport.NewOllama(lcTransport.Config{
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			Timeout:     timeout,
			Logger:      logger,
		})
	default:
		return lcTransport.NewGoogleAI(ctx, lcTransport.Config{
			Model:       cfg.Model,
			APIKey:      cfg.APIKey,
			Temperature: cfg.Temperature,
			Timeout:     timeout,
			Logger:      logger,
		})
	}
}
