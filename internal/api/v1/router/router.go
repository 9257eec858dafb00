package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"app/internal/ai"
	"app/internal/api/v1/handler"
	"app/internal/cache"
	"app/internal/config"
	"app/internal/database"
	"app/internal/events"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the whole application: storage, AI providers, services and the
// HTTP surface. The returned pool is owned by the caller and must be closed
// on shutdown.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	// Migrations run over database/sql; the request path uses pgx directly.
	migrateDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(migrateDB); err != nil {
		migrateDB.Close()
		return nil, nil, err
	}
	migrateDB.Close()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	s3Client, err := newS3Client(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	publisher, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	generators, err := newGenerators(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	providers := ai.NewRouter(logger, generators...)

	validate := validator.New(validator.WithRequiredStructEnabled())
	views := cache.New(time.Duration(cfg.UsageCacheTTLSec) * time.Second)

	accountRepo := repository.NewAccountRepo(pool)
	usageRepo := repository.NewUsageRepo(pool, cfg.OverageQueueName)
	overageRepo := repository.NewOverageRepo(pool)
	contentRepo := repository.NewContentRepo(pool)

	repurposeSvc := service.NewRepurposeService(
		accountRepo, usageRepo, contentRepo, providers,
		views, publisher, cfg.RepurposeTopic, logger,
	)
	usageSvc := service.NewUsageService(accountRepo, usageRepo, overageRepo, views, logger)
	contentSvc := service.NewContentService(
		contentRepo, views, s3Client, cfg.S3Bucket,
		time.Duration(cfg.ExportURLTTLMin)*time.Minute, logger,
	)

	repurposeHandler := handler.NewRepurposeHandler(repurposeSvc, validate)
	usageHandler := handler.NewUsageHandler(usageSvc, providers.Available())
	contentHandler := handler.NewContentHandler(contentSvc)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	apiV1Mux := http.NewServeMux()
	repurposeHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	usageHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	contentHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", middleware.MetricsMiddleware(apiV1Mux)))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), pool, nil
}

// newGenerators builds the AI provider set in ProviderPriority order. Keys
// missing from the environment fall back to Secret Manager when a GCP
// project is configured.
func newGenerators(ctx context.Context, cfg *config.Config, logger zerolog.Logger) ([]ai.Generator, error) {
	var secrets service.SecretSource
	if cfg.GCPProjectID != "" {
		s, err := service.NewSecretManagerSource(ctx, cfg.GCPProjectID, cfg.GCPCredentialsFile)
		if err != nil {
			return nil, err
		}
		secrets = s
	}

	resolveKey := func(provider, envKey string) string {
		if envKey != "" {
			return envKey
		}
		if secrets == nil {
			return ""
		}
		key, err := secrets.ProviderAPIKey(ctx, provider)
		if err != nil {
			logger.Warn().Err(err).Str("provider", provider).Msg("Provider API key lookup failed")
			return ""
		}
		return key
	}

	var generators []ai.Generator
	for _, name := range strings.Split(cfg.ProviderPriority, ",") {
		switch strings.TrimSpace(name) {
		case "openai":
			generators = append(generators, ai.NewOpenAIGenerator(resolveKey("openai", cfg.OpenAIAPIKey), cfg.OpenAIModel))
		case "anthropic":
			generators = append(generators, ai.NewAnthropicGenerator(resolveKey("anthropic", cfg.AnthropicAPIKey), cfg.AnthropicModel))
		default:
			logger.Warn().Str("provider", name).Msg("Unknown provider in priority list, skipping")
		}
	}
	return generators, nil
}

func newPublisher(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (events.Publisher, error) {
	if cfg.GCPProjectID == "" {
		logger.Warn().Msg("No GCP project configured, domain events disabled")
		return events.NopPublisher{}, nil
	}
	return events.NewPublisher(ctx, cfg.GCPProjectID)
}

// newS3Client returns nil when no object storage endpoint is configured;
// content export then reports storage unavailable.
func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	if cfg.S3URL == "" {
		return nil, nil
	}
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services. See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
