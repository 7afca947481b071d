// API server entry point for LexMeta.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jurimetric/lexmeta/internal/application/caselaw"
	"github.com/jurimetric/lexmeta/internal/config"
	"github.com/jurimetric/lexmeta/internal/extraction"
	"github.com/jurimetric/lexmeta/internal/infrastructure/database/postgres"
	"github.com/jurimetric/lexmeta/internal/infrastructure/database/postgres/repositories"
	"github.com/jurimetric/lexmeta/internal/infrastructure/database/redis"
	"github.com/jurimetric/lexmeta/internal/infrastructure/messaging/kafka"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/prometheus"
	"github.com/jurimetric/lexmeta/internal/infrastructure/search/opensearch"
	"github.com/jurimetric/lexmeta/internal/infrastructure/storage/minio"
	httpserver "github.com/jurimetric/lexmeta/internal/interfaces/http"
	"github.com/jurimetric/lexmeta/internal/interfaces/http/handlers"
	"github.com/jurimetric/lexmeta/internal/loader"
)

const defaultConfigPath = "configs/config.yaml"

var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting lexmeta api server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Persistence ──
	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("postgres connection: %w", err)
	}
	defer conn.Close()

	if cfg.Database.MigrationPath != "" {
		if err := postgres.RunMigrations(conn.DSN(), cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	repo := repositories.NewCaseRepository(conn.Pool(), logger)

	// ── Optional pipeline stages.  Each is wired when its backend is
	// reachable and skipped with a warning otherwise, so a broker or index
	// outage does not keep the API from serving. ──
	var opts []caselaw.Option

	redisClient, redisErr := redis.NewClient(cfg.Redis, logger)
	if redisErr != nil {
		logger.Warn("redis unavailable, extraction cache disabled", logging.Err(redisErr))
	} else {
		defer redisClient.Close()
		cache := redis.NewExtractionCache(redisClient, logger,
			redis.WithTTL(cfg.Redis.DefaultTTL))
		opts = append(opts, caselaw.WithCache(cache))
	}

	osClient, osErr := opensearch.NewClient(cfg.OpenSearch, logger)
	var searcher *opensearch.Searcher
	if osErr != nil {
		logger.Warn("opensearch unavailable, indexing disabled", logging.Err(osErr))
	} else {
		defer osClient.Close()
		indexer := opensearch.NewIndexer(osClient, cfg.OpenSearch.IndexPrefix, logger)
		if err := indexer.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("ensure search index: %w", err)
		}
		searcher = opensearch.NewSearcher(osClient, cfg.OpenSearch.IndexPrefix, logger)
		opts = append(opts, caselaw.WithIndexer(indexer))
	}

	producer, kafkaErr := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Kafka.Brokers,
		MaxRetries: cfg.Kafka.ProducerRetries,
		BatchSize:  cfg.Kafka.BatchSize,
	}, logger)
	if kafkaErr != nil {
		logger.Warn("kafka unavailable, event publishing disabled", logging.Err(kafkaErr))
	} else {
		defer producer.Close()
		if cfg.Kafka.AutoCreateTopics {
			if err := ensureTopics(ctx, cfg.Kafka.Brokers, logger); err != nil {
				logger.Warn("topic creation failed", logging.Err(err))
			}
		}
		opts = append(opts, caselaw.WithPublisher(producer))
	}

	minioClient, minioErr := minio.NewClient(cfg.MinIO, logger)
	if minioErr != nil {
		logger.Warn("minio unavailable, opinion archival disabled", logging.Err(minioErr))
	} else {
		defer minioClient.Close()
		opts = append(opts, caselaw.WithArchive(minio.NewOpinionArchive(minioClient, logger)))
	}

	// ── Metrics ──
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector: %w", err)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	// ── Pipeline ──
	extractor := extraction.New(
		extraction.Config{BatchConcurrency: cfg.Extraction.BatchConcurrency},
		extraction.WithLogger(logger),
		extraction.WithMetrics(appMetrics),
	)
	docs := loader.New(cfg.Loader, logger)
	opts = append(opts, caselaw.WithLogger(logger))
	service := caselaw.NewService(extractor, repo, docs, opts...)

	// ── HTTP ──
	checkers := []handlers.HealthChecker{
		handlers.CheckerFunc{ComponentName: "postgres", CheckFn: conn.HealthCheck},
	}
	if redisErr == nil {
		checkers = append(checkers, handlers.CheckerFunc{ComponentName: "redis", CheckFn: redisClient.Ping})
	}
	if osErr == nil {
		checkers = append(checkers, handlers.CheckerFunc{ComponentName: "opensearch", CheckFn: osClient.Ping})
	}

	var caseSearcher handlers.CaseSearcher
	if searcher != nil {
		caseSearcher = searcher
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		CaseHandler:      handlers.NewCaseHandler(service, caseSearcher, logger),
		HealthHandler:    handlers.NewHealthHandler(version, checkers...),
		Logger:           logger,
		Metrics:          appMetrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
		Mode:             cfg.Server.Mode,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}

// ensureTopics creates the standard topics, closing the manager afterwards.
func ensureTopics(ctx context.Context, brokers []string, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()
	return tm.EnsureDefaultTopics(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// No file; environment variables over defaults.
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
