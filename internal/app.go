package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalog_api_client "korx-catalog/internal/adapters/catalog_api_client"
	"korx-catalog/internal/adapters/kvstore"
	logger_adapter "korx-catalog/internal/adapters/logger"
	"korx-catalog/internal/adapters/media"
	"korx-catalog/internal/adapters/notifier"
	postgres_adapter "korx-catalog/internal/adapters/postgres"
	rabbitmq_adapter "korx-catalog/internal/adapters/rabbitmq"
	"korx-catalog/internal/adapters/rest"
	"korx-catalog/internal/configs"
	"korx-catalog/internal/constants"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/favorites"
	"korx-catalog/internal/core/port"
	"korx-catalog/internal/core/usecase"
	fluentlogger "korx-catalog/pkg/fluent_logger"
	"korx-catalog/pkg/postgres"
	"korx-catalog/pkg/rabbitmq/rabbitmq_common"
	"korx-catalog/pkg/rabbitmq/rabbitmq_producer"
	redisclient "korx-catalog/pkg/redis"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	redis     *redis.Client
	apiServer *rest.Server

	rabbitMQConnManager *rabbitmq_common.ConnectionManager
	eventsProducer      *rabbitmq_producer.Publisher

	favorites *favorites.Set
	notifier  *notifier.SSENotifier

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	var stdoutLogger port.LoggerPort
	if appConfig.StdoutLogger.Format == "json" {
		zapLogger, err := logger_adapter.NewZapAdapter(appConfig.StdoutLogger.Level, appConfig.AppName)
		if err != nil {
			return nil, fmt.Errorf("failed to create zap logger: %w", err)
		}
		stdoutLogger = zapLogger
	} else {
		stdoutLogger = logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
			Level:    logger_adapter.ParseLogLevel(appConfig.StdoutLogger.Level),
			UseColor: true,
		})
	}
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, appConfig.AppName, logger_adapter.ParseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			_ = fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiLoggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ ---
	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	app := &App{config: appConfig, fluentClient: fluentClient, logger: appLogger}
	if err := app.wire(baseLogger); err != nil {
		app.closeResources()
		return nil, err
	}
	return app, nil
}

// wire собирает хранилища, клиентов, use cases и HTTP-сервер. Все, что успело
// открыться до ошибки, закрывает closeResources.
func (a *App) wire(baseLogger port.LoggerPort) error {
	cfg := a.config
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// --- 3. ХРАНИЛИЩА ---
	if cfg.Database.URL != "" {
		dbPool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: cfg.Database.URL})
		if err != nil {
			a.logger.Error("Failed to connect to PostgreSQL", err, nil)
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.dbPool = dbPool
		if err := postgres_adapter.EnsureSchema(ctx, dbPool); err != nil {
			a.logger.Error("Failed to apply database schema", err, nil)
			return err
		}
		a.logger.Info("Successfully connected to PostgreSQL pool!", nil)
	}

	var kv port.KVStorePort
	switch cfg.KV.Backend {
	case configs.KVBackendRedis:
		client, err := redisclient.NewClient(ctx, redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.logger.Error("Failed to connect to Redis", err, nil)
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.redis = client
		kv = kvstore.NewRedisStore(client, cfg.AppName)
	case configs.KVBackendPostgres:
		store, err := postgres_adapter.NewPostgresKVStore(a.dbPool)
		if err != nil {
			return fmt.Errorf("failed to create postgres kv store: %w", err)
		}
		kv = store
	default:
		kv = kvstore.NewMemoryStore()
	}
	a.logger.Info("KV store initialized", port.Fields{"backend": cfg.KV.Backend})

	var drafts port.DraftRepositoryPort
	if a.dbPool != nil {
		repo, err := postgres_adapter.NewPostgresDraftRepository(a.dbPool)
		if err != nil {
			return fmt.Errorf("failed to create postgres draft repository: %w", err)
		}
		drafts = repo
	} else {
		drafts = kvstore.NewDraftRepository(kv, kvstore.DefaultDraftTTL)
	}

	// --- 4. ВНЕШНИЕ СЕРВИСЫ ---
	policy := domain.ParseDraftVisibility(cfg.DraftPolicy)
	apiClient := catalog_api_client.NewClient(catalog_api_client.Config{
		BaseURL: cfg.CatalogAPI.URL,
		Timeout: cfg.CatalogAPI.Timeout,
		Retries: cfg.CatalogAPI.Retries,
		Policy:  policy,
	})
	mediaResolver, err := media.NewURLResolver(cfg.Media.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to create media resolver: %w", err)
	}

	// без RABBITMQ_URL события об отправке просто не публикуются
	var events port.SubmissionEventsPort
	if cfg.RabbitMQ.URL != "" {
		rmqLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))
		connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: cfg.RabbitMQ.URL}, rmqLogger)
		if err != nil {
			a.logger.Error("Failed to connect to RabbitMQ", err, nil)
			return fmt.Errorf("failed to create RabbitMQ connection manager: %w", err)
		}
		a.rabbitMQConnManager = connManager

		producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Exchange: rabbitmq_producer.ExchangeConfig{
				Name:    constants.ExchangeCatalogEvents,
				Kind:    "topic",
				Durable: true,
			},
			Declare: true,
			Confirm: true,
			Logger:  rmqLogger,
		}, connManager)
		if err != nil {
			return fmt.Errorf("failed to create events producer: %w", err)
		}
		a.eventsProducer = producer

		eventsAdapter, err := rabbitmq_adapter.NewSubmissionEventsAdapter(producer)
		if err != nil {
			return err
		}
		events = eventsAdapter
		a.logger.Info("RabbitMQ events producer initialized", port.Fields{"exchange": constants.ExchangeCatalogEvents})
	}

	// --- 5. ИЗБРАННОЕ ---
	favoritesSet := favorites.NewSet(kv, baseLogger)
	if err := favoritesSet.Load(ctx); err != nil {
		// набор остается пустым, приложение работает дальше
		a.logger.Warn("Failed to load favorites, starting with an empty set", port.Fields{"error": err.Error()})
	}
	a.favorites = favoritesSet
	a.notifier = notifier.NewSSENotifier(favoritesSet, baseLogger)

	// --- 6. USE CASES ---
	getListingUC := usecase.NewGetListingUseCase(apiClient, favoritesSet, mediaResolver, policy)
	getChildrenUC := usecase.NewGetChildrenUseCase(apiClient, favoritesSet, mediaResolver, policy)
	getLookupsUC := usecase.NewGetLookupsUseCase(apiClient, kv, cfg.KV.LookupCacheTTL)

	toggleFavoriteUC := usecase.NewToggleFavoriteUseCase(favoritesSet)
	getFavoritesUC := usecase.NewGetFavoritesUseCase(favoritesSet)

	startDraftUC := usecase.NewStartDraftUseCase(apiClient, drafts)
	getDraftUC := usecase.NewGetDraftUseCase(drafts)
	updateDraftUC := usecase.NewUpdateDraftRecordUseCase(drafts)
	moveDraftUC := usecase.NewMoveDraftUseCase(drafts)
	attachMediaUC := usecase.NewAttachDraftMediaUseCase(drafts)
	submitDraftUC := usecase.NewSubmitDraftUseCase(apiClient, drafts, events, policy)
	discardDraftUC := usecase.NewDiscardDraftUseCase(drafts)

	// --- 7. REST API ---
	listingsHandler := rest.NewListingsHandler(getListingUC, getChildrenUC, getLookupsUC)
	favoritesHandler := rest.NewFavoritesHandler(toggleFavoriteUC, getFavoritesUC, a.notifier)
	draftsHandler := rest.NewDraftsHandler(
		startDraftUC, getDraftUC, updateDraftUC, moveDraftUC,
		attachMediaUC, submitDraftUC, discardDraftUC,
		cfg.Media.UploadDir,
	)
	a.apiServer = rest.NewServer(cfg.Rest.PORT, cfg.Rest.CORSAllowedOrigins, listingsHandler, favoritesHandler, draftsHandler, baseLogger)
	a.logger.Info("REST API server configured.", nil)

	return nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.apiServer.Stop(ctx); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
			cancel()
		}
		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
		return err
	}
	return nil
}

// closeResources закрывает все в обратном порядке. Избранное закрывается до
// хранилищ, чтобы последняя запись успела уйти.
func (a *App) closeResources() {
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.favorites != nil {
		a.favorites.Close()
		a.logger.Info("Favorites flushed.", nil)
	}

	if a.eventsProducer != nil {
		if err := a.eventsProducer.Close(); err != nil {
			a.logger.Error("Error closing events producer", err, nil)
		}
	}
	if a.rabbitMQConnManager != nil {
		if err := a.rabbitMQConnManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
