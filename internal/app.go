package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Newichka/autoBro/internal/adapters/filestorage"
	"github.com/Newichka/autoBro/internal/adapters/listingfetcher"
	logger_adapter "github.com/Newichka/autoBro/internal/adapters/logger"
	postgres_adapter "github.com/Newichka/autoBro/internal/adapters/postgres"
	rabbitmq_adapter "github.com/Newichka/autoBro/internal/adapters/rabbitmq"
	"github.com/Newichka/autoBro/internal/adapters/rest"
	"github.com/Newichka/autoBro/internal/configs"
	"github.com/Newichka/autoBro/internal/constants"
	"github.com/Newichka/autoBro/internal/core/port"
	"github.com/Newichka/autoBro/internal/core/usecase"
	fluentlogger "github.com/Newichka/autoBro/pkg/fluent_logger"
	"github.com/Newichka/autoBro/pkg/postgres"
	"github.com/Newichka/autoBro/pkg/rabbitmq/rabbitmq_common"
	"github.com/Newichka/autoBro/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/Newichka/autoBro/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

// App - корень композиции каталога
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	// nil, если RabbitMQ выключен
	connManager          *rabbitmq_common.ConnectionManager
	parsedCarsListener   port.EventListenerPort
	importReportProducer *rabbitmq_producer.Publisher
}

// NewApp читает конфигурацию, создает все зависимости и связывает их
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- логгеры ---
	activeLoggers := []port.LoggerPort{
		logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
			Level:    parseLogLevel(appConfig.StdoutLogger.Level),
			UseColor: true,
		}),
	}
	stdoutLogger := activeLoggers[0]

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{config: appConfig, fluentClient: fluentClient, logger: appLogger}
	fail := func(msg string, err error) (*App, error) {
		appLogger.Error(msg, err, nil)
		application.closeResources()
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	// --- PostgreSQL ---
	ctx := context.Background()
	dbPool, err := postgres.NewClient(ctx, postgres.Config{
		DatabaseURL:     appConfig.Database.URL,
		MaxConns:        int32(appConfig.Database.MaxConns),
		MinConns:        int32(appConfig.Database.MinConns),
		MaxConnLifetime: appConfig.Database.MaxConnLifetime,
		ConnectTimeout:  appConfig.Database.ConnectTimeout,
	})
	if err != nil {
		return fail("Failed to connect to PostgreSQL", err)
	}
	application.dbPool = dbPool
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	if appConfig.Migrations.Enabled {
		if err := postgres_adapter.Migrate(ctx, dbPool); err != nil {
			return fail("Failed to apply migrations", err)
		}
		appLogger.Info("Database migrations applied", nil)
	}

	transactor, err := postgres_adapter.NewTransactor(dbPool)
	if err != nil {
		return fail("Failed to create transactor", err)
	}
	carStorage, err := postgres_adapter.NewCarStorageAdapter(dbPool)
	if err != nil {
		return fail("Failed to create car storage adapter", err)
	}
	photoRepository, err := postgres_adapter.NewPhotoRepository(dbPool)
	if err != nil {
		return fail("Failed to create photo repository", err)
	}
	dictionaryRepository, err := postgres_adapter.NewDictionaryRepository(dbPool)
	if err != nil {
		return fail("Failed to create dictionary repository", err)
	}
	statisticsRepository, err := postgres_adapter.NewStatisticsRepository(dbPool)
	if err != nil {
		return fail("Failed to create statistics repository", err)
	}
	appLogger.Info("Postgres storage adapters initialized.", nil)

	// --- файлы и парсер ---
	fileStorage, err := filestorage.NewLocalFileStorage(filestorage.Config{
		UploadDir:           appConfig.FileStorage.UploadDir,
		PublicPrefix:        appConfig.FileStorage.PublicPrefix,
		AllowedContentTypes: appConfig.FileStorage.AllowedContentTypes,
		MaxFileSize:         appConfig.FileStorage.MaxFileSize,
	})
	if err != nil {
		return fail("Failed to create file storage", err)
	}

	listingFetcher, err := listingfetcher.NewCommandFetcher(listingfetcher.Config{
		Command:    appConfig.Parser.Command,
		ScriptPath: appConfig.Parser.ScriptPath,
		Timeout:    appConfig.Parser.Timeout,
	})
	if err != nil {
		return fail("Failed to create listing fetcher", err)
	}
	appLogger.Info("File storage and listing fetcher initialized.", port.Fields{"upload_dir": fileStorage.Root()})

	// --- use cases ---
	normalizer := usecase.NewReferenceNormalizer(dictionaryRepository)
	validator := usecase.NewCarValidator(time.Now)
	carWriter := usecase.NewCarWriter(carStorage, normalizer, validator, transactor)

	importListingsUseCase := usecase.NewImportListingsUseCase(carWriter)
	fetchListingsUseCase := usecase.NewFetchListingsUseCase(listingFetcher)

	carHandler := rest.NewCarHandler(
		usecase.NewSearchCarsUseCase(carStorage, appConfig.Catalog.MaxPageSize),
		usecase.NewGetCarByIDUseCase(carStorage),
		usecase.NewCreateCarUseCase(carWriter),
		usecase.NewCreateCarWithPhotosUseCase(carWriter, photoRepository, fileStorage),
		usecase.NewUpdateCarUseCase(carWriter, fileStorage),
		usecase.NewDeleteCarUseCase(carStorage, fileStorage),
	)
	photoHandler := rest.NewPhotoHandler(
		usecase.NewUploadPhotosUseCase(carStorage, photoRepository, fileStorage, transactor),
		usecase.NewReplacePhotosUseCase(carStorage, photoRepository, fileStorage, transactor),
		usecase.NewDeletePhotoUseCase(carStorage, photoRepository, fileStorage, transactor),
	)
	catalogHandler := rest.NewCatalogHandler(
		usecase.NewListMakesUseCase(statisticsRepository),
		usecase.NewListModelsUseCase(statisticsRepository),
		usecase.NewYearRangeUseCase(statisticsRepository),
		usecase.NewPriceRangeUseCase(statisticsRepository),
		usecase.NewGetDictionariesUseCase(dictionaryRepository),
	)
	parserHandler := rest.NewParserHandler(
		fetchListingsUseCase,
		usecase.NewFetchAndImportUseCase(fetchListingsUseCase, importListingsUseCase),
	)

	// --- RabbitMQ ---
	if appConfig.RabbitMQ.Enabled {
		if err := application.initMessaging(baseLogger, importListingsUseCase); err != nil {
			return fail("Failed to initialize RabbitMQ adapters", err)
		}
	} else {
		appLogger.Info("RabbitMQ disabled, parsed car events will not be consumed", nil)
	}

	application.apiServer = rest.NewServer(
		appConfig.Rest.PORT,
		carHandler, photoHandler, catalogHandler, parserHandler,
		rest.StaticFiles{Dir: fileStorage.Root(), Prefix: fileStorage.PublicPrefix()},
		baseLogger,
	)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

func (a *App) initMessaging(baseLogger port.LoggerPort, importer *usecase.ImportListingsUseCase) error {
	url := a.config.RabbitMQ.URL

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.GetManager(url, connManagerBridge)
	if err != nil {
		return fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: url},
		ExchangeName:             constants.NotifyExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		return fmt.Errorf("failed to create import report producer: %w", err)
	}
	a.importReportProducer = producer

	reporter, err := rabbitmq_adapter.NewImportReporterAdapter(producer, constants.RoutingKeyImportResults)
	if err != nil {
		return err
	}
	processUseCase := usecase.NewProcessParsedCarsUseCase(importer, reporter)

	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:       rabbitmq_common.Config{URL: url},
		QueueName:    constants.QueueParsedCars,
		DeclareQueue: true,
		DurableQueue: true,

		ExchangeNameForBind:    constants.ParserExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "direct",
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyParsedCars,

		PrefetchCount: 10,
		ConsumerTag:   constants.ConsumerTagParsedCars,

		EnableRetryMechanism: true,
		RetryExchange:        constants.RetryExchange,
		RetryQueue:           constants.RetryQueue,
		RetryTTL:             constants.RetryTTLms,
		FinalDLXExchange:     constants.FinalDLXExchange,
		FinalDLQ:             constants.FinalDLQ,
		FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		MaxRetries:           constants.MaxRetries,
	}
	listener, err := rabbitmq_adapter.NewParsedCarConsumerAdapter(consumerCfg, processUseCase, baseLogger, connManager)
	if err != nil {
		return err
	}
	a.parsedCarsListener = listener
	a.logger.Info("Parsed cars listener initialized.", port.Fields{"queue": constants.QueueParsedCars})
	return nil
}

// Run запускает сервер и слушателей и блокируется до сигнала или сбоя компонента
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	a.logger.Info("Application is starting...", nil)

	if a.parsedCarsListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Parsed Cars Listener"})
			listenerLogger.Info("Starting listener...", nil)

			if err := a.parsedCarsListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("parsed cars listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	a.logger.Info("Shutdown sequence initiated...", nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	cancelApp()
	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()

	a.closeResources()
	return runErr
}

// closeResources закрывает то, что успело создаться, в обратном порядке
func (a *App) closeResources() {
	if a.parsedCarsListener != nil {
		if err := a.parsedCarsListener.Close(); err != nil {
			a.logger.Error("Error closing parsed cars listener", err, nil)
		}
	}
	if a.importReportProducer != nil {
		if err := a.importReportProducer.Close(); err != nil {
			a.logger.Error("Error closing import report producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
