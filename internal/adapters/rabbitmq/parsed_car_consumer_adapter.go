package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Newichka/autoBro/internal/constants"
	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/contracts"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
	"github.com/Newichka/autoBro/internal/core/port/usecases_port"
	"github.com/Newichka/autoBro/pkg/rabbitmq/rabbitmq_common"
	"github.com/Newichka/autoBro/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/lo"
)

// ParsedCarConsumerAdapter слушает очередь с объявлениями от парсера и
// сохраняет каждую пачку через ProcessParsedCarsUseCase
type ParsedCarConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.ProcessParsedCarsUseCase
	logger   port.LoggerPort
}

var _ port.EventListenerPort = (*ParsedCarConsumerAdapter)(nil)

func NewParsedCarConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.ProcessParsedCarsUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ParsedCarConsumerAdapter, error) {
	adapter := &ParsedCarConsumerAdapter{useCase: useCase, logger: logger}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.handleMessage, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for parsed cars: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// handleMessage: ошибка отправляет сообщение в retry-цикл, затем в DLQ
func (a *ParsedCarConsumerAdapter) handleMessage(d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"adapter_name": "ParsedCarConsumerAdapter",
	})

	ctx := context.Background()
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	sourceURL, listings, err := decodeParsedCarEvent(d)
	if err != nil {
		msgLogger.Error("Message rejected", err, nil)
		return err
	}

	msgLogger.Info("Received parsed cars batch", port.Fields{"source_url": sourceURL, "listing_count": len(listings)})

	if err := a.useCase.Execute(ctx, sourceURL, listings); err != nil {
		msgLogger.Error("Failed to process parsed cars batch", err, nil)
		return err
	}
	return nil
}

func decodeParsedCarEvent(d amqp.Delivery) (string, []domain.ParsedListing, error) {
	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		return "", nil, err
	}

	var dto ParsedCarEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal parsed car event: %w", err)
	}

	return dto.SourceURL, lo.Map(dto.Listings, func(l ParsedListingDTO, _ int) domain.ParsedListing {
		return toDomainListing(l)
	}), nil
}

func (a *ParsedCarConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *ParsedCarConsumerAdapter) Close() error {
	return a.consumer.Close()
}
