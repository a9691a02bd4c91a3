package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Newichka/autoBro/internal/constants"
	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/contracts"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// Publisher - то, что нужно адаптеру от rabbitmq_producer.Publisher
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ImportReporterAdapter публикует итог импорта в обменник уведомлений
type ImportReporterAdapter struct {
	producer   Publisher
	routingKey string
}

var _ port.ImportReporterPort = (*ImportReporterAdapter)(nil)

func NewImportReporterAdapter(producer Publisher, routingKey string) (*ImportReporterAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ImportReporterAdapter{producer: producer, routingKey: routingKey}, nil
}

func (a *ImportReporterAdapter) ReportImport(ctx context.Context, report domain.ImportReport) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ImportReporterAdapter",
		"routing_key": a.routingKey,
		"source_url":  report.SourceURL,
	})

	body, err := json.Marshal(toReportDTO(report))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal import report: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    contracts.ImportReportEventType,
			constants.HeaderEventVersion: contracts.EventVersionV1,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	adapterLogger.Info("Publishing import report", port.Fields{
		"received": report.Stats.Received,
		"created":  report.Stats.Created,
		"failed":   report.Stats.Failed,
	})
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish import report", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish import report: %w", err)
	}

	adapterLogger.Info("Successfully published import report", nil)
	return nil
}
