package rabbitmq_consumer

import (
	"context"
	"fmt"

	"github.com/Newichka/autoBro/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Ack/Nack/retry решает пакет.
type MessageHandler func(delivery amqp.Delivery) error

// DistributingConsumer запускает обработчик для каждого сообщения в своей горутине
type DistributingConsumer struct {
	base    *baseConsumer
	handler MessageHandler
}

var _ Consumer = (*DistributingConsumer)(nil)

func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing Consumer: message handler is required")
	}

	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing Consumer: %w", err)
	}

	return &DistributingConsumer{base: bc, handler: handler}, nil
}

// StartConsuming блокируется до отмены ctx или закрытия соединения.
// Отмена ctx - штатное завершение, возвращается nil.
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	b := c.base
	if b.channel == nil || b.connection == nil || b.connection.IsClosed() {
		return fmt.Errorf("distributing Consumer: not connected")
	}

	msgs, err := b.channel.Consume(
		b.actualQueueName,
		b.config.ConsumerTag,
		false, // auto-ack
		b.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("distributing Consumer %s: failed to register a consumer on queue '%s': %w", b.config.ConsumerTag, b.actualQueueName, err)
	}

	b.Logger.Info("Waiting for messages on queue", "queue_name", b.actualQueueName)

	go c.dispatch(ctx, msgs)

	notifyClose := b.connection.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-ctx.Done():
		b.Logger.Info("Context cancelled. Shutting down consumer.", "consumer_tag", b.config.ConsumerTag)
		return nil
	case amqpErr := <-notifyClose:
		b.Logger.Error(amqpErr, "Connection closed for consumer.", "consumer_tag", b.config.ConsumerTag)
		if amqpErr == nil {
			return fmt.Errorf("distributing Consumer: connection closed")
		}
		return amqpErr
	}
}

func (c *DistributingConsumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	b := c.base
	for {
		// отмена проверяется первой, чтобы не брать новое сообщение после сигнала остановки
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				b.Logger.Info("Deliveries channel closed by broker", "consumer_tag", b.config.ConsumerTag)
				return
			}
			b.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer b.wg.Done()
				b.Logger.Debug("Started processing message", "consumer_tag", b.config.ConsumerTag, "delivery_tag", delivery.DeliveryTag)
				b.settle(delivery, c.handler(delivery))
			}(d)
		}
	}
}

func (c *DistributingConsumer) Close() error {
	c.base.Logger.Info("Closing consumer")
	return c.base.Close()
}
