package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Newichka/autoBro/pkg/rabbitmq/rabbitmq_common"
	"github.com/Newichka/autoBro/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig описывает очередь, ее привязку и схему повторных попыток
type ConsumerConfig struct {
	rabbitmq_common.Config

	QueueName       string // пустое имя - сервер сгенерирует свое
	DeclareQueue    bool
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table

	ExchangeNameForBind    string // пустое имя - очередь не привязывается
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	ExchangeArgsForBind    amqp.Table

	RoutingKeyForBind string
	BindingArgs       amqp.Table

	PrefetchCount int
	PrefetchSize  int
	QosGlobal     bool

	ConsumerTag       string
	ExclusiveConsumer bool

	// Retry: основная очередь -> RetryExchange -> RetryQueue (TTL) -> обратно в
	// ExchangeNameForBind. После MaxRetries сообщение уходит в FinalDLQ.
	EnableRetryMechanism bool
	RetryExchange        string
	RetryQueue           string
	RetryTTL             int // миллисекунды
	FinalDLXExchange     string
	FinalDLQ             string
	FinalDLQRoutingKey   string
	MaxRetries           int

	Logger rabbitmq_common.Logger
}

func (cfg ConsumerConfig) validate() error {
	if err := cfg.Config.Validate(); err != nil {
		return fmt.Errorf("invalid base config: %w", err)
	}
	if !cfg.DeclareQueue && cfg.QueueName == "" {
		return fmt.Errorf("queue name is required if DeclareQueue is false")
	}
	if cfg.DeclareExchangeForBind && cfg.ExchangeTypeForBind == "" {
		return fmt.Errorf("exchange type is required if declaring an exchange for binding")
	}
	if cfg.EnableRetryMechanism {
		if cfg.RetryExchange == "" || cfg.RetryQueue == "" || cfg.FinalDLXExchange == "" || cfg.FinalDLQ == "" {
			return fmt.Errorf("retry mechanism requires retry exchange/queue and final DLX/DLQ names")
		}
		if cfg.ExchangeNameForBind == "" {
			return fmt.Errorf("retry mechanism requires ExchangeNameForBind to route messages back")
		}
		if cfg.RetryTTL <= 0 {
			return fmt.Errorf("retry mechanism requires positive RetryTTL")
		}
	}
	return nil
}

// baseConsumer содержит общую для потребителей настройку канала и топологии
type baseConsumer struct {
	config            ConsumerConfig
	connection        *amqp.Connection
	channel           *amqp.Channel
	actualQueueName   string
	finalDlxPublisher *rabbitmq_producer.Publisher
	wg                sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func newBaseConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*baseConsumer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("base Consumer: %w", err)
	}
	if connManager == nil {
		return nil, fmt.Errorf("base Consumer: connection manager is required")
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("base Consumer: failed to get channel from manager: %w", err)
	}

	c := &baseConsumer{
		config:     cfg,
		connection: conn,
		channel:    ch,
		Logger:     logger,
	}

	if err := c.setupTopology(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("base Consumer: setup failed: %w", err)
	}

	if cfg.EnableRetryMechanism {
		dlxPublisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:       cfg.Config,
			ExchangeName: cfg.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("base Consumer: failed to create final DLX publisher: %w", err)
		}
		c.finalDlxPublisher = dlxPublisher
	}

	return c, nil
}

func (c *baseConsumer) setupTopology() error {
	cfg := &c.config

	if cfg.PrefetchCount > 0 || cfg.PrefetchSize > 0 {
		c.Logger.Debug("Setting QoS", "prefetch_count", cfg.PrefetchCount, "prefetch_size", cfg.PrefetchSize)
		if err := c.channel.Qos(cfg.PrefetchCount, cfg.PrefetchSize, cfg.QosGlobal); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if cfg.EnableRetryMechanism {
		if err := c.declareRetryTopology(); err != nil {
			return err
		}
		if cfg.QueueArgs == nil {
			cfg.QueueArgs = amqp.Table{}
		}
		// отклоненные сообщения основной очереди уходят в retry-обменник
		cfg.QueueArgs["x-dead-letter-exchange"] = cfg.RetryExchange
	}

	c.actualQueueName = cfg.QueueName
	if cfg.DeclareQueue {
		c.Logger.Debug("Declaring queue", "name", cfg.QueueName, "durable", cfg.DurableQueue)
		q, err := c.channel.QueueDeclare(cfg.QueueName, cfg.DurableQueue, cfg.AutoDeleteQueue, cfg.ExclusiveQueue, false, cfg.QueueArgs)
		if err != nil {
			return fmt.Errorf("failed to declare queue '%s': %w", cfg.QueueName, err)
		}
		c.actualQueueName = q.Name
	}

	if cfg.DeclareExchangeForBind {
		c.Logger.Debug("Declaring exchange", "name", cfg.ExchangeNameForBind, "type", cfg.ExchangeTypeForBind)
		err := c.channel.ExchangeDeclare(cfg.ExchangeNameForBind, cfg.ExchangeTypeForBind, cfg.DurableExchangeForBind, false, false, false, cfg.ExchangeArgsForBind)
		if err != nil {
			return fmt.Errorf("failed to declare exchange '%s' for binding: %w", cfg.ExchangeNameForBind, err)
		}
	}

	if cfg.ExchangeNameForBind != "" {
		c.Logger.Debug("Binding queue", "queue", c.actualQueueName, "exchange", cfg.ExchangeNameForBind, "routing_key", cfg.RoutingKeyForBind)
		if err := c.channel.QueueBind(c.actualQueueName, cfg.RoutingKeyForBind, cfg.ExchangeNameForBind, false, cfg.BindingArgs); err != nil {
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.actualQueueName, cfg.ExchangeNameForBind, err)
		}
	}

	c.Logger.Debug("Setup complete", "queue", c.actualQueueName)
	return nil
}

func (c *baseConsumer) declareRetryTopology() error {
	cfg := c.config

	if err := c.channel.ExchangeDeclare(cfg.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLX: %w", err)
	}
	if _, err := c.channel.QueueDeclare(cfg.FinalDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLQ: %w", err)
	}
	if err := c.channel.QueueBind(cfg.FinalDLQ, cfg.FinalDLQRoutingKey, cfg.FinalDLXExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind final DLQ: %w", err)
	}

	if err := c.channel.ExchangeDeclare(cfg.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare retry exchange: %w", err)
	}
	_, err := c.channel.QueueDeclare(cfg.RetryQueue, true, false, false, false, amqp.Table{
		"x-message-ttl":             int32(cfg.RetryTTL),
		"x-dead-letter-exchange":    cfg.ExchangeNameForBind,
		"x-dead-letter-routing-key": cfg.RoutingKeyForBind,
	})
	if err != nil {
		return fmt.Errorf("failed to declare retry-wait queue: %w", err)
	}
	if err := c.channel.QueueBind(cfg.RetryQueue, "", cfg.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind retry-wait queue: %w", err)
	}

	c.Logger.Debug("Retry topology declared", "retry_queue", cfg.RetryQueue, "ttl_ms", cfg.RetryTTL, "final_dlq", cfg.FinalDLQ)
	return nil
}

// deathCount возвращает, сколько раз сообщение было отклонено основной очередью
func deathCount(d amqp.Delivery, queueName string) int64 {
	deaths, ok := d.Headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if queue, _ := tbl["queue"].(string); queue == queueName {
			if count, ok := tbl["count"].(int64); ok {
				return count
			}
		}
	}
	return 0
}

// settle подтверждает или отклоняет сообщение по результату обработчика
func (c *baseConsumer) settle(d amqp.Delivery, handlerErr error) {
	tag := c.config.ConsumerTag

	if handlerErr == nil {
		_ = d.Ack(false)
		c.Logger.Debug("Message acked", "consumer_tag", tag, "delivery_tag", d.DeliveryTag)
		return
	}

	c.Logger.Error(handlerErr, "Handler error for message", "consumer_tag", tag, "delivery_tag", d.DeliveryTag)

	if !c.config.EnableRetryMechanism {
		_ = d.Nack(false, false)
		return
	}

	deaths := deathCount(d, c.actualQueueName)
	if deaths < int64(c.config.MaxRetries) {
		c.Logger.Info("Sending message to retry loop", "delivery_tag", d.DeliveryTag, "death_count", deaths)
		_ = d.Nack(false, false)
		return
	}

	c.Logger.Warn("Max retries reached, publishing to final DLX", "delivery_tag", d.DeliveryTag)
	err := c.finalDlxPublisher.Publish(context.Background(), c.config.FinalDLQRoutingKey, amqp.Publishing{
		ContentType:  d.ContentType,
		Body:         d.Body,
		Headers:      d.Headers,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		c.Logger.Error(err, "Failed to publish to final DLX, message stays in retry loop", "delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

// Close дожидается активных обработчиков и закрывает канал
func (c *baseConsumer) Close() error {
	c.Logger.Debug("Waiting for message handlers to finish...")
	c.wg.Wait()

	var firstErr error
	if c.finalDlxPublisher != nil {
		if err := c.finalDlxPublisher.Close(); err != nil {
			firstErr = err
		}
	}
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.Logger.Error(err, "Error closing channel")
			if firstErr == nil {
				firstErr = err
			}
		}
		c.channel = nil
	}

	c.Logger.Info("Consumer closed")
	return firstErr
}
