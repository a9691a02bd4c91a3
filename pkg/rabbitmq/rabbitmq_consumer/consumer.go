package rabbitmq_consumer

import "context"

// Consumer - общий контракт потребителей очередей
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}
