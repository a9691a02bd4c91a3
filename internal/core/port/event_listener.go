package port

import "context"

// EventListenerPort - входящий адаптер очереди. Start блокируется до отмены ctx.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
