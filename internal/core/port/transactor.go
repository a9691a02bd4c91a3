package port

import "context"

// TransactorPort выполняет fn в одной транзакции. Вложенный вызов
// переиспользует уже открытую транзакцию.
type TransactorPort interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
