package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Newichka/autoBro/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type txKey struct{}

// querier - общее подмножество pgxpool.Pool и pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor кладет открытую транзакцию в ctx, репозитории берут ее через conn
type Transactor struct {
	pool *pgxpool.Pool
}

var _ port.TransactorPort = (*Transactor)(nil)

func NewTransactor(pool *pgxpool.Pool) (*Transactor, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &Transactor{pool: pool}, nil
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// conn возвращает транзакцию из ctx или пул
func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// withSavepoint выполняет fn во вложенной транзакции. Внутри ambient-транзакции
// pgx открывает SAVEPOINT, поэтому ошибка fn не ломает внешнюю транзакцию.
func withSavepoint(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	sp, err := conn(ctx, pool).Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin savepoint: %w", err)
	}
	defer sp.Rollback(ctx)

	if err := fn(sp); err != nil {
		return err
	}
	return sp.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
