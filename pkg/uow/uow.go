package uow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

const defaultMaxAttempts = 3

// UnitOfWork реализация UOW поверх пула соединений postgres.
type UnitOfWork struct {
	conn         *pgxpool.Pool
	txOptions    pgx.TxOptions
	maxAttempts  int
	repositories map[RepositoryName]RepositoryFactory
}

func NewUnitOfWork(conn *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{
		conn:         conn,
		txOptions:    pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		maxAttempts:  defaultMaxAttempts,
		repositories: make(map[RepositoryName]RepositoryFactory),
	}
}

// SetIsoLevel задает уровень изоляции транзакций, открываемых в Do.
func (u *UnitOfWork) SetIsoLevel(level pgx.TxIsoLevel) *UnitOfWork {
	u.txOptions.IsoLevel = level
	return u
}

// SetMaxAttempts задает число попыток выполнить Do при конфликте транзакций. Значения меньше 1 игнорируются.
func (u *UnitOfWork) SetMaxAttempts(n int) *UnitOfWork {
	if n >= 1 {
		u.maxAttempts = n
	}
	return u
}

// Register регистрирует фабрику репозитория. Повторная регистрация имени возвращает
// ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if _, ok := u.repositories[name]; ok {
		return fmt.Errorf("%w: %s", ErrRepositoryAlreadyRegistered, name)
	}
	u.repositories[name] = factory
	return nil
}

// Do выполняет fn внутри транзакции. Любая ошибка fn откатывает транзакцию целиком.
//
// Если postgres откатил транзакцию из-за deadlock или конфликта сериализации, fn выполняется заново в новой
// транзакции, поэтому fn не должна иметь побочных эффектов вне tx.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) error {
	var err error
	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		err = u.attempt(ctx, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return fmt.Errorf("uow: %d attempts: %w", u.maxAttempts, err)
}

func (u *UnitOfWork) attempt(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, u.txOptions)
	if txErr != nil {
		return fmt.Errorf("uow: begin: %w", txErr)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if fnErr := fn(ctx, NewTransaction(tx, u.repositories)); fnErr != nil {
		return fnErr
	}
	if commitErr := tx.Commit(ctx); commitErr != nil {
		return fmt.Errorf("uow: commit: %w", commitErr)
	}
	return nil
}

// GetRepository возвращает репозиторий, работающий вне транзакции, или ошибку ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if factory, ok := u.repositories[name]; ok {
		return factory(u.conn), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// Close закрывает пул соединений.
func (u *UnitOfWork) Close() error {
	u.conn.Close()
	return nil
}
