package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	// драйвер применения миграций к postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// источник миграций из *.sql файлов.
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const (
	connectMaxAttempts   = 30
	connectRetryInterval = 3 * time.Second
)

// Connect открывает пул соединений, повторяя попытки пока база не поднимется, и применяет миграции.
func Connect(ctx context.Context, migrationsDir, dsn string, l *logrus.Logger) (*pgxpool.Pool, error) {
	var (
		conn    *pgxpool.Pool
		connErr error
	)
	for attempt := 1; ; attempt++ {
		conn, connErr = newPostgresConnection(ctx, dsn)
		if connErr == nil {
			break
		}
		if attempt >= connectMaxAttempts {
			return nil, fmt.Errorf("init postgres connection after %d attempts: %w", attempt, connErr)
		}
		l.WithError(connErr).
			WithField("CurrentAttempt", fmt.Sprintf("#%d / %d", attempt, connectMaxAttempts)).
			Warnf("init postgres connection error, retrying in %.f seconds", connectRetryInterval.Seconds())

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("init postgres connection: %w", ctx.Err())
		case <-time.After(connectRetryInterval):
		}
	}

	if err := postgresMigrate(migrationsDir, dsn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// NewUnitOfWork создает единицу работы над пулом и регистрирует в ней все репозитории.
func NewUnitOfWork(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.AccountRepoName:     func(dbtx uow.DBTX) uow.Repository { return NewAccountRepository(dbtx) },
		repoargs.TransactionRepoName: func(dbtx uow.DBTX) uow.Repository { return NewTransactionRepository(dbtx) },
		repoargs.DealRepoName:        func(dbtx uow.DBTX) uow.Repository { return NewDealRepository(dbtx) },
		repoargs.InvoiceRepoName:     func(dbtx uow.DBTX) uow.Repository { return NewInvoiceRepository(dbtx) },
		repoargs.LedgerRepoName:      func(dbtx uow.DBTX) uow.Repository { return NewLedgerRepository(dbtx) },
	}
	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %w", regErr)
		}
	}
	return unitOfWork, nil
}

func newPostgresConnection(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, confErr := pgxpool.ParseConfig(dsn)
	if confErr != nil {
		return nil, fmt.Errorf("parse postgres config: %s", confErr.Error())
	}
	pool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
	if poolErr != nil {
		return nil, fmt.Errorf("failed to create pool: %s", poolErr.Error())
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %s", pingErr.Error())
	}

	return pool, nil
}

func postgresMigrate(dir string, dsn string) error {
	m, mErr := migrate.New("file://"+dir, dsn)
	if mErr != nil {
		return fmt.Errorf("failed to create migrate instance: %w", mErr)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
