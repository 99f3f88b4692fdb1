package uow

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRepositoryNotRegistered     = errors.New("uow: repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("uow: repository already registered")
	ErrInvalidRepositoryType       = errors.New("uow: invalid repository type")
)

const (
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

// isRetryable сообщает, что транзакция откатилась из-за конфликта с параллельной транзакцией и ее можно
// выполнить повторно целиком.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailureCode || pgErr.Code == deadlockDetectedCode
}
