package pgrepo

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"

	balanceCheckConstraint = "accounts_balance_check"
)

// convertErr приводит ошибку драйвера к ошибке слоя репозитория с контекстом format.
//
//   - pgx.ErrNoRows и нарушение внешнего ключа дают domain.ErrRecordNotFound.
//   - Дубликат ключа дает domain.ErrDuplicateKey.
//   - Нарушение CHECK на неотрицательный баланс дает domain.ErrInsufficientFunds.
//   - Остальное domain.ErrUnknown.
//
// Исходная ошибка остается в цепочке, чтобы uow мог распознать конфликт транзакций.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	errType := domain.ErrUnknown
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolationCode:
			errType = domain.ErrDuplicateKey
		case pgErr.Code == foreignKeyViolationCode:
			errType = domain.ErrRecordNotFound
		case pgErr.Code == checkViolationCode && pgErr.ConstraintName == balanceCheckConstraint:
			errType = domain.ErrInsufficientFunds
		}
	}

	return fmt.Errorf("[repository/%s] %w: %w", msg, errType, err)
}
