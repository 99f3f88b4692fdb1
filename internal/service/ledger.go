package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/shopspring/decimal"
)

// balanceChange описывает одно изменение баланса.
type balanceChange struct {
	AccountID int64
	Amount    decimal.Decimal
	Reason    domain.EntryReasonType
	Reference string
	Actor     int64
	At        time.Time
}

// adjustBalance единственная точка изменения баланса. Работает только внутри открытой единицы работы tx.
//
// Блокирует строку аккаунта, проверяет что баланс не уходит в минус, сохраняет новый баланс и проводку в
// журнале. Возвращает domain.ErrUnknownAccount и domain.ErrInsufficientFunds.
func adjustBalance(ctx context.Context, tx uow.TX, change balanceChange) (decimal.Decimal, error) {
	accounts, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return decimal.Zero, err //nolint:wrapcheck
	}
	ledger, err := uow.GetAs[LedgerRepository](tx, uow.RepositoryName(repoargs.LedgerRepoName))
	if err != nil {
		return decimal.Zero, err //nolint:wrapcheck
	}

	acc, err := accounts.FindByIDForUpdate(ctx, change.AccountID)
	if err != nil {
		return decimal.Zero, mapNotFound(err, domain.ErrUnknownAccount)
	}

	amount := domain.Money(change.Amount)
	newBalance := domain.Money(acc.Balance.Add(amount))
	if newBalance.IsNegative() {
		return decimal.Zero, fmt.Errorf(
			"account %d balance %s, change %s: %w", acc.ID, acc.Balance, amount, domain.ErrInsufficientFunds,
		)
	}

	if err := accounts.UpdateBalance(ctx, acc.ID, newBalance); err != nil {
		return decimal.Zero, err //nolint:wrapcheck
	}

	_, err = ledger.Create(ctx, repoargs.CreateLedgerEntry{
		AccountID:    acc.ID,
		Amount:       amount,
		BalanceAfter: newBalance,
		Reason:       change.Reason,
		Reference:    change.Reference,
		Actor:        change.Actor,
		CreatedAt:    change.At,
	})
	if err != nil {
		return decimal.Zero, err //nolint:wrapcheck
	}
	return newBalance, nil
}

// requireActiveAccount возвращает аккаунт, если он существует и не заблокирован.
func requireActiveAccount(ctx context.Context, accounts AccountRepository, id int64) (*domain.Account, error) {
	acc, err := accounts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrUnknownAccount)
	}
	if acc.IsSuspended() {
		return nil, fmt.Errorf("account %d: %w", id, domain.ErrAccountSuspended)
	}
	return acc, nil
}

// mapNotFound заменяет ошибку репозитория ErrRecordNotFound на бизнес-ошибку target.
func mapNotFound(err error, target error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", target, err.Error())
	}
	return err
}
