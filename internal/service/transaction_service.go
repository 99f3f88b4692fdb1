package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TransactionService журнал пополнений и выводов.
type TransactionService struct {
	uow      uow.UOW
	accounts AccountRepository
	txRepo   TransactionRepository
	gateway  Gateway
	notifier Notifier
	opts     Options
	l        *logrus.Entry
}

func NewTransactionService(
	u uow.UOW,
	gateway Gateway,
	notifier Notifier,
	opts Options,
	l *logrus.Logger,
) (*TransactionService, error) {
	accounts, err := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	txRepo, err := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &TransactionService{
		uow:      u,
		accounts: accounts,
		txRepo:   txRepo,
		gateway:  gateway,
		notifier: notifier,
		opts:     opts,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "transactions",
		}),
	}, nil
}

// CreateDeposit выставляет счет в платежном шлюзе и сохраняет ожидающее пополнение.
//
// Счет создается до открытия единицы работы: при ошибке шлюза ничего не сохраняется и возвращается
// domain.ErrGatewayUnavailable. Транзакция и связь со счетом сохраняются вместе.
func (s *TransactionService) CreateDeposit(
	ctx context.Context,
	accountID int64,
	amount decimal.Decimal,
) (*domain.Transaction, error) {
	if err := domain.CheckMoney("amount", amount); err != nil {
		return nil, err
	}
	amount = domain.Money(amount)
	if amount.LessThan(s.opts.MinDeposit) {
		return nil, domain.NewValidationError("amount", fmt.Sprintf("minimum deposit is %s", s.opts.MinDeposit))
	}
	if amount.GreaterThan(s.opts.MaxDeposit) {
		return nil, domain.NewValidationError("amount", fmt.Sprintf("maximum deposit is %s", s.opts.MaxDeposit))
	}
	if _, err := requireActiveAccount(ctx, s.accounts, accountID); err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}

	invoice, invErr := s.gateway.CreateInvoice(ctx, amount, accountID)
	if invErr != nil {
		return nil, fmt.Errorf("create deposit: %w", invErr)
	}

	now := time.Now().UTC()
	t := &domain.Transaction{
		ID:        domain.NewTransactionID(domain.TransactionKindDeposit, now),
		AccountID: accountID,
		Amount:    amount,
		Kind:      domain.TransactionKindDeposit,
		Status:    domain.TransactionStatusPending,
		CreatedAt: now,
		Deposit: &domain.DepositDetails{
			InvoiceID: invoice.ID,
			PayURL:    invoice.PayURL,
		},
	}

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		txRepo, err := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		invoices, err := uow.GetAs[InvoiceRepository](tx, uow.RepositoryName(repoargs.InvoiceRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		if err := txRepo.Create(c, t); err != nil {
			return err //nolint:wrapcheck
		}
		return invoices.Create(c, invoice.ID, t.ID) //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("create deposit: %w", txErr)
	}

	s.l.WithFields(logrus.Fields{
		"transactionID": t.ID,
		"accountID":     accountID,
		"invoiceID":     invoice.ID,
		"amount":        amount,
	}).Info("deposit created")
	return t, nil
}

// CreateWithdraw списывает сумму сразу и сохраняет ожидающую заявку на вывод.
func (s *TransactionService) CreateWithdraw(
	ctx context.Context,
	accountID int64,
	amount decimal.Decimal,
	network domain.NetworkType,
	address string,
) (*domain.Transaction, error) {
	if err := domain.CheckMoney("amount", amount); err != nil {
		return nil, err
	}
	amount = domain.Money(amount)
	if amount.LessThan(s.opts.MinWithdraw) {
		return nil, domain.NewValidationError("amount", fmt.Sprintf("minimum withdraw is %s", s.opts.MinWithdraw))
	}
	if err := ValidateAddress(network, address); err != nil {
		return nil, fmt.Errorf("create withdraw: %w", err)
	}

	now := time.Now().UTC()
	t := &domain.Transaction{
		ID:        domain.NewTransactionID(domain.TransactionKindWithdraw, now),
		AccountID: accountID,
		Amount:    amount.Neg(),
		Kind:      domain.TransactionKindWithdraw,
		Status:    domain.TransactionStatusPending,
		CreatedAt: now,
		Withdraw: &domain.WithdrawDetails{
			Network: network,
			Address: address,
		},
	}

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accounts, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		if _, err := requireActiveAccount(c, accounts, accountID); err != nil {
			return err
		}
		if _, err := adjustBalance(c, tx, balanceChange{
			AccountID: accountID,
			Amount:    t.Amount,
			Reason:    domain.EntryReasonWithdraw,
			Reference: t.ID,
			Actor:     accountID,
			At:        now,
		}); err != nil {
			return err
		}
		txRepo, err := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		return txRepo.Create(c, t) //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("create withdraw: %w", txErr)
	}

	s.notifier.Notify(ctx, domain.Event{
		Type:      domain.EventWithdrawRequested,
		AccountID: accountID,
		Reference: t.ID,
		Amount:    amount,
	})
	return t, nil
}

// CompleteDeposit зачисляет оплаченное пополнение. Повторный вызов для завершенной транзакции ничего не меняет.
func (s *TransactionService) CompleteDeposit(ctx context.Context, id string) (*domain.Transaction, error) {
	t, changed, err := s.transition(ctx, id, domain.TransactionKindDeposit,
		func(c context.Context, tx uow.TX, t *domain.Transaction, now time.Time) (bool, error) {
			changed, err := t.Complete(0, now)
			if err != nil || !changed {
				return changed, err
			}
			_, err = adjustBalance(c, tx, balanceChange{
				AccountID: t.AccountID,
				Amount:    t.Amount,
				Reason:    domain.EntryReasonDeposit,
				Reference: t.ID,
				At:        now,
			})
			return true, err
		})
	if err != nil {
		return nil, fmt.Errorf("complete deposit: %w", err)
	}
	if changed {
		s.notifier.Notify(ctx, domain.Event{
			Type:      domain.EventDepositPaid,
			AccountID: t.AccountID,
			Reference: t.ID,
			Amount:    t.Amount,
		})
	}
	return t, nil
}

// ExpireDeposit помечает пополнение истекшим без влияния на баланс.
func (s *TransactionService) ExpireDeposit(ctx context.Context, id string) (*domain.Transaction, error) {
	t, _, err := s.transition(ctx, id, domain.TransactionKindDeposit,
		func(_ context.Context, _ uow.TX, t *domain.Transaction, now time.Time) (bool, error) {
			return t.Expire(now)
		})
	if err != nil {
		return nil, fmt.Errorf("expire deposit: %w", err)
	}
	return t, nil
}

// ApproveWithdraw подтверждает вывод. Сумма уже списана при создании заявки.
func (s *TransactionService) ApproveWithdraw(ctx context.Context, id string, actor int64) (*domain.Transaction, error) {
	t, changed, err := s.transition(ctx, id, domain.TransactionKindWithdraw,
		func(_ context.Context, _ uow.TX, t *domain.Transaction, now time.Time) (bool, error) {
			return t.Complete(actor, now)
		})
	if err != nil {
		return nil, fmt.Errorf("approve withdraw: %w", err)
	}
	if changed {
		s.notifier.Notify(ctx, domain.Event{
			Type:      domain.EventWithdrawApproved,
			AccountID: t.AccountID,
			Reference: t.ID,
			Amount:    t.Amount.Abs(),
		})
	}
	return t, nil
}

// RejectWithdraw отклоняет вывод и возвращает сумму на баланс.
func (s *TransactionService) RejectWithdraw(ctx context.Context, id string, actor int64) (*domain.Transaction, error) {
	t, changed, err := s.transition(ctx, id, domain.TransactionKindWithdraw,
		func(c context.Context, tx uow.TX, t *domain.Transaction, now time.Time) (bool, error) {
			changed, err := t.Reject(actor, now)
			if err != nil || !changed {
				return changed, err
			}
			_, err = adjustBalance(c, tx, balanceChange{
				AccountID: t.AccountID,
				Amount:    t.Amount.Abs(),
				Reason:    domain.EntryReasonWithdrawRevert,
				Reference: t.ID,
				Actor:     actor,
				At:        now,
			})
			return true, err
		})
	if err != nil {
		return nil, fmt.Errorf("reject withdraw: %w", err)
	}
	if changed {
		s.notifier.Notify(ctx, domain.Event{
			Type:      domain.EventWithdrawRejected,
			AccountID: t.AccountID,
			Reference: t.ID,
			Amount:    t.Amount.Abs(),
		})
	}
	return t, nil
}

type transitionFn func(ctx context.Context, tx uow.TX, t *domain.Transaction, now time.Time) (bool, error)

// transition блокирует транзакцию, проверяет ее вид и применяет fn. Изменения сохраняются только если fn
// сообщила об изменении статуса.
func (s *TransactionService) transition(
	ctx context.Context,
	id string,
	kind domain.TransactionKind,
	fn transitionFn,
) (*domain.Transaction, bool, error) {
	var (
		result  *domain.Transaction
		changed bool
	)
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		txRepo, err := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		t, err := txRepo.FindByIDForUpdate(c, id)
		if err != nil {
			return mapNotFound(err, domain.ErrUnknownTransaction)
		}
		if t.Kind != kind {
			return fmt.Errorf("transaction %s is %s: %w", t.ID, t.Kind, domain.ErrInvalidState)
		}

		changed, err = fn(c, tx, t, time.Now().UTC())
		if err != nil {
			return err
		}
		if changed {
			if err := txRepo.UpdateStatus(c, t); err != nil {
				return err //nolint:wrapcheck
			}
		}
		result = t
		return nil
	})
	if txErr != nil {
		return nil, false, txErr
	}
	return result, changed, nil
}

// Get возвращает транзакцию. Пользователь видит только свои транзакции.
func (s *TransactionService) Get(ctx context.Context, id string, viewerID int64) (*domain.Transaction, error) {
	t, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrUnknownTransaction)
	}
	if t.AccountID != viewerID && viewerID != s.opts.AdminID {
		return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrUnknownTransaction)
	}
	return t, nil
}

// PendingDeposits страница ожидающих оплаты пополнений после курсора, старые первыми.
func (s *TransactionService) PendingDeposits(
	ctx context.Context,
	after domain.Cursor,
	limit uint,
) ([]domain.Transaction, error) {
	res, err := s.txRepo.ListPending(ctx, domain.TransactionKindDeposit, after, limit)
	if err != nil {
		return nil, fmt.Errorf("pending deposits: %w", err)
	}
	return res, nil
}

// PendingWithdrawals заявки на вывод, ожидающие решения администратора.
func (s *TransactionService) PendingWithdrawals(
	ctx context.Context,
	after domain.Cursor,
	limit uint,
) ([]domain.Transaction, error) {
	res, err := s.txRepo.ListPending(ctx, domain.TransactionKindWithdraw, after, limit)
	if err != nil {
		return nil, fmt.Errorf("pending withdrawals: %w", err)
	}
	return res, nil
}
