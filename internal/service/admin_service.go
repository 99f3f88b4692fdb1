package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxReferenceLen ограничение длины ссылки в проводке журнала.
const maxReferenceLen = 64

// AdminService административные операции. Все методы доступны только настроенному администратору.
type AdminService struct {
	uow          uow.UOW
	accounts     AccountRepository
	txRepo       TransactionRepository
	dealRepo     DealRepository
	transactions *TransactionService
	deals        *DealService
	notifier     Notifier
	opts         Options
	l            *logrus.Entry
}

func NewAdminService(
	u uow.UOW,
	transactions *TransactionService,
	deals *DealService,
	notifier Notifier,
	opts Options,
	l *logrus.Logger,
) (*AdminService, error) {
	accounts, err := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	txRepo, err := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	dealRepo, err := uow.GetRepositoryAs[DealRepository](u, uow.RepositoryName(repoargs.DealRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &AdminService{
		uow:          u,
		accounts:     accounts,
		txRepo:       txRepo,
		dealRepo:     dealRepo,
		transactions: transactions,
		deals:        deals,
		notifier:     notifier,
		opts:         opts,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "admin",
		}),
	}, nil
}

// IsAdmin сообщает, является ли аккаунт администратором.
func (s *AdminService) IsAdmin(actor int64) bool {
	return actor != 0 && actor == s.opts.AdminID
}

func (s *AdminService) authorize(actor int64) error {
	if !s.IsAdmin(actor) {
		return fmt.Errorf("actor %d: %w", actor, domain.ErrUnauthorized)
	}
	return nil
}

// Ban блокирует аккаунт. Повторная блокировка оставляет исходную причину.
func (s *AdminService) Ban(ctx context.Context, actor, accountID int64, reason string) (*domain.Account, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if accountID == actor {
		return nil, domain.NewValidationError("account", "administrator cannot be suspended")
	}
	acc, changed, err := s.setSuspension(ctx, accountID, &domain.Suspension{
		By:     actor,
		At:     time.Now().UTC(),
		Reason: strings.TrimSpace(reason),
	})
	if err != nil {
		return nil, fmt.Errorf("ban account: %w", err)
	}
	if changed {
		s.l.WithFields(logrus.Fields{"actor": actor, "accountID": accountID, "reason": reason}).Warn("account suspended")
		s.notifier.Notify(ctx, domain.Event{
			Type:      domain.EventAccountSuspended,
			AccountID: accountID,
			Message:   acc.Suspension.Reason,
		})
	}
	return acc, nil
}

// Unban снимает блокировку.
func (s *AdminService) Unban(ctx context.Context, actor, accountID int64) (*domain.Account, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	acc, changed, err := s.setSuspension(ctx, accountID, nil)
	if err != nil {
		return nil, fmt.Errorf("unban account: %w", err)
	}
	if changed {
		s.l.WithFields(logrus.Fields{"actor": actor, "accountID": accountID}).Warn("account unsuspended")
		s.notifier.Notify(ctx, domain.Event{Type: domain.EventAccountUnsuspended, AccountID: accountID})
	}
	return acc, nil
}

func (s *AdminService) setSuspension(
	ctx context.Context,
	accountID int64,
	suspension *domain.Suspension,
) (*domain.Account, bool, error) {
	var (
		acc     *domain.Account
		changed bool
	)
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accounts, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		a, err := accounts.FindByIDForUpdate(c, accountID)
		if err != nil {
			return mapNotFound(err, domain.ErrUnknownAccount)
		}
		acc = a
		if a.IsSuspended() == (suspension != nil) {
			return nil
		}
		if err := accounts.SetSuspension(c, accountID, suspension); err != nil {
			return err //nolint:wrapcheck
		}
		acc.Suspension = suspension
		changed = true
		return nil
	})
	return acc, changed, txErr
}

// AdjustBalance ручная корректировка баланса со знаком. Баланс не может уйти в минус.
func (s *AdminService) AdjustBalance(
	ctx context.Context,
	actor, accountID int64,
	amount decimal.Decimal,
	reason string,
) (decimal.Decimal, error) {
	if err := s.authorize(actor); err != nil {
		return decimal.Zero, err
	}
	if err := domain.CheckMoney("amount", amount); err != nil {
		return decimal.Zero, err
	}
	amount = domain.Money(amount)
	if amount.IsZero() {
		return decimal.Zero, domain.NewValidationError("amount", "must not be zero")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return decimal.Zero, domain.NewValidationError("reason", "must not be empty")
	}

	var newBalance decimal.Decimal
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var err error
		newBalance, err = adjustBalance(c, tx, balanceChange{
			AccountID: accountID,
			Amount:    amount,
			Reason:    domain.EntryReasonAdjustment,
			Reference: truncate(reason, maxReferenceLen),
			Actor:     actor,
			At:        time.Now().UTC(),
		})
		return err
	})
	if txErr != nil {
		return decimal.Zero, fmt.Errorf("adjust balance: %w", txErr)
	}

	s.l.WithFields(logrus.Fields{
		"actor":      actor,
		"accountID":  accountID,
		"amount":     amount,
		"newBalance": newBalance,
		"reason":     reason,
	}).Warn("balance adjusted manually")
	return newBalance, nil
}

func (s *AdminService) ApproveWithdraw(ctx context.Context, actor int64, id string) (*domain.Transaction, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.transactions.ApproveWithdraw(ctx, id, actor)
}

func (s *AdminService) RejectWithdraw(ctx context.Context, actor int64, id string) (*domain.Transaction, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.transactions.RejectWithdraw(ctx, id, actor)
}

func (s *AdminService) ResolveDispute(
	ctx context.Context,
	actor int64,
	dealID string,
	winner int64,
	comment string,
) (*domain.Deal, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.deals.ResolveDispute(ctx, dealID, winner, comment, actor)
}

// PendingWithdrawals страница ожидающих заявок на вывод после курсора. Следующая страница
// запрашивается с курсором последней полученной заявки.
func (s *AdminService) PendingWithdrawals(
	ctx context.Context,
	actor int64,
	after domain.Cursor,
	limit uint,
) ([]domain.Transaction, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.transactions.PendingWithdrawals(ctx, after, pageLimit(limit))
}

// OpenDisputes страница открытых споров после курсора.
func (s *AdminService) OpenDisputes(
	ctx context.Context,
	actor int64,
	after domain.Cursor,
	limit uint,
) ([]domain.Deal, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.deals.OpenDisputes(ctx, after, pageLimit(limit))
}

// Stats сводная статистика системы.
func (s *AdminService) Stats(ctx context.Context, actor int64) (*domain.SystemStats, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	accStats, err := s.accounts.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	dealStats, err := s.dealRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	pending, err := s.txRepo.CountPending(ctx, domain.TransactionKindWithdraw)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &domain.SystemStats{
		AccountsTotal:      accStats.Total,
		AccountsActive:     accStats.Active,
		TotalBalance:       accStats.TotalBalance,
		DealsTotal:         dealStats.Total,
		DealsActive:        dealStats.Active,
		PendingWithdrawals: pending,
	}, nil
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return string([]rune(s)[:maxRunes])
}
