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

// DealService движок сделок с удержанием средств.
type DealService struct {
	uow      uow.UOW
	dealRepo DealRepository
	notifier Notifier
	opts     Options
	l        *logrus.Entry
}

func NewDealService(u uow.UOW, notifier Notifier, opts Options, l *logrus.Logger) (*DealService, error) {
	dealRepo, err := uow.GetRepositoryAs[DealRepository](u, uow.RepositoryName(repoargs.DealRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &DealService{
		uow:      u,
		dealRepo: dealRepo,
		notifier: notifier,
		opts:     opts,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "deals",
		}),
	}, nil
}

type ProposeDealArgs struct {
	InitiatorID    int64
	CounterpartyID int64
	Amount         decimal.Decimal
	Terms          string
}

// Propose создает сделку в статусе pending. Средства не списываются до подтверждения фондирования,
// но на момент предложения сумма должна быть на балансе инициатора.
func (s *DealService) Propose(ctx context.Context, args ProposeDealArgs) (*domain.Deal, error) {
	if err := domain.CheckMoney("amount", args.Amount); err != nil {
		return nil, err
	}
	amount := domain.Money(args.Amount)
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	terms := strings.TrimSpace(args.Terms)
	if utf8.RuneCountInString(terms) < s.opts.MinDealTerms {
		return nil, domain.NewValidationError("terms", fmt.Sprintf("must be at least %d characters", s.opts.MinDealTerms))
	}
	if args.InitiatorID == args.CounterpartyID {
		return nil, domain.NewValidationError("counterparty", "cannot open a deal with yourself")
	}

	now := time.Now().UTC()
	deal := &domain.Deal{
		ID:             domain.NewDealID(now),
		InitiatorID:    args.InitiatorID,
		CounterpartyID: args.CounterpartyID,
		Amount:         amount,
		Terms:          terms,
		Status:         domain.DealStatusPending,
		CreatedAt:      now,
	}

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accounts, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		initiator, err := requireActiveAccount(c, accounts, args.InitiatorID)
		if err != nil {
			return err
		}
		counterparty, err := accounts.FindByID(c, args.CounterpartyID)
		if err != nil {
			return mapNotFound(err, domain.ErrUnknownAccount)
		}
		if counterparty.IsSuspended() {
			return domain.NewValidationError("counterparty", "account is suspended")
		}
		if initiator.Balance.LessThan(amount) {
			return fmt.Errorf("balance %s, deal amount %s: %w", initiator.Balance, amount, domain.ErrInsufficientFunds)
		}

		dealRepo, err := uow.GetAs[DealRepository](tx, uow.RepositoryName(repoargs.DealRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		return dealRepo.Create(c, deal) //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("propose deal: %w", txErr)
	}

	s.notifier.Notify(ctx, domain.Event{
		Type:      domain.EventDealProposed,
		AccountID: deal.CounterpartyID,
		Reference: deal.ID,
		Amount:    deal.Amount,
	})
	return deal, nil
}

// ConfirmFunding переводит сделку в active и списывает сумму с инициатора.
func (s *DealService) ConfirmFunding(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error) {
	deal, err := s.mutate(ctx, dealID, accountID, func(c context.Context, tx uow.TX, d *domain.Deal, now time.Time) (bool, error) {
		if err := d.Fund(accountID, now); err != nil {
			return false, err //nolint:wrapcheck
		}
		_, err := adjustBalance(c, tx, balanceChange{
			AccountID: d.InitiatorID,
			Amount:    d.Amount.Neg(),
			Reason:    domain.EntryReasonDealFunding,
			Reference: d.ID,
			Actor:     accountID,
			At:        now,
		})
		return true, err
	})
	if err != nil {
		return nil, fmt.Errorf("confirm deal funding: %w", err)
	}
	s.notifyParties(ctx, deal, domain.EventDealFunded, "")
	return deal, nil
}

// Decline отменяет сделку до фондирования.
func (s *DealService) Decline(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error) {
	deal, err := s.mutate(ctx, dealID, accountID, func(_ context.Context, _ uow.TX, d *domain.Deal, now time.Time) (bool, error) {
		return true, d.Decline(accountID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("decline deal: %w", err)
	}
	s.notifyParties(ctx, deal, domain.EventDealCancelled, "")
	return deal, nil
}

// ConfirmCompletion фиксирует подтверждение стороны. Вызов, выставивший второй флаг, завершает сделку и
// зачисляет сумму контрагенту.
func (s *DealService) ConfirmCompletion(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error) {
	var released bool
	deal, err := s.mutate(ctx, dealID, accountID, func(c context.Context, tx uow.TX, d *domain.Deal, now time.Time) (bool, error) {
		before := *d
		var err error
		released, err = d.Confirm(accountID, now)
		if err != nil {
			return false, err //nolint:wrapcheck
		}
		changed := released ||
			before.InitiatorConfirmed != d.InitiatorConfirmed ||
			before.CounterpartyConfirmed != d.CounterpartyConfirmed
		if !released {
			return changed, nil
		}
		_, err = adjustBalance(c, tx, balanceChange{
			AccountID: d.CounterpartyID,
			Amount:    d.Amount,
			Reason:    domain.EntryReasonDealRelease,
			Reference: d.ID,
			Actor:     accountID,
			At:        now,
		})
		return true, err
	})
	if err != nil {
		return nil, fmt.Errorf("confirm deal completion: %w", err)
	}
	if released {
		s.notifyParties(ctx, deal, domain.EventDealCompleted, "")
	}
	return deal, nil
}

// OpenDispute переводит активную сделку в спор.
func (s *DealService) OpenDispute(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error) {
	deal, err := s.mutate(ctx, dealID, accountID, func(_ context.Context, _ uow.TX, d *domain.Deal, _ time.Time) (bool, error) {
		return true, d.OpenDispute(accountID)
	})
	if err != nil {
		return nil, fmt.Errorf("open dispute: %w", err)
	}
	s.notifyParties(ctx, deal, domain.EventDisputeOpened, "")
	return deal, nil
}

// ResolveDispute закрывает спор в пользу winner и зачисляет ему сумму сделки. Права actor проверяет
// вызывающая сторона.
func (s *DealService) ResolveDispute(
	ctx context.Context,
	dealID string,
	winner int64,
	comment string,
	actor int64,
) (*domain.Deal, error) {
	var deal *domain.Deal
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		dealRepo, err := uow.GetAs[DealRepository](tx, uow.RepositoryName(repoargs.DealRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		d, err := dealRepo.FindByIDForUpdate(c, dealID)
		if err != nil {
			return mapNotFound(err, domain.ErrUnknownDeal)
		}
		now := time.Now().UTC()
		if err := d.Resolve(actor, winner, strings.TrimSpace(comment), now); err != nil {
			return err //nolint:wrapcheck
		}
		if err := dealRepo.Update(c, d); err != nil {
			return err //nolint:wrapcheck
		}
		if _, err := adjustBalance(c, tx, balanceChange{
			AccountID: winner,
			Amount:    d.Amount,
			Reason:    domain.EntryReasonDealResolution,
			Reference: d.ID,
			Actor:     actor,
			At:        now,
		}); err != nil {
			return err
		}
		deal = d
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("resolve dispute: %w", txErr)
	}
	s.notifyParties(ctx, deal, domain.EventDisputeResolved, deal.Resolution.Comment)
	return deal, nil
}

type dealMutation func(ctx context.Context, tx uow.TX, d *domain.Deal, now time.Time) (bool, error)

// mutate выполняет пользовательское действие над сделкой в одной единице работы. Сначала блокируется сделка,
// затем проверяется аккаунт участника. Сделка сохраняется только если fn сообщила об изменении.
func (s *DealService) mutate(ctx context.Context, dealID string, accountID int64, fn dealMutation) (*domain.Deal, error) {
	var deal *domain.Deal
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		dealRepo, err := uow.GetAs[DealRepository](tx, uow.RepositoryName(repoargs.DealRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}
		accounts, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}

		d, err := dealRepo.FindByIDForUpdate(c, dealID)
		if err != nil {
			return mapNotFound(err, domain.ErrUnknownDeal)
		}
		if !d.IsParty(accountID) {
			return fmt.Errorf("deal %s: %w", dealID, domain.ErrNotParty)
		}
		if _, err := requireActiveAccount(c, accounts, accountID); err != nil {
			return err
		}

		changed, err := fn(c, tx, d, time.Now().UTC())
		if err != nil {
			return err
		}
		if changed {
			if err := dealRepo.Update(c, d); err != nil {
				return err //nolint:wrapcheck
			}
		}
		deal = d
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return deal, nil
}

// Get возвращает сделку участнику или администратору.
func (s *DealService) Get(ctx context.Context, dealID string, viewerID int64) (*domain.Deal, error) {
	d, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrUnknownDeal)
	}
	if !d.IsParty(viewerID) && viewerID != s.opts.AdminID {
		return nil, fmt.Errorf("deal %s: %w", dealID, domain.ErrNotParty)
	}
	return d, nil
}

// OpenDisputes сделки в статусе спора, старые первыми.
func (s *DealService) OpenDisputes(ctx context.Context, after domain.Cursor, limit uint) ([]domain.Deal, error) {
	deals, err := s.dealRepo.ListByStatus(ctx, domain.DealStatusDispute, after, limit)
	if err != nil {
		return nil, fmt.Errorf("open disputes: %w", err)
	}
	return deals, nil
}

func (s *DealService) notifyParties(ctx context.Context, d *domain.Deal, eventType domain.EventType, msg string) {
	for _, id := range []int64{d.InitiatorID, d.CounterpartyID} {
		s.notifier.Notify(ctx, domain.Event{
			Type:      eventType,
			AccountID: id,
			Reference: d.ID,
			Amount:    d.Amount,
			Message:   msg,
		})
	}
}
