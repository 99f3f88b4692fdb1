package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
)

type AccountService struct {
	uow        uow.UOW
	accounts   AccountRepository
	txRepo     TransactionRepository
	dealRepo   DealRepository
	ledgerRepo LedgerRepository
}

func NewAccountService(u uow.UOW) (*AccountService, error) {
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
	ledgerRepo, err := uow.GetRepositoryAs[LedgerRepository](u, uow.RepositoryName(repoargs.LedgerRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &AccountService{
		uow:        u,
		accounts:   accounts,
		txRepo:     txRepo,
		dealRepo:   dealRepo,
		ledgerRepo: ledgerRepo,
	}, nil
}

type EnsureAccountArgs struct {
	ID          int64
	Username    string
	DisplayName string
}

// Ensure регистрирует аккаунт при первом обращении, а при последующих обновляет профиль и время активности.
// Заблокированный аккаунт тоже обновляется: блокировка запрещает изменения баланса, а не вход.
func (s *AccountService) Ensure(ctx context.Context, args EnsureAccountArgs) (*domain.Account, error) {
	if args.ID <= 0 {
		return nil, domain.NewValidationError("id", "must be positive")
	}
	username := strings.TrimPrefix(strings.TrimSpace(args.Username), "@")
	displayName := strings.TrimSpace(args.DisplayName)
	now := time.Now().UTC()

	var acc *domain.Account
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accounts, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
		if err != nil {
			return err //nolint:wrapcheck
		}

		existing, err := accounts.FindByIDForUpdate(c, args.ID)
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			acc, err = accounts.Create(c, repoargs.CreateAccount{
				ID:          args.ID,
				Username:    username,
				DisplayName: displayName,
				CreatedAt:   now,
			})
			return err //nolint:wrapcheck
		case err != nil:
			return err //nolint:wrapcheck
		}

		if err := accounts.UpdateProfile(c, args.ID, repoargs.UpdateProfile{
			Username:     username,
			DisplayName:  displayName,
			LastActiveAt: now,
		}); err != nil {
			return err //nolint:wrapcheck
		}
		existing.Username = username
		existing.DisplayName = displayName
		existing.LastActiveAt = now
		acc = existing
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("ensure account: %w", txErr)
	}
	return acc, nil
}

// Get возвращает аккаунт вместе с балансом.
func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domain.ErrUnknownAccount)
	}
	return acc, nil
}

// Search ищет аккаунты по username, отображаемому имени или точному id.
func (s *AccountService) Search(ctx context.Context, query string) ([]domain.Account, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewValidationError("query", "must not be empty")
	}
	res, err := s.accounts.Search(ctx, query, defaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	return res, nil
}

type History struct {
	Transactions []domain.Transaction
	Deals        []domain.Deal
}

// History последние транзакции и сделки аккаунта, новые первыми.
func (s *AccountService) History(ctx context.Context, id int64) (*History, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	transactions, err := s.txRepo.ListByAccount(ctx, id, defaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	deals, err := s.dealRepo.ListByAccount(ctx, id, defaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &History{Transactions: transactions, Deals: deals}, nil
}

// Ledger проводки по балансу аккаунта в порядке записи.
func (s *AccountService) Ledger(ctx context.Context, id int64) ([]domain.LedgerEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListByAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	return entries, nil
}
