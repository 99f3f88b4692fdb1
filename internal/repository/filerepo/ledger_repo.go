package filerepo

import (
	"context"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
)

type LedgerRepository struct {
	src source
}

func (r *LedgerRepository) Create(_ context.Context, args repoargs.CreateLedgerEntry) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry
	err := r.src.write(func(s *snapshot) error {
		if _, ok := s.Accounts[args.AccountID]; !ok {
			return notFound("account %d", args.AccountID)
		}
		s.LedgerSeq++
		rec := ledgerRecord{
			ID:           s.LedgerSeq,
			AccountID:    args.AccountID,
			Amount:       args.Amount,
			BalanceAfter: args.BalanceAfter,
			Reason:       args.Reason,
			Reference:    args.Reference,
			Actor:        args.Actor,
			CreatedAt:    args.CreatedAt,
		}
		s.Ledger = append(s.Ledger, rec)
		entry = rec.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByAccount возвращает проводки аккаунта в порядке записи.
func (r *LedgerRepository) ListByAccount(_ context.Context, accountID int64) ([]domain.LedgerEntry, error) {
	res := make([]domain.LedgerEntry, 0)
	err := r.src.read(func(s *snapshot) error {
		for _, rec := range s.Ledger {
			if rec.AccountID == accountID {
				res = append(res, *rec.toDomain())
			}
		}
		return nil
	})
	return res, err
}

func (l ledgerRecord) toDomain() *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:           l.ID,
		AccountID:    l.AccountID,
		Amount:       l.Amount,
		BalanceAfter: l.BalanceAfter,
		Reason:       l.Reason,
		Reference:    l.Reference,
		Actor:        l.Actor,
		CreatedAt:    l.CreatedAt,
	}
}
