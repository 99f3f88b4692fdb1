package filerepo

import (
	"context"
	"sort"

	"github.com/fsdevblog/garant/internal/domain"
)

type TransactionRepository struct {
	src source
}

// Create сохраняет транзакцию и добавляет ее id в историю аккаунта.
func (r *TransactionRepository) Create(_ context.Context, t *domain.Transaction) error {
	return r.src.write(func(s *snapshot) error {
		if _, ok := s.Transactions[t.ID]; ok {
			return duplicate("transaction %s", t.ID)
		}
		acc, ok := s.Accounts[t.AccountID]
		if !ok {
			return notFound("account %d", t.AccountID)
		}
		s.Transactions[t.ID] = transactionFromDomain(t)
		acc.TransactionIDs = append(acc.TransactionIDs, t.ID)
		return nil
	})
}

func (r *TransactionRepository) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	var t *domain.Transaction
	err := r.src.read(func(s *snapshot) error {
		rec, ok := s.Transactions[id]
		if !ok {
			return notFound("transaction %s", id)
		}
		t = rec.toDomain()
		return nil
	})
	return t, err
}

func (r *TransactionRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.FindByID(ctx, id)
}

// UpdateStatus сохраняет статус, время завершения и обработавшего администратора.
func (r *TransactionRepository) UpdateStatus(_ context.Context, t *domain.Transaction) error {
	return r.src.write(func(s *snapshot) error {
		rec, ok := s.Transactions[t.ID]
		if !ok {
			return notFound("transaction %s", t.ID)
		}
		rec.Status = t.Status
		rec.CompletedAt = cloneTime(t.CompletedAt)
		if t.Withdraw != nil && rec.Withdraw != nil {
			rec.Withdraw.ProcessedBy = t.Withdraw.ProcessedBy
		}
		return nil
	})
}

func (r *TransactionRepository) ListByAccount(
	_ context.Context,
	accountID int64,
	limit uint,
) ([]domain.Transaction, error) {
	var res []domain.Transaction
	err := r.src.read(func(s *snapshot) error {
		acc, ok := s.Accounts[accountID]
		if !ok {
			return notFound("account %d", accountID)
		}
		res = make([]domain.Transaction, 0, len(acc.TransactionIDs))
		for i := len(acc.TransactionIDs) - 1; i >= 0; i-- {
			if limit > 0 && uint(len(res)) >= limit {
				break
			}
			if rec, exists := s.Transactions[acc.TransactionIDs[i]]; exists {
				res = append(res, *rec.toDomain())
			}
		}
		return nil
	})
	return res, err
}

func (r *TransactionRepository) ListPending(
	_ context.Context,
	kind domain.TransactionKind,
	after domain.Cursor,
	limit uint,
) ([]domain.Transaction, error) {
	var res []domain.Transaction
	err := r.src.read(func(s *snapshot) error {
		for _, rec := range s.Transactions {
			pending := rec.Kind == kind && rec.Status == domain.TransactionStatusPending
			if pending && after.Precedes(rec.CreatedAt, rec.ID) {
				res = append(res, *rec.toDomain())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	if limit > 0 && uint(len(res)) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *TransactionRepository) CountPending(_ context.Context, kind domain.TransactionKind) (int64, error) {
	var n int64
	err := r.src.read(func(s *snapshot) error {
		for _, rec := range s.Transactions {
			if rec.Kind == kind && rec.Status == domain.TransactionStatusPending {
				n++
			}
		}
		return nil
	})
	return n, err
}

func transactionFromDomain(t *domain.Transaction) *transactionRecord {
	rec := &transactionRecord{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Amount:      t.Amount,
		Kind:        t.Kind,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		Deposit:     t.Deposit,
		Withdraw:    t.Withdraw,
	}
	return rec.clone()
}

func (t *transactionRecord) toDomain() *domain.Transaction {
	c := t.clone()
	return &domain.Transaction{
		ID:          c.ID,
		AccountID:   c.AccountID,
		Amount:      c.Amount,
		Kind:        c.Kind,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		CompletedAt: c.CompletedAt,
		Deposit:     c.Deposit,
		Withdraw:    c.Withdraw,
	}
}
