package filerepo

import (
	"context"
	"sort"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
)

type DealRepository struct {
	src source
}

// Create сохраняет сделку и добавляет ее id обоим участникам.
func (r *DealRepository) Create(_ context.Context, d *domain.Deal) error {
	return r.src.write(func(s *snapshot) error {
		if _, ok := s.Deals[d.ID]; ok {
			return duplicate("deal %s", d.ID)
		}
		initiator, ok := s.Accounts[d.InitiatorID]
		if !ok {
			return notFound("account %d", d.InitiatorID)
		}
		counterparty, ok := s.Accounts[d.CounterpartyID]
		if !ok {
			return notFound("account %d", d.CounterpartyID)
		}
		s.Deals[d.ID] = dealFromDomain(d)
		initiator.DealIDs = append(initiator.DealIDs, d.ID)
		counterparty.DealIDs = append(counterparty.DealIDs, d.ID)
		return nil
	})
}

func (r *DealRepository) FindByID(_ context.Context, id string) (*domain.Deal, error) {
	var d *domain.Deal
	err := r.src.read(func(s *snapshot) error {
		rec, ok := s.Deals[id]
		if !ok {
			return notFound("deal %s", id)
		}
		d = rec.toDomain()
		return nil
	})
	return d, err
}

func (r *DealRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Deal, error) {
	return r.FindByID(ctx, id)
}

func (r *DealRepository) Update(_ context.Context, d *domain.Deal) error {
	return r.src.write(func(s *snapshot) error {
		if _, ok := s.Deals[d.ID]; !ok {
			return notFound("deal %s", d.ID)
		}
		s.Deals[d.ID] = dealFromDomain(d)
		return nil
	})
}

func (r *DealRepository) ListByAccount(_ context.Context, accountID int64, limit uint) ([]domain.Deal, error) {
	var res []domain.Deal
	err := r.src.read(func(s *snapshot) error {
		acc, ok := s.Accounts[accountID]
		if !ok {
			return notFound("account %d", accountID)
		}
		res = make([]domain.Deal, 0, len(acc.DealIDs))
		for i := len(acc.DealIDs) - 1; i >= 0; i-- {
			if limit > 0 && uint(len(res)) >= limit {
				break
			}
			if rec, exists := s.Deals[acc.DealIDs[i]]; exists {
				res = append(res, *rec.toDomain())
			}
		}
		return nil
	})
	return res, err
}

func (r *DealRepository) ListByStatus(
	_ context.Context,
	status domain.DealStatusType,
	after domain.Cursor,
	limit uint,
) ([]domain.Deal, error) {
	var res []domain.Deal
	err := r.src.read(func(s *snapshot) error {
		for _, rec := range s.Deals {
			if rec.Status == status && after.Precedes(rec.CreatedAt, rec.ID) {
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

func (r *DealRepository) Stats(_ context.Context) (*repoargs.DealStats, error) {
	var stats repoargs.DealStats
	err := r.src.read(func(s *snapshot) error {
		for _, rec := range s.Deals {
			stats.Total++
			if rec.Status == domain.DealStatusActive {
				stats.Active++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func dealFromDomain(d *domain.Deal) *dealRecord {
	rec := &dealRecord{
		ID:                    d.ID,
		InitiatorID:           d.InitiatorID,
		CounterpartyID:        d.CounterpartyID,
		Amount:                d.Amount,
		Terms:                 d.Terms,
		Status:                d.Status,
		InitiatorConfirmed:    d.InitiatorConfirmed,
		CounterpartyConfirmed: d.CounterpartyConfirmed,
		DisputedBy:            d.DisputedBy,
		Resolution:            d.Resolution,
		CreatedAt:             d.CreatedAt,
		FundedAt:              d.FundedAt,
		CompletedAt:           d.CompletedAt,
	}
	return rec.clone()
}

func (d *dealRecord) toDomain() *domain.Deal {
	c := d.clone()
	return &domain.Deal{
		ID:                    c.ID,
		InitiatorID:           c.InitiatorID,
		CounterpartyID:        c.CounterpartyID,
		Amount:                c.Amount,
		Terms:                 c.Terms,
		Status:                c.Status,
		InitiatorConfirmed:    c.InitiatorConfirmed,
		CounterpartyConfirmed: c.CounterpartyConfirmed,
		DisputedBy:            c.DisputedBy,
		Resolution:            c.Resolution,
		CreatedAt:             c.CreatedAt,
		FundedAt:              c.FundedAt,
		CompletedAt:           c.CompletedAt,
	}
}
