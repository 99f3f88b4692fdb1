package filerepo

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	src source
}

func (r *AccountRepository) Create(_ context.Context, args repoargs.CreateAccount) (*domain.Account, error) {
	var created *domain.Account
	err := r.src.write(func(s *snapshot) error {
		if _, ok := s.Accounts[args.ID]; ok {
			return duplicate("account %d", args.ID)
		}
		rec := &accountRecord{
			ID:             args.ID,
			Username:       args.Username,
			DisplayName:    args.DisplayName,
			Balance:        decimal.Zero,
			TransactionIDs: make([]string, 0),
			DealIDs:        make([]string, 0),
			CreatedAt:      args.CreatedAt,
			LastActiveAt:   args.CreatedAt,
		}
		s.Accounts[args.ID] = rec
		created = rec.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *AccountRepository) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	var acc *domain.Account
	err := r.src.read(func(s *snapshot) error {
		rec, ok := s.Accounts[id]
		if !ok {
			return notFound("account %d", id)
		}
		acc = rec.toDomain()
		return nil
	})
	return acc, err
}

// FindByIDForUpdate совпадает с FindByID: единица работы уже держит блокировку всего документа.
func (r *AccountRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	return r.FindByID(ctx, id)
}

// Search ищет аккаунты по точному id, подстроке username (без учета регистра и ведущего @) или
// подстроке отображаемого имени.
func (r *AccountRepository) Search(_ context.Context, query string, limit uint) ([]domain.Account, error) {
	q := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(query), "@"))
	if q == "" {
		return []domain.Account{}, nil
	}
	exactID, idErr := strconv.ParseInt(q, 10, 64)

	var res []domain.Account
	err := r.src.read(func(s *snapshot) error {
		for _, rec := range s.Accounts {
			match := (idErr == nil && rec.ID == exactID) ||
				strings.Contains(strings.ToLower(rec.Username), q) ||
				strings.Contains(strings.ToLower(rec.DisplayName), q)
			if match {
				res = append(res, *rec.toDomain())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	if limit > 0 && uint(len(res)) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *AccountRepository) UpdateProfile(_ context.Context, id int64, args repoargs.UpdateProfile) error {
	return r.src.write(func(s *snapshot) error {
		rec, ok := s.Accounts[id]
		if !ok {
			return notFound("account %d", id)
		}
		rec.Username = args.Username
		rec.DisplayName = args.DisplayName
		rec.LastActiveAt = args.LastActiveAt
		return nil
	})
}

func (r *AccountRepository) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	return r.src.write(func(s *snapshot) error {
		rec, ok := s.Accounts[id]
		if !ok {
			return notFound("account %d", id)
		}
		rec.Balance = balance
		return nil
	})
}

func (r *AccountRepository) SetSuspension(_ context.Context, id int64, suspension *domain.Suspension) error {
	return r.src.write(func(s *snapshot) error {
		rec, ok := s.Accounts[id]
		if !ok {
			return notFound("account %d", id)
		}
		if suspension == nil {
			rec.Suspension = nil
			return nil
		}
		v := *suspension
		rec.Suspension = &v
		return nil
	})
}

func (r *AccountRepository) Stats(_ context.Context) (*repoargs.AccountStats, error) {
	stats := repoargs.AccountStats{TotalBalance: decimal.Zero}
	err := r.src.read(func(s *snapshot) error {
		for _, rec := range s.Accounts {
			stats.Total++
			if rec.Suspension == nil {
				stats.Active++
			}
			stats.TotalBalance = stats.TotalBalance.Add(rec.Balance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (a *accountRecord) toDomain() *domain.Account {
	c := a.clone()
	return &domain.Account{
		ID:             c.ID,
		Username:       c.Username,
		DisplayName:    c.DisplayName,
		Balance:        c.Balance,
		Suspension:     c.Suspension,
		TransactionIDs: c.TransactionIDs,
		DealIDs:        c.DealIDs,
		CreatedAt:      c.CreatedAt,
		LastActiveAt:   c.LastActiveAt,
	}
}
