package pgrepo

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `a.id, a.username, a.display_name, a.balance,
	a.suspended_by, a.suspended_at, a.suspension_reason,
	ARRAY(SELECT t.id FROM transactions t WHERE t.account_id = a.id ORDER BY t.created_at, t.id),
	ARRAY(SELECT d.id FROM deals d WHERE d.initiator_id = a.id OR d.counterparty_id = a.id ORDER BY d.created_at, d.id),
	a.created_at, a.last_active_at`

type AccountRepository struct {
	conn uow.DBTX
}

func NewAccountRepository(conn uow.DBTX) *AccountRepository {
	return &AccountRepository{conn: conn}
}

func (r *AccountRepository) Create(ctx context.Context, args repoargs.CreateAccount) (*domain.Account, error) {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO accounts (id, username, display_name, created_at, last_active_at) VALUES ($1, $2, $3, $4, $4)`,
		args.ID, args.Username, args.DisplayName, args.CreatedAt,
	)
	if err != nil {
		return nil, convertErr(err, "create account %d", args.ID)
	}
	return r.FindByID(ctx, args.ID)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.id = $1`, id)
	acc, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "find account %d", id)
	}
	return acc, nil
}

// FindByIDForUpdate блокирует строку аккаунта до конца транзакции.
func (r *AccountRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.id = $1 FOR UPDATE OF a`, id)
	acc, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "lock account %d", id)
	}
	return acc, nil
}

func (r *AccountRepository) Search(ctx context.Context, query string, limit uint) ([]domain.Account, error) {
	q := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(query), "@"))
	if q == "" {
		return []domain.Account{}, nil
	}
	var exactID *int64
	if id, parseErr := strconv.ParseInt(q, 10, 64); parseErr == nil {
		exactID = &id
	}

	rows, err := r.conn.Query(ctx, `SELECT `+accountColumns+` FROM accounts a
		WHERE a.id = $1 OR strpos(lower(a.username), $2) > 0 OR strpos(lower(a.display_name), $2) > 0
		ORDER BY a.id
		LIMIT $3`, exactID, q, limitArg(limit))
	if err != nil {
		return nil, convertErr(err, "search accounts")
	}
	defer rows.Close()

	res := make([]domain.Account, 0)
	for rows.Next() {
		acc, scanErr := scanAccount(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "search accounts")
		}
		res = append(res, *acc)
	}
	return res, convertErr(rows.Err(), "search accounts")
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id int64, args repoargs.UpdateProfile) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE accounts SET username = $2, display_name = $3, last_active_at = $4 WHERE id = $1`,
		id, args.Username, args.DisplayName, args.LastActiveAt,
	)
	if err != nil {
		return convertErr(err, "update account %d profile", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "update account %d profile", id)
	}
	return nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	tag, err := r.conn.Exec(ctx, `UPDATE accounts SET balance = $2 WHERE id = $1`, id, balance)
	if err != nil {
		return convertErr(err, "update account %d balance", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "update account %d balance", id)
	}
	return nil
}

func (r *AccountRepository) SetSuspension(ctx context.Context, id int64, suspension *domain.Suspension) error {
	var (
		by     *int64
		at     *time.Time
		reason *string
	)
	if suspension != nil {
		by, at, reason = &suspension.By, &suspension.At, &suspension.Reason
	}
	tag, err := r.conn.Exec(ctx,
		`UPDATE accounts SET suspended_by = $2, suspended_at = $3, suspension_reason = $4 WHERE id = $1`,
		id, by, at, reason,
	)
	if err != nil {
		return convertErr(err, "suspend account %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "suspend account %d", id)
	}
	return nil
}

func (r *AccountRepository) Stats(ctx context.Context) (*repoargs.AccountStats, error) {
	var stats repoargs.AccountStats
	err := r.conn.QueryRow(ctx, `SELECT count(*),
		count(*) FILTER (WHERE suspended_at IS NULL),
		COALESCE(sum(balance), 0)
		FROM accounts`).Scan(&stats.Total, &stats.Active, &stats.TotalBalance)
	if err != nil {
		return nil, convertErr(err, "account stats")
	}
	return &stats, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		acc         domain.Account
		suspendedBy *int64
		suspendedAt *time.Time
		reason      *string
	)
	err := row.Scan(
		&acc.ID, &acc.Username, &acc.DisplayName, &acc.Balance,
		&suspendedBy, &suspendedAt, &reason,
		&acc.TransactionIDs, &acc.DealIDs,
		&acc.CreatedAt, &acc.LastActiveAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if suspendedAt != nil {
		acc.Suspension = &domain.Suspension{At: *suspendedAt}
		if suspendedBy != nil {
			acc.Suspension.By = *suspendedBy
		}
		if reason != nil {
			acc.Suspension.Reason = *reason
		}
	}
	return &acc, nil
}
