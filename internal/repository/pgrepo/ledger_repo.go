package pgrepo

import (
	"context"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
)

type LedgerRepository struct {
	conn uow.DBTX
}

func NewLedgerRepository(conn uow.DBTX) *LedgerRepository {
	return &LedgerRepository{conn: conn}
}

func (r *LedgerRepository) Create(ctx context.Context, args repoargs.CreateLedgerEntry) (*domain.LedgerEntry, error) {
	entry := domain.LedgerEntry{
		AccountID:    args.AccountID,
		Amount:       args.Amount,
		BalanceAfter: args.BalanceAfter,
		Reason:       args.Reason,
		Reference:    args.Reference,
		Actor:        args.Actor,
		CreatedAt:    args.CreatedAt,
	}
	err := r.conn.QueryRow(ctx, `INSERT INTO ledger_entries
		(account_id, amount, balance_after, reason, reference, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		args.AccountID, args.Amount, args.BalanceAfter, string(args.Reason), args.Reference, args.Actor, args.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return nil, convertErr(err, "create ledger entry for account %d", args.AccountID)
	}
	return &entry, nil
}

func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.LedgerEntry, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, account_id, amount, balance_after, reason, reference, actor, created_at
		FROM ledger_entries WHERE account_id = $1 ORDER BY id`, accountID)
	if err != nil {
		return nil, convertErr(err, "ledger entries of account %d", accountID)
	}
	defer rows.Close()

	res := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var (
			e      domain.LedgerEntry
			reason string
		)
		if scanErr := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &e.BalanceAfter, &reason, &e.Reference,
			&e.Actor, &e.CreatedAt); scanErr != nil {
			return nil, convertErr(scanErr, "ledger entries of account %d", accountID)
		}
		e.Reason = domain.EntryReasonType(reason)
		res = append(res, e)
	}
	return res, convertErr(rows.Err(), "ledger entries of account %d", accountID)
}
