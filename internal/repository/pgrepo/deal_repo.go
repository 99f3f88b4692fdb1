package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const dealColumns = `id, initiator_id, counterparty_id, amount, terms, status::text,
	initiator_confirmed, counterparty_confirmed, disputed_by,
	resolved_by, resolved_at, winner_id, resolution_comment,
	created_at, funded_at, completed_at`

type DealRepository struct {
	conn uow.DBTX
}

func NewDealRepository(conn uow.DBTX) *DealRepository {
	return &DealRepository{conn: conn}
}

func (r *DealRepository) Create(ctx context.Context, d *domain.Deal) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO deals
		(id, initiator_id, counterparty_id, amount, terms, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::deal_status, $7)`,
		d.ID, d.InitiatorID, d.CounterpartyID, d.Amount, d.Terms, string(d.Status), d.CreatedAt,
	)
	return convertErr(err, "create deal %s", d.ID)
}

func (r *DealRepository) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	d, err := scanDeal(r.conn.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "find deal %s", id)
	}
	return d, nil
}

func (r *DealRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Deal, error) {
	d, err := scanDeal(r.conn.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, convertErr(err, "lock deal %s", id)
	}
	return d, nil
}

func (r *DealRepository) Update(ctx context.Context, d *domain.Deal) error {
	var (
		resolvedBy, winner *int64
		resolvedAt         *time.Time
		comment            *string
		disputedBy         *int64
	)
	if d.Resolution != nil {
		resolvedBy, resolvedAt, winner, comment =
			&d.Resolution.By, &d.Resolution.At, &d.Resolution.Winner, &d.Resolution.Comment
	}
	if d.DisputedBy != 0 {
		disputedBy = &d.DisputedBy
	}
	tag, err := r.conn.Exec(ctx, `UPDATE deals SET
		status = $2::deal_status,
		initiator_confirmed = $3,
		counterparty_confirmed = $4,
		disputed_by = $5,
		resolved_by = $6,
		resolved_at = $7,
		winner_id = $8,
		resolution_comment = $9,
		funded_at = $10,
		completed_at = $11
		WHERE id = $1`,
		d.ID, string(d.Status), d.InitiatorConfirmed, d.CounterpartyConfirmed, disputedBy,
		resolvedBy, resolvedAt, winner, comment, d.FundedAt, d.CompletedAt,
	)
	if err != nil {
		return convertErr(err, "update deal %s", d.ID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "update deal %s", d.ID)
	}
	return nil
}

func (r *DealRepository) ListByAccount(ctx context.Context, accountID int64, limit uint) ([]domain.Deal, error) {
	return r.list(ctx, "deals by account", `SELECT `+dealColumns+` FROM deals
		WHERE initiator_id = $1 OR counterparty_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`, accountID, limitArg(limit))
}

func (r *DealRepository) ListByStatus(
	ctx context.Context,
	status domain.DealStatusType,
	after domain.Cursor,
	limit uint,
) ([]domain.Deal, error) {
	return r.list(ctx, "deals by status", `SELECT `+dealColumns+` FROM deals
		WHERE status = $1::deal_status AND ($3::text = '' OR (created_at, id) > ($4::timestamptz, $3::text))
		ORDER BY created_at, id LIMIT $2`, string(status), limitArg(limit), after.ID, after.CreatedAt)
}

func (r *DealRepository) Stats(ctx context.Context) (*repoargs.DealStats, error) {
	var stats repoargs.DealStats
	err := r.conn.QueryRow(ctx, `SELECT count(*), count(*) FILTER (WHERE status = 'active') FROM deals`).
		Scan(&stats.Total, &stats.Active)
	if err != nil {
		return nil, convertErr(err, "deal stats")
	}
	return &stats, nil
}

func (r *DealRepository) list(ctx context.Context, op string, sql string, args ...any) ([]domain.Deal, error) {
	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, convertErr(err, "%s", op)
	}
	defer rows.Close()

	res := make([]domain.Deal, 0)
	for rows.Next() {
		d, scanErr := scanDeal(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "%s", op)
		}
		res = append(res, *d)
	}
	return res, convertErr(rows.Err(), "%s", op)
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var (
		d                              domain.Deal
		status                         string
		disputedBy, resolvedBy, winner *int64
		resolvedAt                     *time.Time
		comment                        *string
	)
	err := row.Scan(&d.ID, &d.InitiatorID, &d.CounterpartyID, &d.Amount, &d.Terms, &status,
		&d.InitiatorConfirmed, &d.CounterpartyConfirmed, &disputedBy,
		&resolvedBy, &resolvedAt, &winner, &comment,
		&d.CreatedAt, &d.FundedAt, &d.CompletedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	d.Status = domain.DealStatusType(status)
	if disputedBy != nil {
		d.DisputedBy = *disputedBy
	}
	if resolvedAt != nil {
		d.Resolution = &domain.Resolution{At: *resolvedAt, Comment: deref(comment)}
		if resolvedBy != nil {
			d.Resolution.By = *resolvedBy
		}
		if winner != nil {
			d.Resolution.Winner = *winner
		}
	}
	return &d, nil
}
