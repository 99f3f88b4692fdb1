package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, account_id, amount, kind::text, status::text, invoice_id, pay_url,
	network, address, processed_by, created_at, completed_at`

type TransactionRepository struct {
	conn uow.DBTX
}

func NewTransactionRepository(conn uow.DBTX) *TransactionRepository {
	return &TransactionRepository{conn: conn}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	var (
		invoiceID, payURL, network, address *string
	)
	if t.Deposit != nil {
		invoiceID, payURL = &t.Deposit.InvoiceID, &t.Deposit.PayURL
	}
	if t.Withdraw != nil {
		n := string(t.Withdraw.Network)
		network, address = &n, &t.Withdraw.Address
	}
	_, err := r.conn.Exec(ctx, `INSERT INTO transactions
		(id, account_id, amount, kind, status, invoice_id, pay_url, network, address, created_at)
		VALUES ($1, $2, $3, $4::transaction_kind, $5::transaction_status, $6, $7, $8, $9, $10)`,
		t.ID, t.AccountID, t.Amount, string(t.Kind), string(t.Status),
		invoiceID, payURL, network, address, t.CreatedAt,
	)
	return convertErr(err, "create transaction %s", t.ID)
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := scanTransaction(r.conn.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "find transaction %s", id)
	}
	return t, nil
}

func (r *TransactionRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := scanTransaction(r.conn.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, convertErr(err, "lock transaction %s", id)
	}
	return t, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, t *domain.Transaction) error {
	var processedBy *int64
	if t.Withdraw != nil && t.Withdraw.ProcessedBy != 0 {
		processedBy = &t.Withdraw.ProcessedBy
	}
	tag, err := r.conn.Exec(ctx, `UPDATE transactions
		SET status = $2::transaction_status, completed_at = $3, processed_by = COALESCE($4, processed_by)
		WHERE id = $1`,
		t.ID, string(t.Status), t.CompletedAt, processedBy,
	)
	if err != nil {
		return convertErr(err, "update transaction %s", t.ID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "update transaction %s", t.ID)
	}
	return nil
}

func (r *TransactionRepository) ListByAccount(
	ctx context.Context,
	accountID int64,
	limit uint,
) ([]domain.Transaction, error) {
	return r.list(ctx, "transactions by account",
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`, accountID, limitArg(limit))
}

func (r *TransactionRepository) ListPending(
	ctx context.Context,
	kind domain.TransactionKind,
	after domain.Cursor,
	limit uint,
) ([]domain.Transaction, error) {
	return r.list(ctx, "pending transactions",
		`SELECT `+transactionColumns+` FROM transactions WHERE kind = $1::transaction_kind AND status = 'pending'
		AND ($3::text = '' OR (created_at, id) > ($4::timestamptz, $3::text))
		ORDER BY created_at, id LIMIT $2`, string(kind), limitArg(limit), after.ID, after.CreatedAt)
}

func (r *TransactionRepository) CountPending(ctx context.Context, kind domain.TransactionKind) (int64, error) {
	var n int64
	err := r.conn.QueryRow(ctx,
		`SELECT count(*) FROM transactions WHERE kind = $1::transaction_kind AND status = 'pending'`,
		string(kind),
	).Scan(&n)
	if err != nil {
		return 0, convertErr(err, "count pending transactions")
	}
	return n, nil
}

func (r *TransactionRepository) list(ctx context.Context, op string, sql string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, convertErr(err, "%s", op)
	}
	defer rows.Close()

	res := make([]domain.Transaction, 0)
	for rows.Next() {
		t, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "%s", op)
		}
		res = append(res, *t)
	}
	return res, convertErr(rows.Err(), "%s", op)
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t                                   domain.Transaction
		kind, status                        string
		invoiceID, payURL, network, address *string
		processedBy                         *int64
		completedAt                         *time.Time
	)
	err := row.Scan(&t.ID, &t.AccountID, &t.Amount, &kind, &status, &invoiceID, &payURL,
		&network, &address, &processedBy, &t.CreatedAt, &completedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	t.Kind = domain.TransactionKind(kind)
	t.Status = domain.TransactionStatusType(status)
	t.CompletedAt = completedAt

	switch t.Kind {
	case domain.TransactionKindDeposit:
		t.Deposit = &domain.DepositDetails{InvoiceID: deref(invoiceID), PayURL: deref(payURL)}
	case domain.TransactionKindWithdraw:
		t.Withdraw = &domain.WithdrawDetails{
			Network: domain.NetworkType(deref(network)),
			Address: deref(address),
		}
		if processedBy != nil {
			t.Withdraw.ProcessedBy = *processedBy
		}
	}
	return &t, nil
}
