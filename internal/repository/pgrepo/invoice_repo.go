package pgrepo

import (
	"context"

	"github.com/fsdevblog/garant/pkg/uow"
)

type InvoiceRepository struct {
	conn uow.DBTX
}

func NewInvoiceRepository(conn uow.DBTX) *InvoiceRepository {
	return &InvoiceRepository{conn: conn}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoiceID, transactionID string) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO invoices (invoice_id, transaction_id) VALUES ($1, $2)`, invoiceID, transactionID)
	return convertErr(err, "create invoice %s", invoiceID)
}

func (r *InvoiceRepository) FindTransactionID(ctx context.Context, invoiceID string) (string, error) {
	var txID string
	err := r.conn.QueryRow(ctx, `SELECT transaction_id FROM invoices WHERE invoice_id = $1`, invoiceID).Scan(&txID)
	if err != nil {
		return "", convertErr(err, "find invoice %s", invoiceID)
	}
	return txID, nil
}
