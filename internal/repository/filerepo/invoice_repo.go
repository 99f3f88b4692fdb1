package filerepo

import (
	"context"
)

type InvoiceRepository struct {
	src source
}

func (r *InvoiceRepository) Create(_ context.Context, invoiceID, transactionID string) error {
	return r.src.write(func(s *snapshot) error {
		if _, ok := s.Invoices[invoiceID]; ok {
			return duplicate("invoice %s", invoiceID)
		}
		s.Invoices[invoiceID] = transactionID
		return nil
	})
}

func (r *InvoiceRepository) FindTransactionID(_ context.Context, invoiceID string) (string, error) {
	var txID string
	err := r.src.read(func(s *snapshot) error {
		id, ok := s.Invoices[invoiceID]
		if !ok {
			return notFound("invoice %s", invoiceID)
		}
		txID = id
		return nil
	})
	return txID, err
}
