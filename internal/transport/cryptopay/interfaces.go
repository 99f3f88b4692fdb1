package cryptopay

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/garant/internal/domain"
)

type Client interface {
	GetInvoiceStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatusType, error)
}

type Servicer interface {
	PendingDeposits(ctx context.Context, after domain.Cursor, limit uint) ([]domain.Transaction, error)
	CompleteDeposit(ctx context.Context, id string) (*domain.Transaction, error)
	ExpireDeposit(ctx context.Context, id string) (*domain.Transaction, error)
}
