package service

import (
	"context"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// AccountRepository хранилище аккаунтов. Методы *ForUpdate в postgres берут блокировку строки до конца
// транзакции, поэтому вызываются только внутри uow.Do.
type AccountRepository interface {
	Create(ctx context.Context, args repoargs.CreateAccount) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Account, error)
	Search(ctx context.Context, query string, limit uint) ([]domain.Account, error)
	UpdateProfile(ctx context.Context, id int64, args repoargs.UpdateProfile) error
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	SetSuspension(ctx context.Context, id int64, suspension *domain.Suspension) error
	Stats(ctx context.Context) (*repoargs.AccountStats, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, t *domain.Transaction) error
	// ListByAccount возвращает последние limit транзакций аккаунта, новые первыми.
	ListByAccount(ctx context.Context, accountID int64, limit uint) ([]domain.Transaction, error)
	// ListPending возвращает до limit ожидающих транзакций вида kind, расположенных после курсора,
	// старые первыми.
	ListPending(
		ctx context.Context,
		kind domain.TransactionKind,
		after domain.Cursor,
		limit uint,
	) ([]domain.Transaction, error)
	CountPending(ctx context.Context, kind domain.TransactionKind) (int64, error)
}

type DealRepository interface {
	Create(ctx context.Context, d *domain.Deal) error
	FindByID(ctx context.Context, id string) (*domain.Deal, error)
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Deal, error)
	Update(ctx context.Context, d *domain.Deal) error
	ListByAccount(ctx context.Context, accountID int64, limit uint) ([]domain.Deal, error)
	// ListByStatus возвращает до limit сделок в статусе status после курсора, старые первыми.
	ListByStatus(
		ctx context.Context,
		status domain.DealStatusType,
		after domain.Cursor,
		limit uint,
	) ([]domain.Deal, error)
	Stats(ctx context.Context) (*repoargs.DealStats, error)
}

// InvoiceRepository связывает счет платежного шлюза с транзакцией пополнения.
type InvoiceRepository interface {
	Create(ctx context.Context, invoiceID, transactionID string) error
	FindTransactionID(ctx context.Context, invoiceID string) (string, error)
}

type LedgerRepository interface {
	Create(ctx context.Context, args repoargs.CreateLedgerEntry) (*domain.LedgerEntry, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.LedgerEntry, error)
}

// Gateway внешний платежный шлюз. Любой сбой транспорта возвращается как domain.ErrGatewayUnavailable.
type Gateway interface {
	CreateInvoice(ctx context.Context, amount decimal.Decimal, accountID int64) (*domain.Invoice, error)
	GetInvoiceStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatusType, error)
}

// Notifier доставляет события фронтенду. Ошибки доставки не возвращаются.
type Notifier interface {
	Notify(ctx context.Context, event domain.Event)
}
