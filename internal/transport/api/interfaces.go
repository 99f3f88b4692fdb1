package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/service"
	"github.com/shopspring/decimal"
)

type AccountServicer interface {
	Ensure(ctx context.Context, args service.EnsureAccountArgs) (*domain.Account, error)
	Get(ctx context.Context, id int64) (*domain.Account, error)
	Search(ctx context.Context, query string) ([]domain.Account, error)
	History(ctx context.Context, id int64) (*service.History, error)
	Ledger(ctx context.Context, id int64) ([]domain.LedgerEntry, error)
}

type TransactionServicer interface {
	CreateDeposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Transaction, error)
	CreateWithdraw(
		ctx context.Context,
		accountID int64,
		amount decimal.Decimal,
		network domain.NetworkType,
		address string,
	) (*domain.Transaction, error)
	Get(ctx context.Context, id string, viewerID int64) (*domain.Transaction, error)
}

type DealServicer interface {
	Propose(ctx context.Context, args service.ProposeDealArgs) (*domain.Deal, error)
	Get(ctx context.Context, dealID string, viewerID int64) (*domain.Deal, error)
	ConfirmFunding(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error)
	Decline(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error)
	ConfirmCompletion(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error)
	OpenDispute(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error)
}

type AdminServicer interface {
	Ban(ctx context.Context, actor, accountID int64, reason string) (*domain.Account, error)
	Unban(ctx context.Context, actor, accountID int64) (*domain.Account, error)
	AdjustBalance(
		ctx context.Context,
		actor, accountID int64,
		amount decimal.Decimal,
		reason string,
	) (decimal.Decimal, error)
	ApproveWithdraw(ctx context.Context, actor int64, id string) (*domain.Transaction, error)
	RejectWithdraw(ctx context.Context, actor int64, id string) (*domain.Transaction, error)
	ResolveDispute(
		ctx context.Context,
		actor int64,
		dealID string,
		winner int64,
		comment string,
	) (*domain.Deal, error)
	PendingWithdrawals(ctx context.Context, actor int64, after domain.Cursor, limit uint) ([]domain.Transaction, error)
	OpenDisputes(ctx context.Context, actor int64, after domain.Cursor, limit uint) ([]domain.Deal, error)
	Stats(ctx context.Context, actor int64) (*domain.SystemStats, error)
}
