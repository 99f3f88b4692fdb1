package api

import (
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountResponse struct {
	ID          int64              `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"display_name"`
	Balance     decimal.Decimal    `json:"balance"`
	Suspension  *domain.Suspension `json:"suspension,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func newAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Balance:     a.Balance,
		Suspension:  a.Suspension,
		CreatedAt:   a.CreatedAt,
	}
}

// AccountSearchResponse публичные данные найденного аккаунта, без баланса.
type AccountSearchResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Suspended   bool   `json:"suspended"`
}

type TransactionResponse struct {
	ID          string                       `json:"id"`
	AccountID   int64                        `json:"account_id"`
	Kind        domain.TransactionKind       `json:"kind"`
	Status      domain.TransactionStatusType `json:"status"`
	Amount      decimal.Decimal              `json:"amount"`
	CreatedAt   time.Time                    `json:"created_at"`
	CompletedAt *time.Time                   `json:"completed_at,omitempty"`
	Deposit     *domain.DepositDetails       `json:"deposit,omitempty"`
	Withdraw    *domain.WithdrawDetails      `json:"withdraw,omitempty"`
}

func newTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Kind:        t.Kind,
		Status:      t.Status,
		Amount:      t.Amount,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		Deposit:     t.Deposit,
		Withdraw:    t.Withdraw,
	}
}

func newTransactionsResponse(ts []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(ts))
	for i := range ts {
		res[i] = newTransactionResponse(&ts[i])
	}
	return res
}

type DealResponse struct {
	ID                    string                `json:"id"`
	InitiatorID           int64                 `json:"initiator_id"`
	CounterpartyID        int64                 `json:"counterparty_id"`
	Amount                decimal.Decimal       `json:"amount"`
	Terms                 string                `json:"terms"`
	Status                domain.DealStatusType `json:"status"`
	InitiatorConfirmed    bool                  `json:"initiator_confirmed"`
	CounterpartyConfirmed bool                  `json:"counterparty_confirmed"`
	DisputedBy            int64                 `json:"disputed_by,omitempty"`
	Resolution            *domain.Resolution    `json:"resolution,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	FundedAt              *time.Time            `json:"funded_at,omitempty"`
	CompletedAt           *time.Time            `json:"completed_at,omitempty"`
}

func newDealResponse(d *domain.Deal) DealResponse {
	return DealResponse{
		ID:                    d.ID,
		InitiatorID:           d.InitiatorID,
		CounterpartyID:        d.CounterpartyID,
		Amount:                d.Amount,
		Terms:                 d.Terms,
		Status:                d.Status,
		InitiatorConfirmed:    d.InitiatorConfirmed,
		CounterpartyConfirmed: d.CounterpartyConfirmed,
		DisputedBy:            d.DisputedBy,
		Resolution:            d.Resolution,
		CreatedAt:             d.CreatedAt,
		FundedAt:              d.FundedAt,
		CompletedAt:           d.CompletedAt,
	}
}

func newDealsResponse(ds []domain.Deal) []DealResponse {
	res := make([]DealResponse, len(ds))
	for i := range ds {
		res[i] = newDealResponse(&ds[i])
	}
	return res
}

type LedgerEntryResponse struct {
	ID           int64                  `json:"id"`
	Amount       decimal.Decimal        `json:"amount"`
	BalanceAfter decimal.Decimal        `json:"balance_after"`
	Reason       domain.EntryReasonType `json:"reason"`
	Reference    string                 `json:"reference"`
	Actor        int64                  `json:"actor,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

type StatsResponse struct {
	AccountsTotal      int64           `json:"accounts_total"`
	AccountsActive     int64           `json:"accounts_active"`
	TotalBalance       decimal.Decimal `json:"total_balance"`
	DealsTotal         int64           `json:"deals_total"`
	DealsActive        int64           `json:"deals_active"`
	PendingWithdrawals int64           `json:"pending_withdrawals"`
}
