package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPlaces точность хранения денежных сумм.
const MoneyPlaces = 2

// Money приводит сумму к точности хранения.
func Money(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// CheckMoney отклоняет суммы с большим числом знаков после запятой, чем MoneyPlaces.
// Незначащие нули допускаются: 5.000 равно 5.00.
func CheckMoney(field string, amount decimal.Decimal) error {
	if !amount.Equal(Money(amount)) {
		return NewValidationError(field, fmt.Sprintf("at most %d decimal places allowed", MoneyPlaces))
	}
	return nil
}

// Cursor позиция в списке, упорядоченном по (CreatedAt, ID). Нулевой курсор указывает на начало списка.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

func (c Cursor) IsZero() bool {
	return c.ID == "" && c.CreatedAt.IsZero()
}

// Precedes сообщает, что запись (createdAt, id) расположена в списке строго после курсора.
func (c Cursor) Precedes(createdAt time.Time, id string) bool {
	if c.IsZero() {
		return true
	}
	if createdAt.Equal(c.CreatedAt) {
		return id > c.ID
	}
	return createdAt.After(c.CreatedAt)
}

func TransactionCursor(t *Transaction) Cursor {
	return Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
}

func DealCursor(d *Deal) Cursor {
	return Cursor{CreatedAt: d.CreatedAt, ID: d.ID}
}

type Suspension struct {
	By     int64     `json:"by"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
}

type Account struct {
	ID             int64
	Username       string
	DisplayName    string
	Balance        decimal.Decimal
	Suspension     *Suspension
	TransactionIDs []string
	DealIDs        []string
	CreatedAt      time.Time
	LastActiveAt   time.Time
}

// IsSuspended сообщает, заблокирован ли аккаунт администратором.
func (a *Account) IsSuspended() bool {
	return a.Suspension != nil
}

type DepositDetails struct {
	InvoiceID string `json:"invoice_id"`
	PayURL    string `json:"pay_url"`
}

type WithdrawDetails struct {
	Network     NetworkType `json:"network"`
	Address     string      `json:"address"`
	ProcessedBy int64       `json:"processed_by,omitempty"`
}

type Transaction struct {
	ID          string
	AccountID   int64
	Amount      decimal.Decimal // со знаком: пополнение > 0, вывод < 0.
	Kind        TransactionKind
	Status      TransactionStatusType
	CreatedAt   time.Time
	CompletedAt *time.Time
	Deposit     *DepositDetails
	Withdraw    *WithdrawDetails
}

type Resolution struct {
	By      int64     `json:"by"`
	At      time.Time `json:"at"`
	Winner  int64     `json:"winner"`
	Comment string    `json:"comment"`
}

type Deal struct {
	ID                    string
	InitiatorID           int64
	CounterpartyID        int64
	Amount                decimal.Decimal
	Terms                 string
	Status                DealStatusType
	InitiatorConfirmed    bool
	CounterpartyConfirmed bool
	DisputedBy            int64
	Resolution            *Resolution
	CreatedAt             time.Time
	FundedAt              *time.Time
	CompletedAt           *time.Time
}

// LedgerEntry проводка по балансу аккаунта. Сумма проводок аккаунта всегда равна его балансу.
type LedgerEntry struct {
	ID           int64
	AccountID    int64
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Reason       EntryReasonType
	Reference    string
	Actor        int64
	CreatedAt    time.Time
}

type SystemStats struct {
	AccountsTotal      int64
	AccountsActive     int64
	TotalBalance       decimal.Decimal
	DealsTotal         int64
	DealsActive        int64
	PendingWithdrawals int64
}
