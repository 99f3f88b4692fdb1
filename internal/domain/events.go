package domain

import "github.com/shopspring/decimal"

type EventType string

const (
	EventDepositPaid        EventType = "deposit.paid"
	EventWithdrawRequested  EventType = "withdraw.requested"
	EventWithdrawApproved   EventType = "withdraw.approved"
	EventWithdrawRejected   EventType = "withdraw.rejected"
	EventDealProposed       EventType = "deal.proposed"
	EventDealFunded         EventType = "deal.funded"
	EventDealCompleted      EventType = "deal.completed"
	EventDealCancelled      EventType = "deal.cancelled"
	EventDisputeOpened      EventType = "dispute.opened"
	EventDisputeResolved    EventType = "dispute.resolved"
	EventAccountSuspended   EventType = "account.suspended"
	EventAccountUnsuspended EventType = "account.unsuspended"
)

// Event уведомление для внешнего фронтенда. Доставка событий не влияет на состояние системы.
type Event struct {
	Type      EventType       `json:"type"`
	AccountID int64           `json:"account_id"`
	Reference string          `json:"reference,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Message   string          `json:"message,omitempty"`
}

// Invoice счет, выставленный платежным шлюзом.
type Invoice struct {
	ID     string
	PayURL string
}
