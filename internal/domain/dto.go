package domain

type TransactionKind string

const (
	TransactionKindDeposit  TransactionKind = "deposit"
	TransactionKindWithdraw TransactionKind = "withdraw"
)

type TransactionStatusType string

const (
	TransactionStatusPending   TransactionStatusType = "pending"
	TransactionStatusCompleted TransactionStatusType = "completed"
	TransactionStatusRejected  TransactionStatusType = "rejected"
	TransactionStatusExpired   TransactionStatusType = "expired"
)

// IsTerminal сообщает, что транзакция в этом статусе больше не изменяется.
func (s TransactionStatusType) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusRejected || s == TransactionStatusExpired
}

type DealStatusType string

const (
	DealStatusPending   DealStatusType = "pending"
	DealStatusActive    DealStatusType = "active"
	DealStatusCompleted DealStatusType = "completed"
	DealStatusDispute   DealStatusType = "dispute"
	DealStatusResolved  DealStatusType = "resolved"
	DealStatusCancelled DealStatusType = "cancelled"
)

// IsTerminal сообщает, что сделка в этом статусе больше не изменяется.
func (s DealStatusType) IsTerminal() bool {
	return s == DealStatusCompleted || s == DealStatusResolved || s == DealStatusCancelled
}

type NetworkType string

const (
	NetworkTRC20 NetworkType = "TRC20"
	NetworkERC20 NetworkType = "ERC20"
	NetworkBSC   NetworkType = "BSC"
)

// Networks возвращает список поддерживаемых сетей вывода.
func Networks() []NetworkType {
	return []NetworkType{NetworkTRC20, NetworkERC20, NetworkBSC}
}

// InvoiceStatusType статус счета во внешнем платежном шлюзе.
type InvoiceStatusType string

const (
	InvoiceStatusPaid     InvoiceStatusType = "paid"
	InvoiceStatusActive   InvoiceStatusType = "active"
	InvoiceStatusExpired  InvoiceStatusType = "expired"
	InvoiceStatusNotFound InvoiceStatusType = "not_found"
)

// EntryReasonType причина изменения баланса в журнале проводок.
type EntryReasonType string

const (
	EntryReasonDeposit        EntryReasonType = "deposit"
	EntryReasonWithdraw       EntryReasonType = "withdraw"
	EntryReasonWithdrawRevert EntryReasonType = "withdraw_revert"
	EntryReasonDealFunding    EntryReasonType = "deal_funding"
	EntryReasonDealRelease    EntryReasonType = "deal_release"
	EntryReasonDealResolution EntryReasonType = "deal_resolution"
	EntryReasonAdjustment     EntryReasonType = "admin_adjustment"
)
