package repoargs

import (
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateLedgerEntry struct {
	AccountID    int64
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Reason       domain.EntryReasonType
	Reference    string
	Actor        int64
	CreatedAt    time.Time
}
