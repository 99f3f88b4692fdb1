package repoargs

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateAccount struct {
	ID          int64
	Username    string
	DisplayName string
	CreatedAt   time.Time
}

type UpdateProfile struct {
	Username     string
	DisplayName  string
	LastActiveAt time.Time
}

type AccountStats struct {
	Total        int64
	Active       int64
	TotalBalance decimal.Decimal
}
