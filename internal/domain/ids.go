package domain

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	idTimeLayout    = "20060102150405"
	idSuffixLen     = 6
	idSuffixCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DepositIDPrefix  = "DEP"
	WithdrawIDPrefix = "WTH"
	DealIDPrefix     = "DL"
)

// NewTransactionID генерирует идентификатор транзакции вида DEP20250101120000-AB12CD.
func NewTransactionID(kind TransactionKind, now time.Time) string {
	prefix := DepositIDPrefix
	if kind == TransactionKindWithdraw {
		prefix = WithdrawIDPrefix
	}
	return newID(prefix, now)
}

// NewDealID генерирует идентификатор сделки вида DL20250101120000-AB12CD.
func NewDealID(now time.Time) string {
	return newID(DealIDPrefix, now)
}

func newID(prefix string, now time.Time) string {
	suffix := make([]byte, idSuffixLen)
	charsetLen := big.NewInt(int64(len(idSuffixCharset)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			// crypto/rand в поддерживаемых ОС не возвращает ошибок.
			panic(err)
		}
		suffix[i] = idSuffixCharset[n.Int64()]
	}
	return prefix + now.UTC().Format(idTimeLayout) + "-" + string(suffix)
}
