package service

import (
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit uint = 10
	defaultSearchLimit  uint = 10
	defaultListLimit    uint = 50
	maxListLimit        uint = 200
)

// pageLimit приводит запрошенный размер страницы к допустимому. Ноль означает размер по умолчанию.
func pageLimit(limit uint) uint {
	if limit == 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}

// Options бизнес-ограничения, общие для всех сервисов.
type Options struct {
	AdminID      int64
	MinDeposit   decimal.Decimal
	MaxDeposit   decimal.Decimal
	MinWithdraw  decimal.Decimal
	MinDealTerms int
}

// DefaultOptions значения по умолчанию, совпадающие с конфигурацией по умолчанию.
func DefaultOptions(adminID int64) Options {
	return Options{
		AdminID:      adminID,
		MinDeposit:   decimal.NewFromInt(1),
		MaxDeposit:   decimal.NewFromInt(10000),
		MinWithdraw:  decimal.NewFromInt(5),
		MinDealTerms: 30,
	}
}
