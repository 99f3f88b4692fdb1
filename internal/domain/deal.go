package domain

import (
	"fmt"
	"time"
)

// IsParty сообщает, является ли аккаунт участником сделки.
func (d *Deal) IsParty(accountID int64) bool {
	return accountID == d.InitiatorID || accountID == d.CounterpartyID
}

// Fund переводит сделку pending -> active. Вызывается только инициатором, списание суммы выполняет
// вызывающая сторона в той же единице работы.
func (d *Deal) Fund(accountID int64, now time.Time) error {
	if accountID != d.InitiatorID {
		return fmt.Errorf("fund deal %s: %w", d.ID, ErrNotParty)
	}
	if d.Status != DealStatusPending {
		return fmt.Errorf("fund deal %s in status %s: %w", d.ID, d.Status, ErrInvalidState)
	}
	d.Status = DealStatusActive
	d.FundedAt = &now
	return nil
}

// Decline переводит сделку pending -> cancelled. Отменить может любая из сторон до фондирования.
func (d *Deal) Decline(accountID int64, now time.Time) error {
	if !d.IsParty(accountID) {
		return fmt.Errorf("decline deal %s: %w", d.ID, ErrNotParty)
	}
	if d.Status != DealStatusPending {
		return fmt.Errorf("decline deal %s in status %s: %w", d.ID, d.Status, ErrInvalidState)
	}
	d.Status = DealStatusCancelled
	d.CompletedAt = &now
	return nil
}

// Confirm фиксирует подтверждение выполнения от стороны сделки.
//
// Возвращает released=true только на том вызове, который выставил второй флаг и перевел сделку в
// completed. Именно на нем вызывающая сторона зачисляет сумму контрагенту. Повторное подтверждение
// той же стороной, как и подтверждение уже завершенной сделки, ничего не меняет.
func (d *Deal) Confirm(accountID int64, now time.Time) (bool, error) {
	if !d.IsParty(accountID) {
		return false, fmt.Errorf("confirm deal %s: %w", d.ID, ErrNotParty)
	}
	switch d.Status {
	case DealStatusCompleted:
		return false, nil
	case DealStatusActive:
	default:
		return false, fmt.Errorf("confirm deal %s in status %s: %w", d.ID, d.Status, ErrInvalidState)
	}

	if accountID == d.InitiatorID {
		d.InitiatorConfirmed = true
	} else {
		d.CounterpartyConfirmed = true
	}

	if !d.InitiatorConfirmed || !d.CounterpartyConfirmed {
		return false, nil
	}
	d.Status = DealStatusCompleted
	d.CompletedAt = &now
	return true, nil
}

// OpenDispute переводит сделку active -> dispute.
func (d *Deal) OpenDispute(accountID int64) error {
	if !d.IsParty(accountID) {
		return fmt.Errorf("dispute deal %s: %w", d.ID, ErrNotParty)
	}
	if d.Status != DealStatusActive {
		return fmt.Errorf("dispute deal %s in status %s: %w", d.ID, d.Status, ErrInvalidState)
	}
	d.Status = DealStatusDispute
	d.DisputedBy = accountID
	return nil
}

// Resolve переводит сделку dispute -> resolved в пользу winner.
func (d *Deal) Resolve(actor, winner int64, comment string, now time.Time) error {
	if d.Status != DealStatusDispute {
		return fmt.Errorf("resolve deal %s in status %s: %w", d.ID, d.Status, ErrInvalidState)
	}
	if !d.IsParty(winner) {
		return fmt.Errorf("resolve deal %s for %d: %w", d.ID, winner, ErrInvalidWinner)
	}
	d.Status = DealStatusResolved
	d.CompletedAt = &now
	d.Resolution = &Resolution{
		By:      actor,
		At:      now,
		Winner:  winner,
		Comment: comment,
	}
	return nil
}
