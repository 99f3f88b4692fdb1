package domain

import (
	"fmt"
	"time"
)

// Complete завершает транзакцию. Для уже терминальной транзакции возвращает changed=false без ошибки,
// чтобы повторная сверка того же статуса не приводила к повторному зачислению.
func (t *Transaction) Complete(actor int64, now time.Time) (bool, error) {
	if t.Status.IsTerminal() {
		return false, nil
	}
	t.Status = TransactionStatusCompleted
	t.CompletedAt = &now
	if t.Kind == TransactionKindWithdraw && t.Withdraw != nil {
		t.Withdraw.ProcessedBy = actor
	}
	return true, nil
}

// Expire помечает счет на пополнение истекшим. Применимо только к пополнениям.
func (t *Transaction) Expire(now time.Time) (bool, error) {
	if t.Kind != TransactionKindDeposit {
		return false, fmt.Errorf("expire transaction %s of kind %s: %w", t.ID, t.Kind, ErrInvalidState)
	}
	if t.Status.IsTerminal() {
		return false, nil
	}
	t.Status = TransactionStatusExpired
	t.CompletedAt = &now
	return true, nil
}

// Reject отклоняет заявку на вывод. Применимо только к выводам.
func (t *Transaction) Reject(actor int64, now time.Time) (bool, error) {
	if t.Kind != TransactionKindWithdraw {
		return false, fmt.Errorf("reject transaction %s of kind %s: %w", t.ID, t.Kind, ErrInvalidState)
	}
	if t.Status.IsTerminal() {
		return false, nil
	}
	t.Status = TransactionStatusRejected
	t.CompletedAt = &now
	if t.Withdraw != nil {
		t.Withdraw.ProcessedBy = actor
	}
	return true, nil
}
