package cryptopay

import (
	"errors"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/transport/cryptopay/client"
)

// Outcome результат проверки счета. Сбой сети и истекший счет различаются явно.
type Outcome int

const (
	// OutcomeInconclusive шлюз не ответил, состояние счета неизвестно. Повтор в следующем цикле.
	OutcomeInconclusive Outcome = iota
	// OutcomeWaiting счет еще не оплачен или шлюз его не знает.
	OutcomeWaiting
	OutcomePaid
	OutcomeExpired
	// OutcomeThrottled шлюз ограничил частоту запросов.
	OutcomeThrottled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWaiting:
		return "waiting"
	case OutcomePaid:
		return "paid"
	case OutcomeExpired:
		return "expired"
	case OutcomeThrottled:
		return "throttled"
	default:
		return "inconclusive"
	}
}

// classify переводит ответ клиента в Outcome.
func classify(status domain.InvoiceStatusType, err error) Outcome {
	if err != nil {
		var tooMany *client.TooManyRequestError
		if errors.As(err, &tooMany) {
			return OutcomeThrottled
		}
		return OutcomeInconclusive
	}
	switch status {
	case domain.InvoiceStatusPaid:
		return OutcomePaid
	case domain.InvoiceStatusExpired:
		return OutcomeExpired
	default:
		return OutcomeWaiting
	}
}
