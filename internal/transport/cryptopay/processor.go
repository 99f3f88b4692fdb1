// Package cryptopay сверяет ожидающие пополнения со статусами счетов в Crypto Pay.
package cryptopay

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/transport/cryptopay/client"
	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultAPITimeout             = 10 * time.Second
	defaultInterval               = 60 * time.Second
	defaultLimitPerIteration uint = 100
	defaultWorkers           uint = 5
	defaultJitter                 = 0.1
)

var ErrNoDeposits = errors.New("no pending deposits")

// Processor периодически проверяет ожидающие пополнения и применяет статусы счетов.
type Processor struct {
	client            Client
	svs               Servicer
	l                 *logrus.Entry
	interval          time.Duration
	limitPerIteration uint
	workers           uint

	// pausedUntil unix nano, до которого шлюз просил не присылать запросы.
	pausedUntil atomic.Int64
	now         func() time.Time
}

// New создает процессор сверки пополнений.
func New(svs Servicer, c Client, l *logrus.Logger) *Processor {
	return &Processor{
		svs:    svs,
		client: c,
		l: l.WithFields(logrus.Fields{
			"component": "cryptopay",
			"module":    "processor",
		}),
		interval:          defaultInterval,
		limitPerIteration: defaultLimitPerIteration,
		workers:           defaultWorkers,
		now:               time.Now,
	}
}

// SetInterval устанавливает период между циклами сверки.
func (p *Processor) SetInterval(interval time.Duration) *Processor {
	if interval > 0 {
		p.interval = interval
	}
	return p
}

// SetLimitPerIteration устанавливает размер страницы пополнений. Цикл проходит все страницы.
func (p *Processor) SetLimitPerIteration(limit uint) *Processor {
	if limit > 0 {
		p.limitPerIteration = limit
	}
	return p
}

// SetWorkers устанавливает кол-во параллельных запросов к шлюзу.
func (p *Processor) SetWorkers(workers uint) *Processor {
	if workers > 0 {
		p.workers = workers
	}
	return p
}

// Run выполняет циклы сверки до отмены контекста.
//
// Первый цикл запускается сразу, следующие через интервал с небольшим разбросом. Отмена контекста не
// прерывает текущий цикл: Run возвращается только после его завершения, чтобы хранилище закрывалось
// без незаконченных записей.
func (p *Processor) Run(ctx context.Context) error {
	p.l.WithFields(logrus.Fields{
		"interval":          p.interval,
		"limitPerIteration": p.limitPerIteration,
		"workers":           p.workers,
	}).Info("Starting")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Got stop signal, exiting...")
			return nil
		case <-timer.C:
			if err := p.process(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrNoDeposits) {
				p.l.WithError(err).Error("process error")
			}
			timer.Reset(jitter(p.interval, defaultJitter))
		}
	}
}

// process выполняет один цикл: постранично получает все ожидающие пополнения, опрашивает шлюз
// и применяет результат. Ошибка по одному пополнению не прерывает обработку остальных.
// Если шлюз попросил паузу, оставшиеся страницы проверяются в следующем цикле.
func (p *Processor) process(ctx context.Context) error {
	if until := p.pausedUntil.Load(); until > p.now().UnixNano() {
		p.l.WithField("until", time.Unix(0, until)).Debug("gateway throttled, skip cycle")
		return nil
	}

	var (
		after                    domain.Cursor
		checked, applied, failed int
	)
	for page := 0; ; page++ {
		deposits, err := p.produce(ctx, after)
		if err != nil {
			if page > 0 && errors.Is(err, ErrNoDeposits) {
				break
			}
			return fmt.Errorf("process: %w", err)
		}

		a, f := p.processPage(ctx, deposits)
		checked += len(deposits)
		applied += a
		failed += f

		if uint(len(deposits)) < p.limitPerIteration || p.pausedUntil.Load() > p.now().UnixNano() {
			break
		}
		after = domain.TransactionCursor(&deposits[len(deposits)-1])
	}

	p.l.WithFields(logrus.Fields{
		"checked": checked,
		"applied": applied,
		"failed":  failed,
	}).Debug("cycle finished")
	return nil
}

// processPage опрашивает шлюз по одной странице пополнений и применяет результаты.
func (p *Processor) processPage(ctx context.Context, deposits []domain.Transaction) (applied, failed int) {
	results := p.runWorkers(ctx, deposits)

	for _, r := range results {
		l := p.l.WithFields(logrus.Fields{
			"transactionID": r.Deposit.ID,
			"invoiceID":     r.invoiceID(),
			"outcome":       r.Outcome,
		})
		if r.Error != nil {
			l.WithError(r.Error).Warn("check invoice")
		}
		applyErr := p.apply(ctx, r)
		switch {
		case applyErr != nil:
			failed++
			l.WithError(applyErr).Error("apply invoice status")
		case r.Outcome == OutcomePaid || r.Outcome == OutcomeExpired:
			applied++
			l.Info("deposit reconciled")
		}
	}
	return applied, failed
}

// apply применяет результат проверки счета через сервисный слой.
func (p *Processor) apply(ctx context.Context, r workerResult) error {
	reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	switch r.Outcome {
	case OutcomePaid:
		_, err := p.svs.CompleteDeposit(reqCtx, r.Deposit.ID)
		return err //nolint:wrapcheck
	case OutcomeExpired:
		_, err := p.svs.ExpireDeposit(reqCtx, r.Deposit.ID)
		return err //nolint:wrapcheck
	default:
		return nil
	}
}

// workerResult результат проверки одного пополнения.
type workerResult struct {
	WorkerID uint
	Deposit  *domain.Transaction
	Outcome  Outcome
	Error    error
}

func (r workerResult) invoiceID() string {
	if r.Deposit.Deposit == nil {
		return ""
	}
	return r.Deposit.Deposit.InvoiceID
}

// runWorkers запускает параллельных воркеров для опроса шлюза и ожидает конца их работы.
// Реализует паттерн fan-out/fan-in.
func (p *Processor) runWorkers(ctx context.Context, deposits []domain.Transaction) []workerResult {
	var taskCh = make(chan *domain.Transaction, len(deposits))
	for i := range deposits {
		taskCh <- &deposits[i]
	}
	close(taskCh)

	workers := min(p.workers, uint(len(deposits)))

	wg := new(sync.WaitGroup)
	wg.Add(int(workers)) //nolint:gosec

	var resultCh = make(chan workerResult, len(deposits))
	for i := range workers {
		go p.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()
	close(resultCh)

	var results = make([]workerResult, 0, len(deposits))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// worker опрашивает шлюз по пополнениям из канала. После ответа 429 оставшиеся пополнения цикла
// помечаются как неопределенные и будут проверены в следующем цикле.
func (p *Processor) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan *domain.Transaction,
	resultCh chan<- workerResult,
) {
	defer wg.Done()

	for task := range taskCh {
		result := workerResult{WorkerID: workerID, Deposit: task}

		if p.pausedUntil.Load() > p.now().UnixNano() {
			result.Outcome = OutcomeThrottled
			resultCh <- result
			continue
		}
		if task.Deposit == nil || task.Deposit.InvoiceID == "" {
			result.Error = fmt.Errorf("deposit %s has no invoice", task.ID)
			resultCh <- result
			continue
		}

		reqCtx, cancel := context.WithTimeout(ctx, defaultAPITimeout)
		status, err := p.client.GetInvoiceStatus(reqCtx, task.Deposit.InvoiceID)
		cancel()

		result.Outcome = classify(status, err)
		result.Error = err

		var tooMany *client.TooManyRequestError
		if errors.As(err, &tooMany) {
			p.pause(tooMany.RetryAfter)
		}
		resultCh <- result
	}
}

// pause запрещает запросы к шлюзу на время d.
func (p *Processor) pause(d time.Duration) {
	until := p.now().Add(d).UnixNano()
	for {
		current := p.pausedUntil.Load()
		if current >= until || p.pausedUntil.CompareAndSwap(current, until) {
			return
		}
	}
}

// produce получает страницу ожидающих пополнений после курсора. Возвращает ErrNoDeposits, если их нет.
func (p *Processor) produce(ctx context.Context, after domain.Cursor) ([]domain.Transaction, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	deposits, err := p.svs.PendingDeposits(produceCtx, after, p.limitPerIteration)
	if err != nil {
		return nil, fmt.Errorf("produce: %w", err)
	}
	if len(deposits) == 0 {
		return nil, ErrNoDeposits
	}
	return deposits, nil
}

// jitter возвращает d, случайно смещенное в пределах [1-percent, 1+percent].
func jitter(d time.Duration, percent float64) time.Duration {
	factor := 1 - percent + rand.Float64()*2*percent //nolint:gosec
	return time.Duration(float64(d) * factor)
}
