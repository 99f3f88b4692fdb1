// Package notify доставляет события сделок и транзакций фронтенду.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 5 * time.Second
	userAgent      = "Garant-Webhook/1.0"
)

// Webhook отправляет события POST запросом с JSON телом. Отправка асинхронная, ошибки только логируются.
type Webhook struct {
	url        string
	httpClient *http.Client
	l          *logrus.Entry
	wg         sync.WaitGroup
}

func NewWebhook(url string, l *logrus.Logger) *Webhook {
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
		l: l.WithFields(logrus.Fields{
			"component": "notify",
			"module":    "webhook",
		}),
	}
}

// Notify ставит событие в отправку и сразу возвращается.
func (w *Webhook) Notify(ctx context.Context, event domain.Event) {
	// запрос не должен отменяться вместе с входящим http запросом.
	sendCtx := context.WithoutCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.send(sendCtx, event); err != nil {
			w.l.WithError(err).WithFields(logrus.Fields{
				"event":     event.Type,
				"accountID": event.AccountID,
				"reference": event.Reference,
			}).Warn("deliver event")
		}
	}()
}

// Wait ожидает завершения начатых отправок.
func (w *Webhook) Wait() {
	w.wg.Wait()
}

func (w *Webhook) send(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Logger пишет события в лог. Используется, когда адрес вебхука не настроен.
type Logger struct {
	l *logrus.Entry
}

func NewLogger(l *logrus.Logger) *Logger {
	return &Logger{l: l.WithFields(logrus.Fields{
		"component": "notify",
		"module":    "log",
	})}
}

func (n *Logger) Notify(_ context.Context, event domain.Event) {
	n.l.WithFields(logrus.Fields{
		"event":     event.Type,
		"accountID": event.AccountID,
		"reference": event.Reference,
		"amount":    event.Amount,
	}).Info(event.Message)
}

// Wait ничего не ждет, метод есть для единообразия с Webhook.
func (n *Logger) Wait() {}
