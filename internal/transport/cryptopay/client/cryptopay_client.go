// Package client HTTP клиент Crypto Pay API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	RouteCreateInvoice = "/createInvoice"
	RouteGetInvoices   = "/getInvoices"

	TokenHeader = "Crypto-Pay-API-Token" //nolint:gosec
)

// Константы минимального и максимально значения в заголовке Retry-After.
const (
	minRetryAfter     = 1
	maxRetryAfter     = 120
	defaultRetryAfter = 60
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultAsset   = "USDT"
)

// envelope общий конверт ответа Crypto Pay.
type envelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error,omitempty"`
}

type createInvoiceRequest struct {
	Asset          string `json:"asset"`
	Amount         string `json:"amount"`
	Description    string `json:"description"`
	Payload        string `json:"payload"`
	AllowAnonymous bool   `json:"allow_anonymous"`
}

type invoicePayload struct {
	AccountID int64 `json:"account_id"`
}

// Invoice счет в ответе Crypto Pay. invoice_id в API числовой.
type Invoice struct {
	InvoiceID int64  `json:"invoice_id"`
	Status    string `json:"status"`
	PayURL    string `json:"pay_url"`
	BotURL    string `json:"bot_invoice_url"`
}

type invoicesResult struct {
	Items []Invoice `json:"items"`
}

// HTTPClient реализация service.Gateway поверх Crypto Pay API.
type HTTPClient struct {
	baseURL    string
	token      string
	asset      string
	httpClient *http.Client
}

func New(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		asset:      DefaultAsset,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetAsset устанавливает валюту выставляемых счетов.
func (c *HTTPClient) SetAsset(asset string) *HTTPClient {
	c.asset = asset
	return c
}

// SetTimeout ограничивает время одного запроса к шлюзу.
func (c *HTTPClient) SetTimeout(timeout time.Duration) *HTTPClient {
	c.httpClient.Timeout = timeout
	return c
}

// CreateInvoice выставляет счет на сумму amount. В payload счета записывается id аккаунта.
// Любая ошибка транспорта или шлюза оборачивается в domain.ErrGatewayUnavailable.
func (c *HTTPClient) CreateInvoice(
	ctx context.Context,
	amount decimal.Decimal,
	accountID int64,
) (*domain.Invoice, error) {
	payload, err := json.Marshal(invoicePayload{AccountID: accountID})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	body, err := json.Marshal(createInvoiceRequest{
		Asset:       c.asset,
		Amount:      amount.StringFixed(domain.MoneyPlaces),
		Description: fmt.Sprintf("Balance top up for account %d", accountID),
		Payload:     string(payload),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var inv Invoice
	if err := c.call(ctx, http.MethodPost, c.baseURL+RouteCreateInvoice, bytes.NewReader(body), &inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w: %w", domain.ErrGatewayUnavailable, err)
	}
	return &domain.Invoice{
		ID:     strconv.FormatInt(inv.InvoiceID, 10),
		PayURL: inv.PayURL,
	}, nil
}

// GetInvoiceStatus возвращает статус счета. Если шлюз не знает счет, возвращается
// domain.InvoiceStatusNotFound без ошибки.
func (c *HTTPClient) GetInvoiceStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatusType, error) {
	q := url.Values{}
	q.Set("invoice_ids", invoiceID)

	var res invoicesResult
	if err := c.call(ctx, http.MethodGet, c.baseURL+RouteGetInvoices+"?"+q.Encode(), nil, &res); err != nil {
		return "", fmt.Errorf("get invoice %s: %w: %w", invoiceID, domain.ErrGatewayUnavailable, err)
	}
	if len(res.Items) == 0 {
		return domain.InvoiceStatusNotFound, nil
	}
	return domain.InvoiceStatusType(res.Items[0].Status), nil
}

// call выполняет запрос и разбирает конверт ответа в result.
// При ответе сервера со статусом отличным от http.StatusOK, возвращает ошибку StatusCodeError, или
// TooManyRequestError в случае http.StatusTooManyRequests.
//
//nolint:nonamedreturns
func (c *HTTPClient) call(ctx context.Context, method, u string, body io.Reader, result any) (err error) {
	req, reqErr := http.NewRequestWithContext(ctx, method, u, body)
	if reqErr != nil {
		return fmt.Errorf("create request: %s", reqErr.Error())
	}
	req.Header.Set(TokenHeader, c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return fmt.Errorf("do request: %s", doErr.Error())
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return NewTooManyRequestError(parseRetryAfter(resp.Header.Get("Retry-After")))
	}

	// Статус отличный от http.StatusOK нас не интересует.
	if resp.StatusCode != http.StatusOK {
		return NewStatusCodeError(resp.StatusCode)
	}

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("read response: %s", readErr.Error())
	}

	var env envelope
	if jsonErr := json.Unmarshal(raw, &env); jsonErr != nil {
		return fmt.Errorf("parse response: %s", jsonErr.Error())
	}
	if !env.OK {
		if env.Error != nil {
			return env.Error
		}
		return errors.New("response is not ok")
	}
	if jsonErr := json.Unmarshal(env.Result, result); jsonErr != nil {
		return fmt.Errorf("parse result: %s", jsonErr.Error())
	}
	return nil
}

func parseRetryAfter(v string) time.Duration {
	minValue := decimal.NewFromInt(minRetryAfter)
	maxValue := decimal.NewFromInt(maxRetryAfter)

	retryAfter, parseErr := decimal.NewFromString(v)
	if parseErr != nil || retryAfter.LessThan(minValue) || retryAfter.GreaterThan(maxValue) {
		// в случае ошибки или неверных данных ставим 60 секунд
		retryAfter = decimal.NewFromInt(defaultRetryAfter)
	}
	return time.Duration(retryAfter.IntPart()) * time.Second
}
