package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/garant/internal/service"
	"github.com/fsdevblog/garant/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
)

type AccountsHandler struct {
	accountSvs AccountServicer
	jwtSecret  []byte
	tokenTTL   time.Duration
}

func NewAccountsHandler(accountSvs AccountServicer, jwtSecret []byte, tokenTTL time.Duration) *AccountsHandler {
	return &AccountsHandler{
		accountSvs: accountSvs,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

type RegisterAccountParams struct {
	ID          int64  `binding:"required,gt=0"    json:"id"`
	Username    string `binding:"max=64"           json:"username"`
	DisplayName string `binding:"required,max=128" json:"display_name"`
}

// Register POST RouteGroup + AccountsRoute. Регистрирует аккаунт при первом обращении или обновляет профиль и
// выдает токен. Доступен только фронтенду с ключом.
func (h *AccountsHandler) Register(c *gin.Context) {
	var params RegisterAccountParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	acc, err := h.accountSvs.Ensure(ctx, service.EnsureAccountArgs{
		ID:          params.ID,
		Username:    params.Username,
		DisplayName: params.DisplayName,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	token, tokenErr := tokens.GenerateAccountJWT(acc.ID, h.tokenTTL, h.jwtSecret)
	if tokenErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, tokenErr).SetType(gin.ErrorTypePrivate)
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{"account": newAccountResponse(acc), "token": token})
}

// Me GET RouteGroup + MeRoute. Профиль и баланс текущего аккаунта.
func (h *AccountsHandler) Me(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	acc, err := h.accountSvs.Get(ctx, getAccountIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(acc))
}

// Search GET RouteGroup + SearchRoute?q=.
func (h *AccountsHandler) Search(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	accounts, err := h.accountSvs.Search(ctx, c.Query("q"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if len(accounts) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	res := make([]AccountSearchResponse, len(accounts))
	for i, a := range accounts {
		res[i] = AccountSearchResponse{
			ID:          a.ID,
			Username:    a.Username,
			DisplayName: a.DisplayName,
			Suspended:   a.IsSuspended(),
		}
	}
	c.JSON(http.StatusOK, res)
}

// History GET RouteGroup + HistoryRoute. Последние транзакции и сделки.
func (h *AccountsHandler) History(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	history, err := h.accountSvs.History(ctx, getAccountIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": newTransactionsResponse(history.Transactions),
		"deals":        newDealsResponse(history.Deals),
	})
}

// Ledger GET RouteGroup + LedgerRoute. Журнал проводок по балансу.
func (h *AccountsHandler) Ledger(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	entries, err := h.accountSvs.Ledger(ctx, getAccountIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = LedgerEntryResponse{
			ID:           e.ID,
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			Reason:       e.Reason,
			Reference:    e.Reference,
			Actor:        e.Actor,
			CreatedAt:    e.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, res)
}
