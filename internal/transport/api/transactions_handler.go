package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/garant/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionsHandler struct {
	txSvs          TransactionServicer
	depositTimeout time.Duration
}

func NewTransactionsHandler(txSvs TransactionServicer, depositTimeout time.Duration) *TransactionsHandler {
	return &TransactionsHandler{txSvs: txSvs, depositTimeout: depositTimeout}
}

type DepositParams struct {
	Amount decimal.Decimal `binding:"decimal_gt0" json:"amount"`
}

// Deposit POST RouteGroup + DepositsRoute. Выставляет счет и возвращает ссылку на оплату.
func (h *TransactionsHandler) Deposit(c *gin.Context) {
	var params DepositParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	// счет выставляется синхронно, поэтому таймаут зависит от таймаута шлюза.
	ctx, cancel := context.WithTimeout(c, h.depositTimeout)
	defer cancel()

	t, err := h.txSvs.CreateDeposit(ctx, getAccountIDFromContext(c), params.Amount)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTransactionResponse(t))
}

type WithdrawParams struct {
	Amount  decimal.Decimal `binding:"decimal_gt0"      json:"amount"`
	Network string          `binding:"required"         json:"network"`
	Address string          `binding:"required,max=128" json:"address"`
}

// Withdraw POST RouteGroup + WithdrawalsRoute. Списывает сумму и создает заявку на вывод.
func (h *TransactionsHandler) Withdraw(c *gin.Context) {
	var params WithdrawParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}
	network, err := service.ParseNetwork(params.Network)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	t, err := h.txSvs.CreateWithdraw(ctx, getAccountIDFromContext(c), params.Amount, network, params.Address)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTransactionResponse(t))
}

// Show GET RouteGroup + TransactionRoute.
func (h *TransactionsHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	t, err := h.txSvs.Get(ctx, c.Param("id"), getAccountIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransactionResponse(t))
}
