package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DealsHandler struct {
	dealSvs DealServicer
}

func NewDealsHandler(dealSvs DealServicer) *DealsHandler {
	return &DealsHandler{dealSvs: dealSvs}
}

type ProposeDealParams struct {
	CounterpartyID int64           `binding:"required,gt=0"     json:"counterparty_id"`
	Amount         decimal.Decimal `binding:"decimal_gt0"       json:"amount"`
	Terms          string          `binding:"required,max=4000" json:"terms"`
}

// Propose POST RouteGroup + DealsRoute.
func (h *DealsHandler) Propose(c *gin.Context) {
	var params ProposeDealParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deal, err := h.dealSvs.Propose(ctx, service.ProposeDealArgs{
		InitiatorID:    getAccountIDFromContext(c),
		CounterpartyID: params.CounterpartyID,
		Amount:         params.Amount,
		Terms:          params.Terms,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newDealResponse(deal))
}

// Show GET RouteGroup + DealRoute. Доступно участникам сделки.
func (h *DealsHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deal, err := h.dealSvs.Get(ctx, c.Param("id"), getAccountIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDealResponse(deal))
}

type dealAction func(ctx context.Context, dealID string, accountID int64) (*domain.Deal, error)

// action общий обработчик действий участника над сделкой.
func (h *DealsHandler) action(fn dealAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
		defer cancel()

		deal, err := fn(ctx, c.Param("id"), getAccountIDFromContext(c))
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newDealResponse(deal))
	}
}

// Fund POST RouteGroup + DealFundRoute. Инициатор подтверждает фондирование.
func (h *DealsHandler) Fund(c *gin.Context) { h.action(h.dealSvs.ConfirmFunding)(c) }

// Decline POST RouteGroup + DealDeclineRoute.
func (h *DealsHandler) Decline(c *gin.Context) { h.action(h.dealSvs.Decline)(c) }

// Confirm POST RouteGroup + DealConfirmRoute. Повторное подтверждение ничего не меняет.
func (h *DealsHandler) Confirm(c *gin.Context) { h.action(h.dealSvs.ConfirmCompletion)(c) }

// Dispute POST RouteGroup + DealDisputeRoute.
func (h *DealsHandler) Dispute(c *gin.Context) { h.action(h.dealSvs.OpenDispute)(c) }
