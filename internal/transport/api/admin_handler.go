package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	adminSvs AdminServicer
}

func NewAdminHandler(adminSvs AdminServicer) *AdminHandler {
	return &AdminHandler{adminSvs: adminSvs}
}

type BanParams struct {
	Reason string `binding:"required,max=512" json:"reason"`
}

// Ban POST RouteGroup + AdminBanRoute.
func (h *AdminHandler) Ban(c *gin.Context) {
	accountID, ok := accountIDParam(c, "id")
	if !ok {
		return
	}
	var params BanParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	acc, err := h.adminSvs.Ban(ctx, getAccountIDFromContext(c), accountID, params.Reason)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(acc))
}

// Unban POST RouteGroup + AdminUnbanRoute.
func (h *AdminHandler) Unban(c *gin.Context) {
	accountID, ok := accountIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	acc, err := h.adminSvs.Unban(ctx, getAccountIDFromContext(c), accountID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(acc))
}

type AdjustBalanceParams struct {
	Amount decimal.Decimal `binding:"required"         json:"amount"`
	Reason string          `binding:"required,max=512" json:"reason"`
}

// AdjustBalance POST RouteGroup + AdminBalanceRoute. Сумма со знаком.
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	accountID, ok := accountIDParam(c, "id")
	if !ok {
		return
	}
	var params AdjustBalanceParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := h.adminSvs.AdjustBalance(ctx, getAccountIDFromContext(c), accountID, params.Amount, params.Reason)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": accountID, "balance": balance})
}

// Withdrawals GET RouteGroup + AdminWithdrawalsRoute. Страница ожидающих заявок на вывод, старые первыми.
func (h *AdminHandler) Withdrawals(c *gin.Context) {
	after, limit, ok := bindPage(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	pending, err := h.adminSvs.PendingWithdrawals(ctx, getAccountIDFromContext(c), after, limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if len(pending) > 0 {
		setNextCursor(c, domain.TransactionCursor(&pending[len(pending)-1]))
	}
	c.JSON(http.StatusOK, newTransactionsResponse(pending))
}

// ApproveWithdraw POST RouteGroup + AdminApproveRoute.
func (h *AdminHandler) ApproveWithdraw(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	t, err := h.adminSvs.ApproveWithdraw(ctx, getAccountIDFromContext(c), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransactionResponse(t))
}

// RejectWithdraw POST RouteGroup + AdminRejectRoute. Возвращает сумму на баланс.
func (h *AdminHandler) RejectWithdraw(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	t, err := h.adminSvs.RejectWithdraw(ctx, getAccountIDFromContext(c), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransactionResponse(t))
}

// Disputes GET RouteGroup + AdminDisputesRoute. Постраничный вывод как у Withdrawals.
func (h *AdminHandler) Disputes(c *gin.Context) {
	after, limit, ok := bindPage(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deals, err := h.adminSvs.OpenDisputes(ctx, getAccountIDFromContext(c), after, limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if len(deals) > 0 {
		setNextCursor(c, domain.DealCursor(&deals[len(deals)-1]))
	}
	c.JSON(http.StatusOK, newDealsResponse(deals))
}

type ResolveParams struct {
	WinnerID int64  `binding:"required,gt=0" json:"winner_id"`
	Comment  string `binding:"max=1024"      json:"comment"`
}

// Resolve POST RouteGroup + AdminResolveRoute. Победитель должен быть участником сделки.
func (h *AdminHandler) Resolve(c *gin.Context) {
	var params ResolveParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	deal, err := h.adminSvs.ResolveDispute(ctx, getAccountIDFromContext(c), c.Param("id"), params.WinnerID, params.Comment)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDealResponse(deal))
}

// Stats GET RouteGroup + AdminStatsRoute.
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	stats, err := h.adminSvs.Stats(ctx, getAccountIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		AccountsTotal:      stats.AccountsTotal,
		AccountsActive:     stats.AccountsActive,
		TotalBalance:       stats.TotalBalance,
		DealsTotal:         stats.DealsTotal,
		DealsActive:        stats.DealsActive,
		PendingWithdrawals: stats.PendingWithdrawals,
	})
}
