package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fsdevblog/garant/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
	// DefaultDepositTimeout покрывает синхронный запрос к платежному шлюзу и запись в хранилище.
	DefaultDepositTimeout = 10*time.Second + DefaultServiceTimeout
	DefaultTokenTTL       = 30 * 24 * time.Hour
)

const (
	RouteGroup = "/api"

	AccountsRoute    = "/accounts"
	MeRoute          = "/accounts/me"
	SearchRoute      = "/accounts/search"
	HistoryRoute     = "/accounts/me/history"
	LedgerRoute      = "/accounts/me/ledger"
	DepositsRoute    = "/deposits"
	WithdrawalsRoute = "/withdrawals"
	TransactionRoute = "/transactions/:id"
	DealsRoute       = "/deals"
	DealRoute        = "/deals/:id"
	DealFundRoute    = "/deals/:id/fund"
	DealDeclineRoute = "/deals/:id/decline"
	DealConfirmRoute = "/deals/:id/confirm"
	DealDisputeRoute = "/deals/:id/dispute"

	AdminBanRoute         = "/admin/accounts/:id/ban"
	AdminUnbanRoute       = "/admin/accounts/:id/unban"
	AdminBalanceRoute     = "/admin/accounts/:id/balance"
	AdminWithdrawalsRoute = "/admin/withdrawals"
	AdminApproveRoute     = "/admin/withdrawals/:id/approve"
	AdminRejectRoute      = "/admin/withdrawals/:id/reject"
	AdminDisputesRoute    = "/admin/disputes"
	AdminResolveRoute     = "/admin/disputes/:id/resolve"
	AdminStatsRoute       = "/admin/stats"
)

type RouterArgs struct {
	Logger             *logrus.Logger
	AccountService     AccountServicer
	TransactionService TransactionServicer
	DealService        DealServicer
	AdminService       AdminServicer
	JWTSecretKey       []byte
	TokenTTL           time.Duration
	FrontendKey        string
	AdminID            int64
	// DepositTimeout таймаут создания пополнения. Должен превышать таймаут платежного шлюза.
	DepositTimeout time.Duration
	// IdempotencyStore включает обработку Idempotency-Key на POST роутах. nil отключает.
	IdempotencyStore middlewares.IdempotencyStore
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("new router: %w", err)
	}
	if args.TokenTTL == 0 {
		args.TokenTTL = DefaultTokenTTL
	}
	if args.DepositTimeout == 0 {
		args.DepositTimeout = DefaultDepositTimeout
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	accountsHandler := NewAccountsHandler(args.AccountService, args.JWTSecretKey, args.TokenTTL)
	txHandler := NewTransactionsHandler(args.TransactionService, args.DepositTimeout)
	dealsHandler := NewDealsHandler(args.DealService)
	adminHandler := NewAdminHandler(args.AdminService)

	api := r.Group(RouteGroup)

	api.POST(AccountsRoute, middlewares.FrontendKey(args.FrontendKey), accountsHandler.Register)

	// ниже все роуты группы требуют авторизованного аккаунта.
	authed := api.Group("", middlewares.AuthRequired(args.JWTSecretKey))
	if args.IdempotencyStore != nil && args.Logger != nil {
		authed.Use(idempotentPOST(middlewares.Idempotency(args.IdempotencyStore, args.Logger)))
	}

	authed.GET(MeRoute, accountsHandler.Me)
	authed.GET(SearchRoute, accountsHandler.Search)
	authed.GET(HistoryRoute, accountsHandler.History)
	authed.GET(LedgerRoute, accountsHandler.Ledger)

	authed.POST(DepositsRoute, txHandler.Deposit)
	authed.POST(WithdrawalsRoute, txHandler.Withdraw)
	authed.GET(TransactionRoute, txHandler.Show)

	authed.POST(DealsRoute, dealsHandler.Propose)
	authed.GET(DealRoute, dealsHandler.Show)
	authed.POST(DealFundRoute, dealsHandler.Fund)
	authed.POST(DealDeclineRoute, dealsHandler.Decline)
	authed.POST(DealConfirmRoute, dealsHandler.Confirm)
	authed.POST(DealDisputeRoute, dealsHandler.Dispute)

	admin := authed.Group("", middlewares.AdminRequired(args.AdminID))
	admin.POST(AdminBanRoute, adminHandler.Ban)
	admin.POST(AdminUnbanRoute, adminHandler.Unban)
	admin.POST(AdminBalanceRoute, adminHandler.AdjustBalance)
	admin.GET(AdminWithdrawalsRoute, adminHandler.Withdrawals)
	admin.POST(AdminApproveRoute, adminHandler.ApproveWithdraw)
	admin.POST(AdminRejectRoute, adminHandler.RejectWithdraw)
	admin.GET(AdminDisputesRoute, adminHandler.Disputes)
	admin.POST(AdminResolveRoute, adminHandler.Resolve)
	admin.GET(AdminStatsRoute, adminHandler.Stats)
	return r, nil
}

// idempotentPOST применяет mw только к POST запросам.
func idempotentPOST(mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		mw(c)
	}
}
