package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/logger"
	"github.com/fsdevblog/garant/internal/service"
	"github.com/fsdevblog/garant/internal/transport/api/middlewares"
	"github.com/fsdevblog/garant/internal/transport/api/mocks"
	"github.com/fsdevblog/garant/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testAdminID     int64 = 1000
	testAccountID   int64 = 1
	testFrontendKey       = "frontend-key"
)

// decimalEq сравнивает суммы по значению, а не по внутреннему представлению.
type decimalEq struct{ want decimal.Decimal }

func (m decimalEq) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string { return "is equal to " + m.want.String() }

func amount(s string) gomock.Matcher { return decimalEq{want: decimal.RequireFromString(s)} }

type RouterTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret []byte

	accounts     *mocks.MockAccountServicer
	transactions *mocks.MockTransactionServicer
	deals        *mocks.MockDealServicer
	admin        *mocks.MockAdminServicer
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())

	s.jwtSecret = []byte("super secret key")
	s.accounts = mocks.NewMockAccountServicer(mockCtrl)
	s.transactions = mocks.NewMockTransactionServicer(mockCtrl)
	s.deals = mocks.NewMockDealServicer(mockCtrl)
	s.admin = mocks.NewMockAdminServicer(mockCtrl)

	router, err := New(RouterArgs{
		Logger:             logger.New(io.Discard, ""),
		AccountService:     s.accounts,
		TransactionService: s.transactions,
		DealService:        s.deals,
		AdminService:       s.admin,
		JWTSecretKey:       s.jwtSecret,
		FrontendKey:        testFrontendKey,
		AdminID:            testAdminID,
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *RouterTestSuite) request(method, route, body string, opts ...func(*testutils.RequestOptions)) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    RouteGroup + route,
		Body:   reader,
	}, opts...)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (s *RouterTestSuite) as(id int64) func(*testutils.RequestOptions) {
	return testutils.WithAccount(id, s.jwtSecret)
}

func (s *RouterTestSuite) decode(res *http.Response, v interface{}) {
	s.Require().NoError(json.NewDecoder(res.Body).Decode(v))
}

func (s *RouterTestSuite) TestRegister() {
	s.accounts.EXPECT().
		Ensure(gomock.Any(), service.EnsureAccountArgs{ID: 7, Username: "alice", DisplayName: "Alice"}).
		Return(&domain.Account{ID: 7, Username: "alice", DisplayName: "Alice", Balance: decimal.Zero}, nil).
		Times(1)

	body := `{"id":7,"username":"alice","display_name":"Alice"}`

	s.Run("without_frontend_key", func() {
		res := s.request(http.MethodPost, AccountsRoute, body)
		s.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	s.Run("validation", func() {
		res := s.request(http.MethodPost, AccountsRoute, `{"id":0}`,
			testutils.WithHeader(middlewares.FrontendKeyHeader, testFrontendKey))
		s.Equal(http.StatusUnprocessableEntity, res.StatusCode)
	})

	s.Run("ok", func() {
		res := s.request(http.MethodPost, AccountsRoute, body,
			testutils.WithHeader(middlewares.FrontendKeyHeader, testFrontendKey))
		s.Require().Equal(http.StatusOK, res.StatusCode)
		s.True(strings.HasPrefix(res.Header.Get("Authorization"), "Bearer "))

		var out struct {
			Account AccountResponse `json:"account"`
			Token   string          `json:"token"`
		}
		s.decode(res, &out)
		s.Equal(int64(7), out.Account.ID)
		s.NotEmpty(out.Token)
	})
}

func (s *RouterTestSuite) TestUnauthorized() {
	routes := []struct{ method, route string }{
		{http.MethodGet, MeRoute},
		{http.MethodPost, DepositsRoute},
		{http.MethodPost, DealsRoute},
		{http.MethodGet, AdminStatsRoute},
	}
	for _, r := range routes {
		res := s.request(r.method, r.route, "")
		s.Equal(http.StatusUnauthorized, res.StatusCode, r.route)
	}
}

func (s *RouterTestSuite) TestMe() {
	s.accounts.EXPECT().Get(gomock.Any(), testAccountID).
		Return(&domain.Account{ID: testAccountID, Balance: decimal.RequireFromString("12.5")}, nil)

	res := s.request(http.MethodGet, MeRoute, "", s.as(testAccountID))
	s.Require().Equal(http.StatusOK, res.StatusCode)

	var out AccountResponse
	s.decode(res, &out)
	s.True(out.Balance.Equal(decimal.RequireFromString("12.5")))
}

func (s *RouterTestSuite) TestSearch() {
	s.accounts.EXPECT().Search(gomock.Any(), "nobody").Return(nil, nil)
	s.accounts.EXPECT().Search(gomock.Any(), "ali").
		Return([]domain.Account{{ID: 7, Username: "alice"}}, nil)

	res := s.request(http.MethodGet, SearchRoute+"?q=nobody", "", s.as(testAccountID))
	s.Equal(http.StatusNoContent, res.StatusCode)

	res = s.request(http.MethodGet, SearchRoute+"?q=ali", "", s.as(testAccountID))
	s.Require().Equal(http.StatusOK, res.StatusCode)
	var out []AccountSearchResponse
	s.decode(res, &out)
	s.Len(out, 1)
}

func (s *RouterTestSuite) TestDeposit() {
	tests := []struct {
		name     string
		body     string
		mockFn   func()
		wantCode int
	}{
		{
			name:     "malformed_json",
			body:     `{"amount":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "negative_amount",
			body:     `{"amount":"-1"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "below_minimum",
			body: `{"amount":"0.5"}`,
			mockFn: func() {
				s.transactions.EXPECT().CreateDeposit(gomock.Any(), testAccountID, amount("0.5")).
					Return(nil, domain.NewValidationError("amount", "must be at least 1"))
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "gateway_down",
			body: `{"amount":"15"}`,
			mockFn: func() {
				s.transactions.EXPECT().CreateDeposit(gomock.Any(), testAccountID, amount("15")).
					Return(nil, fmt.Errorf("create invoice: %w", domain.ErrGatewayUnavailable))
			},
			wantCode: http.StatusBadGateway,
		},
		{
			name: "created",
			body: `{"amount":"10.50"}`,
			mockFn: func() {
				s.transactions.EXPECT().CreateDeposit(gomock.Any(), testAccountID, amount("10.5")).
					Return(&domain.Transaction{
						ID:        "tx-1",
						AccountID: testAccountID,
						Amount:    decimal.RequireFromString("10.5"),
						Kind:      domain.TransactionKindDeposit,
						Status:    domain.TransactionStatusPending,
						Deposit:   &domain.DepositDetails{InvoiceID: "1", PayURL: "https://pay.example/1"},
					}, nil)
			},
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			if tt.mockFn != nil {
				tt.mockFn()
			}
			res := s.request(http.MethodPost, DepositsRoute, tt.body, s.as(testAccountID))
			s.Equal(tt.wantCode, res.StatusCode)
		})
	}
}

func (s *RouterTestSuite) TestWithdraw() {
	address := "T" + strings.Repeat("A", 33)

	s.Run("unknown_network", func() {
		res := s.request(http.MethodPost, WithdrawalsRoute,
			`{"amount":"10","network":"SOL","address":"x"}`, s.as(testAccountID))
		s.Equal(http.StatusUnprocessableEntity, res.StatusCode)
	})

	s.Run("insufficient_funds", func() {
		s.transactions.EXPECT().
			CreateWithdraw(gomock.Any(), testAccountID, amount("10"), domain.NetworkTRC20, address).
			Return(nil, domain.ErrInsufficientFunds)
		res := s.request(http.MethodPost, WithdrawalsRoute,
			`{"amount":"10","network":"trc20","address":"`+address+`"}`, s.as(testAccountID))
		s.Equal(http.StatusUnprocessableEntity, res.StatusCode)
	})

	s.Run("created", func() {
		s.transactions.EXPECT().
			CreateWithdraw(gomock.Any(), testAccountID, amount("10"), domain.NetworkTRC20, address).
			Return(&domain.Transaction{ID: "tx-2", Kind: domain.TransactionKindWithdraw}, nil)
		res := s.request(http.MethodPost, WithdrawalsRoute,
			`{"amount":"10","network":"TRC20","address":"`+address+`"}`, s.as(testAccountID))
		s.Equal(http.StatusCreated, res.StatusCode)
	})
}

func (s *RouterTestSuite) TestShowTransaction() {
	s.transactions.EXPECT().Get(gomock.Any(), "missing", testAccountID).Return(nil, domain.ErrUnknownTransaction)

	res := s.request(http.MethodGet, "/transactions/missing", "", s.as(testAccountID))
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *RouterTestSuite) TestDealActions() {
	deal := &domain.Deal{ID: "d-1", InitiatorID: testAccountID, CounterpartyID: 2, Status: domain.DealStatusActive}

	s.deals.EXPECT().Propose(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, args service.ProposeDealArgs) (*domain.Deal, error) {
			s.Equal(testAccountID, args.InitiatorID)
			s.Equal(int64(2), args.CounterpartyID)
			return deal, nil
		})
	s.deals.EXPECT().ConfirmFunding(gomock.Any(), "d-1", testAccountID).Return(deal, nil)
	s.deals.EXPECT().ConfirmCompletion(gomock.Any(), "d-1", int64(3)).Return(nil, domain.ErrNotParty)
	s.deals.EXPECT().OpenDispute(gomock.Any(), "d-1", testAccountID).Return(nil, domain.ErrInvalidState)
	s.deals.EXPECT().Decline(gomock.Any(), "d-1", int64(2)).Return(deal, nil)

	res := s.request(http.MethodPost, DealsRoute,
		`{"counterparty_id":2,"amount":"50","terms":"deliver the goods by friday"}`, s.as(testAccountID))
	s.Equal(http.StatusCreated, res.StatusCode)

	res = s.request(http.MethodPost, "/deals/d-1/fund", "", s.as(testAccountID))
	s.Equal(http.StatusOK, res.StatusCode)

	res = s.request(http.MethodPost, "/deals/d-1/confirm", "", s.as(3))
	s.Equal(http.StatusForbidden, res.StatusCode)

	res = s.request(http.MethodPost, "/deals/d-1/dispute", "", s.as(testAccountID))
	s.Equal(http.StatusConflict, res.StatusCode)

	res = s.request(http.MethodPost, "/deals/d-1/decline", "", s.as(2))
	s.Equal(http.StatusOK, res.StatusCode)
}

func (s *RouterTestSuite) TestAdminRoutesRequireAdmin() {
	res := s.request(http.MethodGet, AdminStatsRoute, "", s.as(testAccountID))
	s.Equal(http.StatusForbidden, res.StatusCode)

	res = s.request(http.MethodPost, "/admin/accounts/5/ban", `{"reason":"spam"}`, s.as(testAccountID))
	s.Equal(http.StatusForbidden, res.StatusCode)
}

func (s *RouterTestSuite) TestAdminStats() {
	s.admin.EXPECT().Stats(gomock.Any(), testAdminID).Return(&domain.SystemStats{
		AccountsTotal:      3,
		AccountsActive:     2,
		TotalBalance:       decimal.RequireFromString("150"),
		DealsTotal:         4,
		DealsActive:        1,
		PendingWithdrawals: 1,
	}, nil)

	res := s.request(http.MethodGet, AdminStatsRoute, "", s.as(testAdminID))
	s.Require().Equal(http.StatusOK, res.StatusCode)

	var out StatsResponse
	s.decode(res, &out)
	s.Equal(int64(3), out.AccountsTotal)
	s.True(out.TotalBalance.Equal(decimal.RequireFromString("150")))
}

func (s *RouterTestSuite) TestAdminActions() {
	s.admin.EXPECT().Ban(gomock.Any(), testAdminID, int64(5), "spam").
		Return(&domain.Account{ID: 5, Suspension: &domain.Suspension{By: testAdminID, Reason: "spam"}}, nil)
	s.admin.EXPECT().AdjustBalance(gomock.Any(), testAdminID, int64(5), amount("-2.5"), "fee").
		Return(decimal.RequireFromString("7.5"), nil)
	s.admin.EXPECT().RejectWithdraw(gomock.Any(), testAdminID, "tx-9").
		Return(&domain.Transaction{ID: "tx-9", Status: domain.TransactionStatusRejected}, nil)
	s.admin.EXPECT().ResolveDispute(gomock.Any(), testAdminID, "d-1", int64(9), "").
		Return(nil, domain.ErrInvalidWinner)

	res := s.request(http.MethodPost, "/admin/accounts/5/ban", `{"reason":"spam"}`, s.as(testAdminID))
	s.Equal(http.StatusOK, res.StatusCode)

	res = s.request(http.MethodPost, "/admin/accounts/abc/ban", `{"reason":"spam"}`, s.as(testAdminID))
	s.Equal(http.StatusBadRequest, res.StatusCode)

	res = s.request(http.MethodPost, "/admin/accounts/5/balance", `{"amount":"-2.5","reason":"fee"}`, s.as(testAdminID))
	s.Require().Equal(http.StatusOK, res.StatusCode)
	var balance struct {
		Balance decimal.Decimal `json:"balance"`
	}
	s.decode(res, &balance)
	s.True(balance.Balance.Equal(decimal.RequireFromString("7.5")))

	res = s.request(http.MethodPost, "/admin/withdrawals/tx-9/reject", "", s.as(testAdminID))
	s.Equal(http.StatusOK, res.StatusCode)

	res = s.request(http.MethodPost, "/admin/disputes/d-1/resolve", `{"winner_id":9}`, s.as(testAdminID))
	s.Equal(http.StatusUnprocessableEntity, res.StatusCode)
}

func (s *RouterTestSuite) TestAdminListsArePaged() {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 123456000, time.UTC)
	last := domain.Transaction{
		ID:        "WTH2",
		Kind:      domain.TransactionKindWithdraw,
		Status:    domain.TransactionStatusPending,
		CreatedAt: createdAt,
	}
	first := last
	first.ID = "WTH1"
	first.CreatedAt = createdAt.Add(-time.Minute)

	gomock.InOrder(
		s.admin.EXPECT().PendingWithdrawals(gomock.Any(), testAdminID, domain.Cursor{}, uint(2)).
			Return([]domain.Transaction{first, last}, nil),
		s.admin.EXPECT().PendingWithdrawals(gomock.Any(), testAdminID, domain.TransactionCursor(&last), uint(2)).
			Return(nil, nil),
	)

	res := s.request(http.MethodGet, AdminWithdrawalsRoute+"?limit=2", "", s.as(testAdminID))
	s.Require().Equal(http.StatusOK, res.StatusCode)
	var page []TransactionResponse
	s.decode(res, &page)
	s.Len(page, 2)
	next := res.Header.Get(NextCursorHeader)
	s.Require().NotEmpty(next)

	res = s.request(http.MethodGet, AdminWithdrawalsRoute+"?limit=2&after="+next, "", s.as(testAdminID))
	s.Require().Equal(http.StatusOK, res.StatusCode)
	s.Empty(res.Header.Get(NextCursorHeader))

	res = s.request(http.MethodGet, AdminWithdrawalsRoute+"?after=not-a-cursor", "", s.as(testAdminID))
	s.Equal(http.StatusBadRequest, res.StatusCode)

	res = s.request(http.MethodGet, AdminWithdrawalsRoute+"?limit=1000", "", s.as(testAdminID))
	s.Equal(http.StatusUnprocessableEntity, res.StatusCode)

	dispute := domain.Deal{ID: "d-1", Status: domain.DealStatusDispute, CreatedAt: createdAt}
	s.admin.EXPECT().OpenDisputes(gomock.Any(), testAdminID, domain.Cursor{}, uint(0)).
		Return([]domain.Deal{dispute}, nil)

	res = s.request(http.MethodGet, AdminDisputesRoute, "", s.as(testAdminID))
	s.Require().Equal(http.StatusOK, res.StatusCode)
	s.Equal(encodeCursor(domain.DealCursor(&dispute)), res.Header.Get(NextCursorHeader))
}

func (s *RouterTestSuite) TestCursorEncoding() {
	cursor := domain.Cursor{CreatedAt: time.Date(2025, 3, 4, 5, 6, 7, 890000, time.UTC), ID: "DL20250304050607-AB12CD"}
	decoded, err := decodeCursor(encodeCursor(cursor))
	s.Require().NoError(err)
	s.True(cursor.CreatedAt.Equal(decoded.CreatedAt))
	s.Equal(cursor.ID, decoded.ID)

	for _, bad := range []string{"%%%", "bm8tc2VwYXJhdG9y", "MjAyNXw"} {
		_, err = decodeCursor(bad)
		s.ErrorIs(err, errInvalidCursor, bad)
	}
}

// TestDepositWaitsForGateway создание пополнения ограничено таймаутом шлюза, а не общим таймаутом сервиса.
func (s *RouterTestSuite) TestDepositWaitsForGateway() {
	s.transactions.EXPECT().CreateDeposit(gomock.Any(), testAccountID, amount("10")).
		DoAndReturn(func(ctx context.Context, _ int64, _ decimal.Decimal) (*domain.Transaction, error) {
			deadline, ok := ctx.Deadline()
			s.Require().True(ok)
			s.Greater(time.Until(deadline), DefaultServiceTimeout)
			return &domain.Transaction{ID: "tx-1", Kind: domain.TransactionKindDeposit}, nil
		})

	res := s.request(http.MethodPost, DepositsRoute, `{"amount":"10"}`, s.as(testAccountID))
	s.Equal(http.StatusCreated, res.StatusCode)

	router, err := New(RouterArgs{
		TransactionService: s.transactions,
		JWTSecretKey:       s.jwtSecret,
		AdminID:            testAdminID,
		DepositTimeout:     50 * time.Millisecond,
	})
	s.Require().NoError(err)
	s.router = router

	// шлюз отвечает дольше настроенного таймаута.
	s.transactions.EXPECT().CreateDeposit(gomock.Any(), testAccountID, amount("10")).
		DoAndReturn(func(ctx context.Context, _ int64, _ decimal.Decimal) (*domain.Transaction, error) {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("create invoice: %w", domain.ErrGatewayUnavailable)
			case <-time.After(5 * time.Second):
				return &domain.Transaction{ID: "tx-2"}, nil
			}
		})

	res = s.request(http.MethodPost, DepositsRoute, `{"amount":"10"}`, s.as(testAccountID))
	s.Equal(http.StatusBadGateway, res.StatusCode)
}

func (s *RouterTestSuite) TestInternalErrorIsHidden() {
	s.accounts.EXPECT().Ledger(gomock.Any(), testAccountID).Return(nil, fmt.Errorf("disk: %w", domain.ErrUnknown))

	res := s.request(http.MethodGet, LedgerRoute, "", s.as(testAccountID))
	s.Equal(http.StatusInternalServerError, res.StatusCode)
}
