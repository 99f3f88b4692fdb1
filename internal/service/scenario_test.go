package service

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/filerepo"
	"github.com/fsdevblog/garant/internal/service/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

const testAdminID int64 = 1000

// ScenarioTestSuite проверяет сервисы целиком на файловом хранилище.
type ScenarioTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockGateway *mocks.MockGateway
	store       *filerepo.Store
	services    *AppServices
	ctx         context.Context
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioTestSuite))
}

func (s *ScenarioTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGateway = mocks.NewMockGateway(s.mockCtrl)
	notifier := mocks.NewMockNotifier(s.mockCtrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)

	store, err := filerepo.Open(filepath.Join(s.T().TempDir(), "garant.json"), l)
	s.Require().NoError(err)
	s.store = store

	services, err := Factory(FactoryArgs{
		UOW:      store,
		Gateway:  s.mockGateway,
		Notifier: notifier,
		Options:  DefaultOptions(testAdminID),
		Logger:   l,
	})
	s.Require().NoError(err)
	s.services = services
}

func (s *ScenarioTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *ScenarioTestSuite) newAccount(id int64, balance int64) *domain.Account {
	acc, err := s.services.AccountService.Ensure(s.ctx, EnsureAccountArgs{
		ID:          id,
		Username:    gofakeit.Username(),
		DisplayName: gofakeit.Name(),
	})
	s.Require().NoError(err)
	if balance > 0 {
		_, err = s.services.AdminService.AdjustBalance(s.ctx, testAdminID, id, decimal.NewFromInt(balance), "seed")
		s.Require().NoError(err)
	}
	return acc
}

func (s *ScenarioTestSuite) balance(id int64) decimal.Decimal {
	acc, err := s.services.AccountService.Get(s.ctx, id)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *ScenarioTestSuite) assertBalance(id int64, expected string) {
	s.T().Helper()
	actual := s.balance(id)
	s.True(decimal.RequireFromString(expected).Equal(actual), "account %d: expected %s, got %s", id, expected, actual)
}

// assertLedgerConsistent баланс каждого аккаунта равен сумме его проводок.
func (s *ScenarioTestSuite) assertLedgerConsistent(ids ...int64) {
	s.T().Helper()
	for _, id := range ids {
		entries, err := s.services.AccountService.Ledger(s.ctx, id)
		s.Require().NoError(err)
		sum := decimal.Zero
		for _, e := range entries {
			sum = sum.Add(e.Amount)
			s.True(sum.Equal(e.BalanceAfter), "entry %d balance_after mismatch", e.ID)
		}
		s.True(sum.Equal(s.balance(id)), "account %d ledger sum %s", id, sum)
	}
}

func (s *ScenarioTestSuite) terms() string {
	return gofakeit.Sentence(12) + " delivered within three days"
}

func (s *ScenarioTestSuite) proposeAndFund(initiator, counterparty int64, amount string) *domain.Deal {
	deal, err := s.services.DealService.Propose(s.ctx, ProposeDealArgs{
		InitiatorID:    initiator,
		CounterpartyID: counterparty,
		Amount:         decimal.RequireFromString(amount),
		Terms:          s.terms(),
	})
	s.Require().NoError(err)
	deal, err = s.services.DealService.ConfirmFunding(s.ctx, deal.ID, initiator)
	s.Require().NoError(err)
	return deal
}

func (s *ScenarioTestSuite) TestDealHappyPath() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)

	deal, err := s.services.DealService.Propose(s.ctx, ProposeDealArgs{
		InitiatorID:    1,
		CounterpartyID: 2,
		Amount:         decimal.RequireFromString("40.00"),
		Terms:          s.terms(),
	})
	s.Require().NoError(err)
	s.Equal(domain.DealStatusPending, deal.Status)
	s.assertBalance(1, "100")

	deal, err = s.services.DealService.ConfirmFunding(s.ctx, deal.ID, 1)
	s.Require().NoError(err)
	s.Equal(domain.DealStatusActive, deal.Status)
	s.assertBalance(1, "60")

	deal, err = s.services.DealService.ConfirmCompletion(s.ctx, deal.ID, 1)
	s.Require().NoError(err)
	s.Equal(domain.DealStatusActive, deal.Status)
	s.assertBalance(2, "0")

	deal, err = s.services.DealService.ConfirmCompletion(s.ctx, deal.ID, 2)
	s.Require().NoError(err)
	s.Equal(domain.DealStatusCompleted, deal.Status)
	s.assertBalance(2, "40")

	for _, party := range []int64{1, 2, 1} {
		deal, err = s.services.DealService.ConfirmCompletion(s.ctx, deal.ID, party)
		s.Require().NoError(err)
		s.Equal(domain.DealStatusCompleted, deal.Status)
	}
	s.assertBalance(1, "60")
	s.assertBalance(2, "40")
	s.assertLedgerConsistent(1, 2)
}

func (s *ScenarioTestSuite) TestDealConfirmationOrderDoesNotMatter() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)
	deal := s.proposeAndFund(1, 2, "25.50")

	// контрагент подтверждает первым, затем дважды инициатор.
	for _, party := range []int64{2, 2, 1, 1} {
		_, err := s.services.DealService.ConfirmCompletion(s.ctx, deal.ID, party)
		s.Require().NoError(err)
	}
	s.assertBalance(1, "74.50")
	s.assertBalance(2, "25.50")
	s.assertLedgerConsistent(1, 2)
}

func (s *ScenarioTestSuite) TestConcurrentConfirmationsReleaseOnce() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)
	deal := s.proposeAndFund(1, 2, "40")

	wg := new(sync.WaitGroup)
	for i := range 20 {
		wg.Add(1)
		party := int64(1 + i%2)
		go func() {
			defer wg.Done()
			_, _ = s.services.DealService.ConfirmCompletion(s.ctx, deal.ID, party)
		}()
	}
	wg.Wait()

	s.assertBalance(1, "60")
	s.assertBalance(2, "40")
	s.assertLedgerConsistent(1, 2)
}

func (s *ScenarioTestSuite) TestFundingRequiresBalance() {
	s.newAccount(1, 50)
	s.newAccount(2, 0)

	deal, err := s.services.DealService.Propose(s.ctx, ProposeDealArgs{
		InitiatorID:    1,
		CounterpartyID: 2,
		Amount:         decimal.NewFromInt(50),
		Terms:          s.terms(),
	})
	s.Require().NoError(err)

	// баланс уменьшился после предложения сделки.
	_, err = s.services.AdminService.AdjustBalance(s.ctx, testAdminID, 1, decimal.NewFromInt(-10), "fee")
	s.Require().NoError(err)

	_, err = s.services.DealService.ConfirmFunding(s.ctx, deal.ID, 1)
	s.ErrorIs(err, domain.ErrInsufficientFunds)

	got, err := s.services.DealService.Get(s.ctx, deal.ID, 1)
	s.Require().NoError(err)
	s.Equal(domain.DealStatusPending, got.Status)
	s.assertBalance(1, "40")

	_, err = s.services.DealService.ConfirmFunding(s.ctx, deal.ID, 2)
	s.ErrorIs(err, domain.ErrNotParty)
}

func (s *ScenarioTestSuite) TestProposeValidation() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)
	s.newAccount(3, 0)
	_, err := s.services.AdminService.Ban(s.ctx, testAdminID, 3, "fraud")
	s.Require().NoError(err)

	cases := []struct {
		name     string
		args     ProposeDealArgs
		wantErr  error
		errField string
	}{
		{
			name:     "zero amount",
			args:     ProposeDealArgs{InitiatorID: 1, CounterpartyID: 2, Amount: decimal.Zero, Terms: s.terms()},
			errField: "amount",
		},
		{
			name:     "short terms",
			args:     ProposeDealArgs{InitiatorID: 1, CounterpartyID: 2, Amount: decimal.NewFromInt(1), Terms: "too short"},
			errField: "terms",
		},
		{
			name:     "self deal",
			args:     ProposeDealArgs{InitiatorID: 1, CounterpartyID: 1, Amount: decimal.NewFromInt(1), Terms: s.terms()},
			errField: "counterparty",
		},
		{
			name:     "suspended counterparty",
			args:     ProposeDealArgs{InitiatorID: 1, CounterpartyID: 3, Amount: decimal.NewFromInt(1), Terms: s.terms()},
			errField: "counterparty",
		},
		{
			name:    "unknown counterparty",
			args:    ProposeDealArgs{InitiatorID: 1, CounterpartyID: 99, Amount: decimal.NewFromInt(1), Terms: s.terms()},
			wantErr: domain.ErrUnknownAccount,
		},
		{
			name:    "amount above balance",
			args:    ProposeDealArgs{InitiatorID: 1, CounterpartyID: 2, Amount: decimal.NewFromInt(101), Terms: s.terms()},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:    "suspended initiator",
			args:    ProposeDealArgs{InitiatorID: 3, CounterpartyID: 2, Amount: decimal.NewFromInt(1), Terms: s.terms()},
			wantErr: domain.ErrAccountSuspended,
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.services.DealService.Propose(s.ctx, tc.args)
			s.Require().Error(err)
			if tc.wantErr != nil {
				s.ErrorIs(err, tc.wantErr)
				return
			}
			var valErr *domain.ValidationError
			s.Require().ErrorAs(err, &valErr)
			s.Equal(tc.errField, valErr.Field)
		})
	}
}

func (s *ScenarioTestSuite) TestDisputeResolution() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)
	s.newAccount(3, 0)
	deal := s.proposeAndFund(1, 2, "30")

	_, err := s.services.DealService.OpenDispute(s.ctx, deal.ID, 3)
	s.ErrorIs(err, domain.ErrNotParty)

	deal, err = s.services.DealService.OpenDispute(s.ctx, deal.ID, 2)
	s.Require().NoError(err)
	s.Equal(domain.DealStatusDispute, deal.Status)

	_, err = s.services.DealService.ConfirmCompletion(s.ctx, deal.ID, 1)
	s.ErrorIs(err, domain.ErrInvalidState)

	_, err = s.services.AdminService.ResolveDispute(s.ctx, 2, deal.ID, 2, "self")
	s.ErrorIs(err, domain.ErrUnauthorized)

	_, err = s.services.AdminService.ResolveDispute(s.ctx, testAdminID, deal.ID, 3, "outsider")
	s.ErrorIs(err, domain.ErrInvalidWinner)
	s.assertBalance(3, "0")

	deal, err = s.services.AdminService.ResolveDispute(s.ctx, testAdminID, deal.ID, 1, "refund")
	s.Require().NoError(err)
	s.Equal(domain.DealStatusResolved, deal.Status)
	s.Require().NotNil(deal.Resolution)
	s.Equal(testAdminID, deal.Resolution.By)
	s.assertBalance(1, "100")

	_, err = s.services.AdminService.ResolveDispute(s.ctx, testAdminID, deal.ID, 2, "again")
	s.ErrorIs(err, domain.ErrInvalidState)
	s.assertBalance(1, "100")
	s.assertBalance(2, "0")
	s.assertLedgerConsistent(1, 2, 3)
}

func (s *ScenarioTestSuite) TestDeclineDeal() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)

	deal, err := s.services.DealService.Propose(s.ctx, ProposeDealArgs{
		InitiatorID: 1, CounterpartyID: 2, Amount: decimal.NewFromInt(10), Terms: s.terms(),
	})
	s.Require().NoError(err)

	deal, err = s.services.DealService.Decline(s.ctx, deal.ID, 2)
	s.Require().NoError(err)
	s.Equal(domain.DealStatusCancelled, deal.Status)

	_, err = s.services.DealService.ConfirmFunding(s.ctx, deal.ID, 1)
	s.ErrorIs(err, domain.ErrInvalidState)
	s.assertBalance(1, "100")
}

func (s *ScenarioTestSuite) TestDepositReconciliation() {
	s.newAccount(1, 0)
	amount := decimal.RequireFromString("50.00")

	s.mockGateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any(), int64(1)).
		Return(&domain.Invoice{ID: "1001", PayURL: "https://pay.example/1001"}, nil)

	t, err := s.services.TransactionService.CreateDeposit(s.ctx, 1, amount)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusPending, t.Status)
	s.Equal("1001", t.Deposit.InvoiceID)
	s.Regexp(`^DEP\d{14}-[A-Z0-9]{6}$`, t.ID)

	pending, err := s.services.TransactionService.PendingDeposits(s.ctx, domain.Cursor{}, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)

	t, err = s.services.TransactionService.CompleteDeposit(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusCompleted, t.Status)
	s.assertBalance(1, "50")

	// повторная сверка со статусом paid.
	t, err = s.services.TransactionService.CompleteDeposit(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusCompleted, t.Status)
	s.assertBalance(1, "50")

	// истечение завершенного пополнения ничего не меняет.
	t, err = s.services.TransactionService.ExpireDeposit(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusCompleted, t.Status)

	pending, err = s.services.TransactionService.PendingDeposits(s.ctx, domain.Cursor{}, 10)
	s.Require().NoError(err)
	s.Empty(pending)
	s.assertLedgerConsistent(1)
}

func (s *ScenarioTestSuite) TestDepositGatewayFailurePersistsNothing() {
	s.newAccount(1, 0)
	s.mockGateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any(), int64(1)).
		Return(nil, domain.ErrGatewayUnavailable)

	_, err := s.services.TransactionService.CreateDeposit(s.ctx, 1, decimal.NewFromInt(10))
	s.ErrorIs(err, domain.ErrGatewayUnavailable)

	history, err := s.services.AccountService.History(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(history.Transactions)
}

func (s *ScenarioTestSuite) TestDepositLimits() {
	s.newAccount(1, 0)
	for _, amount := range []string{"0.5", "10000.01"} {
		_, err := s.services.TransactionService.CreateDeposit(s.ctx, 1, decimal.RequireFromString(amount))
		var valErr *domain.ValidationError
		s.Require().ErrorAs(err, &valErr, amount)
		s.Equal("amount", valErr.Field)
	}
}

func (s *ScenarioTestSuite) TestExpireDeposit() {
	s.newAccount(1, 0)
	s.mockGateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.Invoice{ID: "7"}, nil)
	t, err := s.services.TransactionService.CreateDeposit(s.ctx, 1, decimal.NewFromInt(10))
	s.Require().NoError(err)

	t, err = s.services.TransactionService.ExpireDeposit(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusExpired, t.Status)

	t, err = s.services.TransactionService.CompleteDeposit(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusExpired, t.Status)
	s.assertBalance(1, "0")

	_, err = s.services.TransactionService.ApproveWithdraw(s.ctx, t.ID, testAdminID)
	s.ErrorIs(err, domain.ErrInvalidState)

	_, err = s.services.TransactionService.CompleteDeposit(s.ctx, "DEP-missing")
	s.ErrorIs(err, domain.ErrUnknownTransaction)
}

func (s *ScenarioTestSuite) TestWithdrawRejectRestoresBalance() {
	s.newAccount(1, 20)

	t, err := s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.RequireFromString("20.00"),
		domain.NetworkTRC20, "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8")
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusPending, t.Status)
	s.True(decimal.NewFromInt(-20).Equal(t.Amount))
	s.assertBalance(1, "0")

	pending, err := s.services.AdminService.PendingWithdrawals(s.ctx, testAdminID, domain.Cursor{}, 0)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)

	_, err = s.services.AdminService.RejectWithdraw(s.ctx, 1, t.ID)
	s.ErrorIs(err, domain.ErrUnauthorized)

	t, err = s.services.AdminService.RejectWithdraw(s.ctx, testAdminID, t.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusRejected, t.Status)
	s.Equal(testAdminID, t.Withdraw.ProcessedBy)
	s.assertBalance(1, "20")

	// повторное отклонение и одобрение отклоненной заявки ничего не меняют.
	_, err = s.services.AdminService.RejectWithdraw(s.ctx, testAdminID, t.ID)
	s.Require().NoError(err)
	t, err = s.services.AdminService.ApproveWithdraw(s.ctx, testAdminID, t.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusRejected, t.Status)
	s.assertBalance(1, "20")
	s.assertLedgerConsistent(1)
}

func (s *ScenarioTestSuite) TestWithdrawApprove() {
	s.newAccount(1, 100)

	t, err := s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.NewFromInt(30),
		domain.NetworkERC20, "0x52908400098527886E0F7030069857D2E4169EE7")
	s.Require().NoError(err)

	t, err = s.services.AdminService.ApproveWithdraw(s.ctx, testAdminID, t.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusCompleted, t.Status)
	s.assertBalance(1, "70")

	stats, err := s.services.AdminService.Stats(s.ctx, testAdminID)
	s.Require().NoError(err)
	s.Equal(int64(0), stats.PendingWithdrawals)
	s.True(decimal.NewFromInt(70).Equal(stats.TotalBalance))
}

func (s *ScenarioTestSuite) TestWithdrawValidation() {
	s.newAccount(1, 10)

	_, err := s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.NewFromInt(11),
		domain.NetworkBSC, "0xde709f2102306220921060314715629080e2fb77")
	s.ErrorIs(err, domain.ErrInsufficientFunds)

	_, err = s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.NewFromInt(10),
		domain.NetworkTRC20, "0xde709f2102306220921060314715629080e2fb77")
	s.ErrorIs(err, domain.ErrInvalidAddress)

	_, err = s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.NewFromInt(1),
		domain.NetworkBSC, "0xde709f2102306220921060314715629080e2fb77")
	var valErr *domain.ValidationError
	s.ErrorAs(err, &valErr)

	s.assertBalance(1, "10")
	history, err := s.services.AccountService.History(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(history.Transactions)
}

func (s *ScenarioTestSuite) TestExcessPrecisionIsRejected() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)
	tooPrecise := decimal.RequireFromString("5.005")

	assertAmountError := func(err error) {
		s.T().Helper()
		var valErr *domain.ValidationError
		s.Require().ErrorAs(err, &valErr)
		s.Equal("amount", valErr.Field)
	}

	_, err := s.services.TransactionService.CreateWithdraw(s.ctx, 1, tooPrecise,
		domain.NetworkTRC20, "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8")
	assertAmountError(err)

	// шлюз не вызывается.
	_, err = s.services.TransactionService.CreateDeposit(s.ctx, 1, tooPrecise)
	assertAmountError(err)

	_, err = s.services.DealService.Propose(s.ctx, ProposeDealArgs{
		InitiatorID:    1,
		CounterpartyID: 2,
		Amount:         tooPrecise,
		Terms:          s.terms(),
	})
	assertAmountError(err)

	_, err = s.services.AdminService.AdjustBalance(s.ctx, testAdminID, 1, decimal.RequireFromString("-0.001"), "fix")
	assertAmountError(err)

	s.assertBalance(1, "100")
	history, err := s.services.AccountService.History(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(history.Transactions)
	s.Empty(history.Deals)

	// незначащие нули допустимы.
	t, err := s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.RequireFromString("5.000"),
		domain.NetworkTRC20, "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8")
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(-5).Equal(t.Amount))
	s.assertBalance(1, "95")
}

func (s *ScenarioTestSuite) TestAdminListsArePaged() {
	s.newAccount(1, 100)
	s.newAccount(2, 100)

	var withdrawIDs []string
	for range 3 {
		t, err := s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.NewFromInt(5),
			domain.NetworkTRC20, "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8")
		s.Require().NoError(err)
		withdrawIDs = append(withdrawIDs, t.ID)
	}

	first, err := s.services.AdminService.PendingWithdrawals(s.ctx, testAdminID, domain.Cursor{}, 2)
	s.Require().NoError(err)
	s.Require().Len(first, 2)
	second, err := s.services.AdminService.PendingWithdrawals(s.ctx, testAdminID,
		domain.TransactionCursor(&first[1]), 2)
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal(withdrawIDs, []string{first[0].ID, first[1].ID, second[0].ID})

	_, err = s.services.AdminService.PendingWithdrawals(s.ctx, 1, domain.Cursor{}, 2)
	s.ErrorIs(err, domain.ErrUnauthorized)

	var dealIDs []string
	for range 3 {
		deal := s.proposeAndFund(1, 2, "10")
		deal, err = s.services.DealService.OpenDispute(s.ctx, deal.ID, 2)
		s.Require().NoError(err)
		dealIDs = append(dealIDs, deal.ID)
	}

	var seen []string
	after := domain.Cursor{}
	for {
		page, pageErr := s.services.AdminService.OpenDisputes(s.ctx, testAdminID, after, 1)
		s.Require().NoError(pageErr)
		if len(page) == 0 {
			break
		}
		s.Require().Len(page, 1)
		seen = append(seen, page[0].ID)
		after = domain.DealCursor(&page[0])
	}
	s.Equal(dealIDs, seen)
}

func (s *ScenarioTestSuite) TestSuspendedAccountIsRejected() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)
	deal := s.proposeAndFund(1, 2, "10")

	_, err := s.services.AdminService.Ban(s.ctx, 2, 1, "not admin")
	s.ErrorIs(err, domain.ErrUnauthorized)

	acc, err := s.services.AdminService.Ban(s.ctx, testAdminID, 1, "chargeback")
	s.Require().NoError(err)
	s.True(acc.IsSuspended())
	s.Equal("chargeback", acc.Suspension.Reason)

	_, err = s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.NewFromInt(10),
		domain.NetworkTRC20, "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8")
	s.ErrorIs(err, domain.ErrAccountSuspended)

	_, err = s.services.TransactionService.CreateDeposit(s.ctx, 1, decimal.NewFromInt(10))
	s.ErrorIs(err, domain.ErrAccountSuspended)

	_, err = s.services.DealService.ConfirmCompletion(s.ctx, deal.ID, 1)
	s.ErrorIs(err, domain.ErrAccountSuspended)

	// администратор может корректировать баланс заблокированного аккаунта.
	_, err = s.services.AdminService.AdjustBalance(s.ctx, testAdminID, 1, decimal.NewFromInt(5), "bonus")
	s.Require().NoError(err)

	acc, err = s.services.AdminService.Unban(s.ctx, testAdminID, 1)
	s.Require().NoError(err)
	s.False(acc.IsSuspended())

	_, err = s.services.DealService.ConfirmCompletion(s.ctx, deal.ID, 1)
	s.Require().NoError(err)
}

func (s *ScenarioTestSuite) TestAdjustBalance() {
	s.newAccount(1, 10)

	_, err := s.services.AdminService.AdjustBalance(s.ctx, testAdminID, 1, decimal.NewFromInt(-11), "penalty")
	s.ErrorIs(err, domain.ErrInsufficientFunds)

	_, err = s.services.AdminService.AdjustBalance(s.ctx, testAdminID, 42, decimal.NewFromInt(1), "gift")
	s.ErrorIs(err, domain.ErrUnknownAccount)

	_, err = s.services.AdminService.AdjustBalance(s.ctx, testAdminID, 1, decimal.Zero, "noop")
	var valErr *domain.ValidationError
	s.ErrorAs(err, &valErr)

	balance, err := s.services.AdminService.AdjustBalance(s.ctx, testAdminID, 1, decimal.RequireFromString("-2.5"), "fee")
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("7.5").Equal(balance))

	entries, err := s.services.AccountService.Ledger(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(domain.EntryReasonAdjustment, entries[1].Reason)
	s.Equal(testAdminID, entries[1].Actor)
	s.Equal("fee", entries[1].Reference)
}

func (s *ScenarioTestSuite) TestEnsureAndSearch() {
	acc, err := s.services.AccountService.Ensure(s.ctx, EnsureAccountArgs{ID: 5, Username: "@trader", DisplayName: "Big Trader"})
	s.Require().NoError(err)
	s.Equal("trader", acc.Username)
	s.True(acc.Balance.IsZero())

	acc, err = s.services.AccountService.Ensure(s.ctx, EnsureAccountArgs{ID: 5, Username: "trader2", DisplayName: "Big Trader"})
	s.Require().NoError(err)
	s.Equal("trader2", acc.Username)

	found, err := s.services.AccountService.Search(s.ctx, "big")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(int64(5), found[0].ID)

	_, err = s.services.AccountService.Search(s.ctx, " ")
	var valErr *domain.ValidationError
	s.ErrorAs(err, &valErr)

	_, err = s.services.AccountService.Get(s.ctx, 6)
	s.ErrorIs(err, domain.ErrUnknownAccount)
}

func (s *ScenarioTestSuite) TestHistory() {
	s.newAccount(1, 100)
	s.newAccount(2, 0)
	s.mockGateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.Invoice{ID: "x"}, nil).Times(1)
	_, err := s.services.TransactionService.CreateDeposit(s.ctx, 1, decimal.NewFromInt(5))
	s.Require().NoError(err)

	for range 11 {
		_, err = s.services.TransactionService.CreateWithdraw(s.ctx, 1, decimal.NewFromInt(5),
			domain.NetworkTRC20, "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8")
		s.Require().NoError(err)
	}
	deal := s.proposeAndFund(1, 2, "1")

	history, err := s.services.AccountService.History(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(history.Transactions, 10)
	for _, t := range history.Transactions {
		s.Equal(domain.TransactionKindWithdraw, t.Kind)
	}
	s.Require().Len(history.Deals, 1)
	s.Equal(deal.ID, history.Deals[0].ID)

	_, err = s.services.DealService.Get(s.ctx, deal.ID, 3)
	s.ErrorIs(err, domain.ErrNotParty)
	_, err = s.services.DealService.Get(s.ctx, deal.ID, testAdminID)
	s.Require().NoError(err)
}
