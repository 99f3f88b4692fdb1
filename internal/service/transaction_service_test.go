package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/internal/service/mocks"
	"github.com/fsdevblog/garant/pkg/uow"
	uowmocks "github.com/fsdevblog/garant/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockAccountRepo *mocks.MockAccountRepository
	mockTxRepo      *mocks.MockTransactionRepository
	mockLedgerRepo  *mocks.MockLedgerRepository
	mockInvoiceRepo *mocks.MockInvoiceRepository
	mockGateway     *mocks.MockGateway
	mockNotifier    *mocks.MockNotifier
	txService       *TransactionService
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockAccountRepo = mocks.NewMockAccountRepository(s.mockCtrl)
	s.mockTxRepo = mocks.NewMockTransactionRepository(s.mockCtrl)
	s.mockLedgerRepo = mocks.NewMockLedgerRepository(s.mockCtrl)
	s.mockInvoiceRepo = mocks.NewMockInvoiceRepository(s.mockCtrl)
	s.mockGateway = mocks.NewMockGateway(s.mockCtrl)
	s.mockNotifier = mocks.NewMockNotifier(s.mockCtrl)

	// Репозитории вне транзакции, запрашиваются при инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.AccountRepoName)).
		Return(s.mockAccountRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTxRepo, nil).AnyTimes()

	// Репозитории внутри транзакции.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.AccountRepoName)).Return(s.mockAccountRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.TransactionRepoName)).Return(s.mockTxRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.LedgerRepoName)).Return(s.mockLedgerRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.InvoiceRepoName)).Return(s.mockInvoiceRepo, nil).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)

	txService, err := NewTransactionService(s.mockUOW, s.mockGateway, s.mockNotifier, DefaultOptions(testAdminID), l)
	s.Require().NoError(err)
	s.txService = txService
}

func (s *TransactionServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectDo выполняет переданную в uow.Do функцию с моком транзакции.
func (s *TransactionServiceTestSuite) expectDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})
}

func (s *TransactionServiceTestSuite) TestCreateDeposit() {
	acc := &domain.Account{ID: 10, Balance: decimal.Zero}
	invoice := &domain.Invoice{ID: "inv-1", PayURL: "https://pay.example/inv-1"}

	s.mockAccountRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(acc, nil)
	s.mockGateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any(), int64(10)).Return(invoice, nil)
	s.expectDo()

	var created *domain.Transaction
	s.mockTxRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, t *domain.Transaction) error {
			created = t
			return nil
		})
	s.mockInvoiceRepo.EXPECT().Create(gomock.Any(), "inv-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, transactionID string) error {
			s.Equal(created.ID, transactionID)
			return nil
		})

	t, err := s.txService.CreateDeposit(context.Background(), 10, decimal.RequireFromString("12.345"))
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusPending, t.Status)
	s.True(decimal.RequireFromString("12.35").Equal(t.Amount))
	s.Equal(invoice.PayURL, t.Deposit.PayURL)
}

func (s *TransactionServiceTestSuite) TestCreateDepositGatewayDown() {
	s.mockAccountRepo.EXPECT().FindByID(gomock.Any(), int64(10)).Return(&domain.Account{ID: 10}, nil)
	s.mockGateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any(), int64(10)).
		Return(nil, domain.ErrGatewayUnavailable)
	// uow.Do не должен вызываться.
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.txService.CreateDeposit(context.Background(), 10, decimal.NewFromInt(10))
	s.ErrorIs(err, domain.ErrGatewayUnavailable)
}

func (s *TransactionServiceTestSuite) TestCompleteDepositCreditsOnce() {
	pending := &domain.Transaction{
		ID:        "DEP20250101000000-ABCDEF",
		AccountID: 10,
		Amount:    decimal.NewFromInt(50),
		Kind:      domain.TransactionKindDeposit,
		Status:    domain.TransactionStatusPending,
		CreatedAt: time.Now(),
	}

	s.expectDo()
	s.mockTxRepo.EXPECT().FindByIDForUpdate(gomock.Any(), pending.ID).Return(pending, nil)
	s.mockAccountRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(10)).
		Return(&domain.Account{ID: 10, Balance: decimal.NewFromInt(5)}, nil)
	s.mockAccountRepo.EXPECT().UpdateBalance(gomock.Any(), int64(10), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, balance decimal.Decimal) error {
			s.True(decimal.NewFromInt(55).Equal(balance))
			return nil
		})
	s.mockLedgerRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateLedgerEntry) (*domain.LedgerEntry, error) {
			s.Equal(domain.EntryReasonDeposit, args.Reason)
			s.Equal(pending.ID, args.Reference)
			return &domain.LedgerEntry{ID: 1}, nil
		})
	s.mockTxRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil)
	s.mockNotifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e domain.Event) {
			s.Equal(domain.EventDepositPaid, e.Type)
		})

	t, err := s.txService.CompleteDeposit(context.Background(), pending.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusCompleted, t.Status)

	// Повторная сверка: ни баланс, ни статус не обновляются, уведомления нет.
	s.expectDo()
	s.mockTxRepo.EXPECT().FindByIDForUpdate(gomock.Any(), pending.ID).Return(t, nil)

	t, err = s.txService.CompleteDeposit(context.Background(), pending.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransactionStatusCompleted, t.Status)
}

func (s *TransactionServiceTestSuite) TestRejectWithdrawStorageError() {
	withdraw := &domain.Transaction{
		ID:        "WTH20250101000000-ABCDEF",
		AccountID: 10,
		Amount:    decimal.NewFromInt(-20),
		Kind:      domain.TransactionKindWithdraw,
		Status:    domain.TransactionStatusPending,
		Withdraw:  &domain.WithdrawDetails{Network: domain.NetworkTRC20},
	}
	storageErr := errors.New("disk full")

	s.expectDo()
	s.mockTxRepo.EXPECT().FindByIDForUpdate(gomock.Any(), withdraw.ID).Return(withdraw, nil)
	s.mockAccountRepo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(10)).
		Return(&domain.Account{ID: 10, Balance: decimal.Zero}, nil)
	s.mockAccountRepo.EXPECT().UpdateBalance(gomock.Any(), int64(10), gomock.Any()).Return(storageErr)

	_, err := s.txService.RejectWithdraw(context.Background(), withdraw.ID, testAdminID)
	s.ErrorIs(err, storageErr)
}

func (s *TransactionServiceTestSuite) TestGetHidesForeignTransactions() {
	t := &domain.Transaction{ID: "DEP1", AccountID: 10}
	s.mockTxRepo.EXPECT().FindByID(gomock.Any(), "DEP1").Return(t, nil).Times(3)

	_, err := s.txService.Get(context.Background(), "DEP1", 11)
	s.ErrorIs(err, domain.ErrUnknownTransaction)

	got, err := s.txService.Get(context.Background(), "DEP1", 10)
	s.Require().NoError(err)
	s.Equal(t, got)

	_, err = s.txService.Get(context.Background(), "DEP1", testAdminID)
	s.Require().NoError(err)

	s.mockTxRepo.EXPECT().FindByID(gomock.Any(), "DEP2").Return(nil, domain.ErrRecordNotFound)
	_, err = s.txService.Get(context.Background(), "DEP2", 10)
	s.ErrorIs(err, domain.ErrUnknownTransaction)
}
