package cryptopay

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/fsdevblog/garant/internal/repository/filerepo"
	"github.com/fsdevblog/garant/internal/service"
	svcmocks "github.com/fsdevblog/garant/internal/service/mocks"
	"github.com/fsdevblog/garant/internal/transport/cryptopay/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReconcile_AbandonedInvoicesDoNotHideNewer на файловом хранилище: неоплаченные старые счета
// занимают всю первую страницу, а оплаченный новый счет все равно зачисляется в том же цикле.
func TestReconcile_AbandonedInvoicesDoNotHideNewer(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	l := logrus.New()
	l.SetOutput(io.Discard)

	store, err := filerepo.Open(filepath.Join(t.TempDir(), "garant.json"), l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	gateway := svcmocks.NewMockGateway(ctrl)
	notifier := svcmocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).AnyTimes()

	services, err := service.Factory(service.FactoryArgs{
		UOW:      store,
		Gateway:  gateway,
		Notifier: notifier,
		Options:  service.DefaultOptions(1000),
		Logger:   l,
	})
	require.NoError(t, err)

	_, err = services.AccountService.Ensure(ctx, service.EnsureAccountArgs{ID: 1, Username: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		gateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any(), int64(1)).
			Return(&domain.Invoice{ID: strconv.Itoa(i)}, nil)
		_, err = services.TransactionService.CreateDeposit(ctx, 1, decimal.NewFromInt(10))
		require.NoError(t, err)
	}

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().GetInvoiceStatus(gomock.Any(), "1").Return(domain.InvoiceStatusActive, nil).AnyTimes()
	client.EXPECT().GetInvoiceStatus(gomock.Any(), "2").Return(domain.InvoiceStatusActive, nil).AnyTimes()
	client.EXPECT().GetInvoiceStatus(gomock.Any(), "3").Return(domain.InvoiceStatusPaid, nil).Times(1)

	processor := New(services.TransactionService, client, l).SetLimitPerIteration(2).SetWorkers(1)
	require.NoError(t, processor.process(ctx))

	acc, err := services.AccountService.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(acc.Balance), "balance %s", acc.Balance)

	pending, err := services.TransactionService.PendingDeposits(ctx, domain.Cursor{}, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "1", pending[0].Deposit.InvoiceID)
	assert.Equal(t, "2", pending[1].Deposit.InvoiceID)

	// следующий цикл снова проходит все страницы, оплаченный счет больше не запрашивается.
	require.NoError(t, processor.process(ctx))
}
