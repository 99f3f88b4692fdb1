package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/garant/internal/config"
	"github.com/fsdevblog/garant/internal/repository/filerepo"
	"github.com/fsdevblog/garant/internal/repository/pgrepo"
	"github.com/fsdevblog/garant/internal/service"
	"github.com/fsdevblog/garant/internal/transport/api"
	"github.com/fsdevblog/garant/internal/transport/api/middlewares"
	"github.com/fsdevblog/garant/internal/transport/cryptopay"
	"github.com/fsdevblog/garant/internal/transport/cryptopay/client"
	"github.com/fsdevblog/garant/internal/transport/notify"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

// store хранилище с возможностью закрытия.
type store interface {
	uow.UOW
	io.Closer
}

// notifier service.Notifier, дожидающийся отправки уведомлений при остановке.
type notifier interface {
	service.Notifier
	Wait()
}

// Run запускает http сервер и сверку пополнений и блокируется до сигнала остановки.
//
// Порядок остановки: сервер перестает принимать запросы, затем дожидаемся текущего цикла сверки и
// отправки уведомлений, и только после этого закрывается хранилище.
func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"runAddress": a.Config.RunAddress,
		"postgres":   a.Config.DatabaseDSN != "",
		"dataFile":   a.Config.DataFile,
		"redis":      a.Config.RedisAddr != "",
		"webhook":    a.Config.NotifyWebhookURL != "",
	}).Info("Starting app")

	st, stErr := a.openStore(notifyCtx)
	if stErr != nil {
		return fmt.Errorf("app run: %w", stErr)
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.Logger.WithError(err).Error("close store")
		}
	}()

	gateway := client.New(a.Config.CryptoPayAPIURL, a.Config.CryptoPayAPIToken).
		SetAsset(a.Config.CryptoPayAsset).
		SetTimeout(a.Config.GatewayTimeout)

	n := a.newNotifier()
	defer n.Wait()

	services, sErr := service.Factory(service.FactoryArgs{
		UOW:      st,
		Gateway:  gateway,
		Notifier: n,
		Options: service.Options{
			AdminID:      a.Config.AdminID,
			MinDeposit:   a.Config.MinDeposit,
			MaxDeposit:   a.Config.MaxDeposit,
			MinWithdraw:  a.Config.MinWithdraw,
			MinDealTerms: a.Config.MinDealTerms,
		},
		Logger: a.Logger,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %w", sErr)
	}

	idempotencyStore, closeRedis := a.newIdempotencyStore()
	defer closeRedis()

	router, rErr := api.New(api.RouterArgs{
		Logger:             a.Logger,
		AccountService:     services.AccountService,
		TransactionService: services.TransactionService,
		DealService:        services.DealService,
		AdminService:       services.AdminService,
		JWTSecretKey:       []byte(a.Config.JWTSecret),
		FrontendKey:        a.Config.FrontendAPIKey,
		AdminID:            a.Config.AdminID,
		DepositTimeout:     a.Config.GatewayTimeout + api.DefaultServiceTimeout,
		IdempotencyStore:   idempotencyStore,
	})
	if rErr != nil {
		return fmt.Errorf("app run: %w", rErr)
	}

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	processor := cryptopay.New(services.TransactionService, gateway, a.Logger).
		SetInterval(a.Config.ReconcileInterval).
		SetWorkers(a.Config.ReconcileWorkers).
		SetLimitPerIteration(a.Config.ReconcileLimit)

	g, gCtx := errgroup.WithContext(notifyCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return processor.Run(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.Logger.Info("shutting down http server")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("app run: %w", err)
	}
	return notifyCtx.Err() //nolint:wrapcheck
}

// openStore выбирает хранилище: postgres, если задан DSN, иначе json файл.
func (a *App) openStore(ctx context.Context) (store, error) {
	if a.Config.DatabaseDSN == "" {
		st, err := filerepo.Open(a.Config.DataFile, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("open data file: %w", err)
		}
		return st, nil
	}

	conn, connErr := pgrepo.Connect(ctx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return nil, connErr //nolint:wrapcheck
	}
	unitOfWork, uowErr := pgrepo.NewUnitOfWork(conn)
	if uowErr != nil {
		conn.Close()
		return nil, uowErr //nolint:wrapcheck
	}
	return unitOfWork, nil
}

func (a *App) newNotifier() notifier {
	if a.Config.NotifyWebhookURL != "" {
		return notify.NewWebhook(a.Config.NotifyWebhookURL, a.Logger)
	}
	return notify.NewLogger(a.Logger)
}

// newIdempotencyStore подключает redis, если он настроен. Без redis идемпотентность выключена.
func (a *App) newIdempotencyStore() (middlewares.IdempotencyStore, func()) {
	if a.Config.RedisAddr == "" {
		return nil, func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})
	return middlewares.NewRedisIdempotencyStore(rdb), func() {
		if err := rdb.Close(); err != nil {
			a.Logger.WithError(err).Error("close redis")
		}
	}
}
