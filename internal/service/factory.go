package service

import (
	"fmt"

	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	AccountService     *AccountService
	TransactionService *TransactionService
	DealService        *DealService
	AdminService       *AdminService
}

type FactoryArgs struct {
	UOW      uow.UOW
	Gateway  Gateway
	Notifier Notifier
	Options  Options
	Logger   *logrus.Logger
}

func Factory(args FactoryArgs) (*AppServices, error) {
	accountService, err := NewAccountService(args.UOW)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	transactionService, err := NewTransactionService(args.UOW, args.Gateway, args.Notifier, args.Options, args.Logger)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	dealService, err := NewDealService(args.UOW, args.Notifier, args.Options, args.Logger)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	adminService, err := NewAdminService(
		args.UOW, transactionService, dealService, args.Notifier, args.Options, args.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("service factory: %s", err.Error())
	}

	return &AppServices{
		AccountService:     accountService,
		TransactionService: transactionService,
		DealService:        dealService,
		AdminService:       adminService,
	}, nil
}
