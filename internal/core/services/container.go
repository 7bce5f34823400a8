package services

import (
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service over the given repositories.
func NewServiceContainer(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	fareRepo portsrepo.FareRepositoryFacade,
	notifier portssvc.Notifier,
	cfg PaymentConfig,
) *portssvc.ServiceContainer {
	ledger := NewLedgerService(accountRepo, txnRepo)
	return &portssvc.ServiceContainer{
		Account: NewAccountService(accountRepo),
		Ledger:  ledger,
		Payment: NewPaymentService(accountRepo, txnRepo, fareRepo, ledger, notifier, cfg),
		Fare:    NewFareService(fareRepo, cfg),
	}
}
