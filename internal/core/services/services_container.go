package services

import (
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/platform/analytics"
	"github.com/SscSPs/brokerdesk/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, events analytics.Publisher) *portssvc.ServiceContainer {
	engine := NewBalanceEngine(repos.AccountRepo, repos.LedgerRepo, repos.TxManager)

	return &portssvc.ServiceContainer{
		Auth:    NewAuthService(cfg, repos.AccountRepo, WithAuthEvents(events)),
		Account: NewAccountService(repos.AccountRepo, WithAccountEvents(events)),
		Transaction: NewTransactionService(
			engine,
			repos.AccountRepo,
			repos.LedgerRepo,
			repos.AdjustmentRepo,
			WithTransactionEvents(events),
		),
		Message: NewMessageService(repos.AccountRepo, repos.MessageRepo),
	}
}
