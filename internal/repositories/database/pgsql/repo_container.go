package pgsql

import (
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    newPgxAccountRepository(dbPool),
		LedgerRepo:     newPgxLedgerRepository(dbPool),
		AdjustmentRepo: newPgxAdjustmentRepository(dbPool),
		MessageRepo:    newPgxMessageRepository(dbPool),
		TxManager:      &BaseRepository{Pool: dbPool},
	}
}
