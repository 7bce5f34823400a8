package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
)

// BaseRepository provides common functionality for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// RepositoryProvider bundles the concrete repositories handed to service
// construction.
type RepositoryProvider struct {
	Account     portsrepo.AccountRepositoryFacade
	Transaction portsrepo.TransactionRepositoryFacade
	Fare        portsrepo.FareRepositoryFacade
}

// NewRepositoryProvider creates all pgsql repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *RepositoryProvider {
	return &RepositoryProvider{
		Account:     newPgxAccountRepository(pool),
		Transaction: newPgxTransactionRepository(pool),
		Fare:        newPgxFareRepository(pool),
	}
}
