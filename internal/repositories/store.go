package repositories

import (
	"ledger-backend/internal/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the PostgreSQL repositories behind interfaces.Store.
type Store struct {
	*SalesmanRepository
	*CustomerRepository
	*LedgerRepository
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		SalesmanRepository: NewSalesmanRepository(db),
		CustomerRepository: NewCustomerRepository(db),
		LedgerRepository:   NewLedgerRepository(db),
	}
}

var _ interfaces.Store = (*Store)(nil)
