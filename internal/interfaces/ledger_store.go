package interfaces

import (
	"context"

	"ledger-backend/internal/models"
)

// SalesmanStore persists the salesman master table.
type SalesmanStore interface {
	// CreateSalesman inserts s unless the name exists; created reports which happened.
	CreateSalesman(ctx context.Context, s *models.Salesman) (created bool, err error)
	GetSalesman(ctx context.Context, name string) (*models.Salesman, error)
	ListSalesmen(ctx context.Context) ([]models.Salesman, error)
}

// CustomerStore persists customers and their owning salesman.
type CustomerStore interface {
	// CreateCustomer inserts c unless the name exists. A missing owner is a not-found error.
	CreateCustomer(ctx context.Context, c *models.Customer) (created bool, err error)
	GetCustomer(ctx context.Context, name string) (*models.Customer, error)
	// ListCustomers returns customers of salesman, or all when salesman is empty.
	ListCustomers(ctx context.Context, salesman string) ([]models.Customer, error)
}

// LedgerStore is the system of record for ledger entries. Rows are never deleted.
type LedgerStore interface {
	// Insert stores a new entry and assigns its creation sequence.
	Insert(ctx context.Context, entry *models.LedgerEntry) error
	Get(ctx context.Context, id string) (*models.LedgerEntry, error)
	// List returns matching entries ordered by doc_date, then sequence.
	List(ctx context.Context, filter models.LedgerFilter) ([]models.LedgerEntry, error)
	// Update runs fn on the locked row and persists the result atomically.
	// If fn fails nothing is written.
	Update(ctx context.Context, id string, fn func(*models.LedgerEntry) error) (*models.LedgerEntry, error)
	// UpdateContract locks every entry of a customer's contract, runs fn and
	// persists the entries fn returns.
	UpdateContract(ctx context.Context, customer, contractNo string, fn func([]*models.LedgerEntry) ([]*models.LedgerEntry, error)) ([]models.LedgerEntry, error)
}

// Store bundles the three tables behind one storage handle.
type Store interface {
	SalesmanStore
	CustomerStore
	LedgerStore
}
