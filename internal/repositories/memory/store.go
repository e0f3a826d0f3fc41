package memory

import (
	"context"
	"sort"
	"sync"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/interfaces"
	"ledger-backend/internal/ledger"
	"ledger-backend/internal/models"
)

// Store is an in-memory implementation of interfaces.Store.
// One RWMutex guards all three tables, so every read sees a consistent
// snapshot and every mutation is linearizable.
type Store struct {
	mu        sync.RWMutex
	salesmen  map[string]models.Salesman
	customers map[string]models.Customer
	entries   map[string]*models.LedgerEntry
	order     []string // entry ids in insertion order
	seq       int64
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		salesmen:  make(map[string]models.Salesman),
		customers: make(map[string]models.Customer),
		entries:   make(map[string]*models.LedgerEntry),
	}
}

func (m *Store) CreateSalesman(ctx context.Context, s *models.Salesman) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.salesmen[s.Name]; ok {
		*s = existing
		return false, nil
	}
	m.salesmen[s.Name] = *s
	return true, nil
}

func (m *Store) GetSalesman(ctx context.Context, name string) (*models.Salesman, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.salesmen[name]
	if !ok {
		return nil, apperr.NotFound("salesman", name)
	}
	return &s, nil
}

func (m *Store) ListSalesmen(ctx context.Context) ([]models.Salesman, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Salesman, 0, len(m.salesmen))
	for _, s := range m.salesmen {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Store) CreateCustomer(ctx context.Context, c *models.Customer) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.salesmen[c.Salesman]; !ok {
		return false, apperr.NotFound("salesman", c.Salesman)
	}
	if existing, ok := m.customers[c.Name]; ok {
		*c = existing
		return false, nil
	}
	m.customers[c.Name] = *c
	return true, nil
}

func (m *Store) GetCustomer(ctx context.Context, name string) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[name]
	if !ok {
		return nil, apperr.NotFound("customer", name)
	}
	return &c, nil
}

func (m *Store) ListCustomers(ctx context.Context, salesman string) ([]models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Customer, 0)
	for _, c := range m.customers {
		if salesman == "" || c.Salesman == salesman {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Store) Insert(ctx context.Context, entry *models.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.ID]; ok {
		return apperr.Conflict("entry %s already exists", entry.ID)
	}
	c, ok := m.customers[entry.Customer]
	if !ok {
		return apperr.NotFound("customer", entry.Customer)
	}
	if c.Salesman != entry.Salesman {
		return apperr.Validation("customer", "%s is not owned by salesman %s", entry.Customer, entry.Salesman)
	}

	m.seq++
	entry.Seq = m.seq
	stored := entry.Clone()
	m.entries[entry.ID] = &stored
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *Store) Get(ctx context.Context, id string) (*models.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, apperr.NotFound("entry", id)
	}
	c := e.Clone()
	return &c, nil
}

func (m *Store) List(ctx context.Context, filter models.LedgerFilter) ([]models.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.LedgerEntry, 0)
	for _, id := range m.order {
		e := m.entries[id]
		if matches(e, filter) {
			result = append(result, e.Clone())
		}
	}
	ledger.SortEntries(result)
	return result, nil
}

func (m *Store) Update(ctx context.Context, id string, fn func(*models.LedgerEntry) error) (*models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, apperr.NotFound("entry", id)
	}

	// work on a copy so a failing fn leaves the row untouched
	working := e.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}
	m.entries[id] = &working

	result := working.Clone()
	return &result, nil
}

func (m *Store) UpdateContract(ctx context.Context, customer, contractNo string, fn func([]*models.LedgerEntry) ([]*models.LedgerEntry, error)) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var working []*models.LedgerEntry
	for _, id := range m.order {
		e := m.entries[id]
		if e.Customer == customer && e.ContractNo == contractNo {
			c := e.Clone()
			working = append(working, &c)
		}
	}
	if len(working) == 0 {
		return nil, apperr.NotFound("contract", contractNo)
	}

	changed, err := fn(working)
	if err != nil {
		return nil, err
	}

	result := make([]models.LedgerEntry, 0, len(changed))
	for _, e := range changed {
		stored := e.Clone()
		m.entries[e.ID] = &stored
		result = append(result, e.Clone())
	}
	return result, nil
}

func matches(e *models.LedgerEntry, f models.LedgerFilter) bool {
	if f.Salesman != "" && e.Salesman != f.Salesman {
		return false
	}
	if f.Customer != "" && e.Customer != f.Customer {
		return false
	}
	if f.ContractNo != "" && e.ContractNo != f.ContractNo {
		return false
	}
	if f.OnlyVoid {
		return e.IsVoid
	}
	return f.IncludeVoid || !e.IsVoid
}

// Compile-time check: ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)
