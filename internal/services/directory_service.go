package services

import (
	"context"
	"log"
	"strings"
	"time"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/interfaces"
	"ledger-backend/internal/models"

	"github.com/google/uuid"
)

// DirectoryService maintains the salesman -> customer hierarchy. Names are
// the identity: creating an existing name is a no-op that returns the
// stored record.
type DirectoryService struct {
	Salesmen  interfaces.SalesmanStore
	Customers interfaces.CustomerStore
	Now       func() time.Time
}

func NewDirectoryService(salesmen interfaces.SalesmanStore, customers interfaces.CustomerStore) *DirectoryService {
	return &DirectoryService{Salesmen: salesmen, Customers: customers, Now: time.Now}
}

func (s *DirectoryService) CreateSalesman(ctx context.Context, name string) (*models.Salesman, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, apperr.Validation("name", "salesman name is required")
	}
	if strings.EqualFold(name, models.AllSalesmen) {
		return nil, false, apperr.Validation("name", "%q is reserved for the all-salesmen scope", name)
	}

	salesman := &models.Salesman{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.Now(),
	}
	created, err := s.Salesmen.CreateSalesman(ctx, salesman)
	if err != nil {
		return nil, false, err
	}
	if created {
		log.Printf("[Directory] Salesman %q created", name)
	}
	return salesman, created, nil
}

func (s *DirectoryService) ListSalesmen(ctx context.Context) ([]models.Salesman, error) {
	return s.Salesmen.ListSalesmen(ctx)
}

// CreateCustomer registers a customer under an existing salesman. A customer
// that already exists keeps its original owner.
func (s *DirectoryService) CreateCustomer(ctx context.Context, name, salesmanName string) (*models.Customer, bool, error) {
	name = strings.TrimSpace(name)
	salesmanName = strings.TrimSpace(salesmanName)
	if name == "" {
		return nil, false, apperr.Validation("name", "customer name is required")
	}
	if salesmanName == "" {
		return nil, false, apperr.Validation("salesman", "salesman is required")
	}

	customer := &models.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Salesman:  salesmanName,
		CreatedAt: s.Now(),
	}
	created, err := s.Customers.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, false, err
	}
	if created {
		log.Printf("[Directory] Customer %q created under %q", name, salesmanName)
	}
	return customer, created, nil
}

// ListCustomers returns customers ordered by name. An empty filter or ALL
// lists every customer; an unknown salesman yields an empty list.
func (s *DirectoryService) ListCustomers(ctx context.Context, salesman string) ([]models.Customer, error) {
	return s.Customers.ListCustomers(ctx, normalizeScope(salesman))
}

// normalizeScope maps the ALL sentinel onto the stores' "no filter" value.
func normalizeScope(salesman string) string {
	salesman = strings.TrimSpace(salesman)
	if strings.EqualFold(salesman, models.AllSalesmen) {
		return ""
	}
	return salesman
}
