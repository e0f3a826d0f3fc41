package services

import (
	"context"
	"log"
	"strings"
	"time"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/auth"
	"ledger-backend/internal/interfaces"
	"ledger-backend/internal/ledger"
	"ledger-backend/internal/metrics"
	"ledger-backend/internal/models"
	"ledger-backend/internal/models/events"
	"ledger-backend/internal/timeutil"

	"github.com/google/uuid"
)

// LedgerService posts documents and answers balance queries.
type LedgerService struct {
	Store       interfaces.Store
	Events      interfaces.EventPublisher
	Idempotency interfaces.IdempotencyStore
	Now         func() time.Time

	locks *KeyedLocks
}

func NewLedgerService(store interfaces.Store, pub interfaces.EventPublisher, idem interfaces.IdempotencyStore, locks *KeyedLocks) *LedgerService {
	if locks == nil {
		locks = NewKeyedLocks()
	}
	return &LedgerService{
		Store:       store,
		Events:      pub,
		Idempotency: idem,
		Now:         timeutil.Now,
		locks:       locks,
	}
}

// SubmitDocument classifies a document and appends it to the ledger.
// When idempotencyKey is set, a repeated submission returns the entry the
// first one created and replayed is true.
func (s *LedgerService) SubmitDocument(ctx context.Context, req models.SubmitDocumentRequest, idempotencyKey string) (entry *models.LedgerEntry, replayed bool, err error) {
	docDate, err := timeutil.ParseDate(req.DocDate)
	if err != nil {
		return nil, false, apperr.Validation("doc_date", "%v", err)
	}
	built, err := ledger.BuildEntry(req, docDate)
	if err != nil {
		return nil, false, err
	}
	if built.Salesman == "" {
		return nil, false, apperr.Validation("salesman", "salesman is required")
	}
	if built.Customer == "" {
		return nil, false, apperr.Validation("customer", "customer is required")
	}

	customer, err := s.Store.GetCustomer(ctx, built.Customer)
	if err != nil {
		return nil, false, err
	}
	if customer.Salesman != built.Salesman {
		return nil, false, apperr.Validation("customer", "%s is not owned by salesman %s", built.Customer, built.Salesman)
	}

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && s.Idempotency != nil {
		existingID, claimed, err := s.Idempotency.Claim(ctx, key)
		if err != nil {
			return nil, false, apperr.Persistence("claim idempotency key", err)
		}
		if !claimed {
			if existingID == "" {
				return nil, false, apperr.Conflict("a request with Idempotency-Key %q is still in progress", key)
			}
			prior, err := s.Store.Get(ctx, existingID)
			return prior, true, err
		}
	}

	now := s.Now()
	built.ID = uuid.NewString()
	built.CreatedBy = auth.OperatorFrom(ctx)
	built.CreateTime = now
	built.AuditLog = []string{}

	unlock := s.locks.Lock(built.Customer)
	err = s.Store.Insert(ctx, &built)
	unlock()
	if err != nil {
		if key != "" && s.Idempotency != nil {
			if rerr := s.Idempotency.Release(ctx, key); rerr != nil {
				log.Printf("[Ledger] release idempotency key %q: %v", key, rerr)
			}
		}
		return nil, false, err
	}

	if key != "" && s.Idempotency != nil {
		s.completeIdempotency(ctx, key, built.ID)
	}

	metrics.DocumentsTotal.WithLabelValues(string(built.DocType)).Inc()
	log.Printf("[Ledger] %s %s posted for %s (debit %s, credit %s)",
		built.DocType, built.ID, built.Customer, built.DebitAmt.StringFixed(2), built.CreditAmt.StringFixed(2))

	publish(ctx, s.Events, events.TopicEntryPosted, built.Customer, events.EntryPosted{
		EntryID:    built.ID,
		Salesman:   built.Salesman,
		Customer:   built.Customer,
		ContractNo: built.ContractNo,
		DocType:    string(built.DocType),
		DocDate:    timeutil.FormatDate(built.DocDate),
		DebitAmt:   built.DebitAmt,
		CreditAmt:  built.CreditAmt,
		CreatedBy:  built.CreatedBy,
		OccurredAt: now,
	})

	return &built, false, nil
}

// completeIdempotency records the entry behind key. A key that cannot be
// completed is released so retries post again instead of hitting a pending
// claim until it expires.
func (s *LedgerService) completeIdempotency(ctx context.Context, key, entryID string) {
	err := s.Idempotency.Complete(ctx, key, entryID)
	if err != nil {
		err = s.Idempotency.Complete(ctx, key, entryID)
	}
	if err == nil {
		return
	}
	log.Printf("[Ledger] complete idempotency key %q for %s: %v, releasing it", key, entryID, err)
	if rerr := s.Idempotency.Release(ctx, key); rerr != nil {
		log.Printf("[Ledger] release idempotency key %q: %v", key, rerr)
	}
}

func (s *LedgerService) GetEntry(ctx context.Context, id string) (*models.LedgerEntry, error) {
	return s.Store.Get(ctx, strings.TrimSpace(id))
}

// GetStatement returns the customer's non-void entries in statement order
// with the running balance after each. A customer with no entries gets an
// empty statement.
func (s *LedgerService) GetStatement(ctx context.Context, customer string) ([]models.StatementLine, error) {
	customer = strings.TrimSpace(customer)
	if _, err := s.Store.GetCustomer(ctx, customer); err != nil {
		return nil, err
	}
	entries, err := s.Store.List(ctx, models.LedgerFilter{Customer: customer})
	if err != nil {
		return nil, err
	}
	return ledger.RunningBalance(entries), nil
}

// GetDashboard aggregates balances for one salesman or, with "" or ALL,
// for the whole ledger.
func (s *LedgerService) GetDashboard(ctx context.Context, salesman string) (models.Dashboard, error) {
	filter := normalizeScope(salesman)
	entries, err := s.Store.List(ctx, models.LedgerFilter{Salesman: filter})
	if err != nil {
		return models.Dashboard{}, err
	}
	scope := filter
	if scope == "" {
		scope = models.AllSalesmen
	}
	return ledger.Aggregate(scope, entries), nil
}

// ListVoided returns reversed entries with their audit notes, optionally
// for a single customer.
func (s *LedgerService) ListVoided(ctx context.Context, customer string) ([]models.LedgerEntry, error) {
	return s.Store.List(ctx, models.LedgerFilter{
		Customer: strings.TrimSpace(customer),
		OnlyVoid: true,
	})
}
