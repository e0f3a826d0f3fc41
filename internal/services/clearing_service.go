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

	"github.com/shopspring/decimal"
)

// ClearingService applies incoming money against receivable entries.
type ClearingService struct {
	Store  interfaces.LedgerStore
	Events interfaces.EventPublisher
	Now    func() time.Time

	locks *KeyedLocks
}

func NewClearingService(store interfaces.LedgerStore, pub interfaces.EventPublisher, locks *KeyedLocks) *ClearingService {
	if locks == nil {
		locks = NewKeyedLocks()
	}
	return &ClearingService{Store: store, Events: pub, Now: timeutil.Now, locks: locks}
}

// ApplyPayment adds amount to one entry's paid side in a single atomic
// read-modify-write.
func (s *ClearingService) ApplyPayment(ctx context.Context, entryID string, amount decimal.Decimal) (*models.UpdatedStatus, error) {
	if err := ledger.ValidatePaymentAmount(amount); err != nil {
		return nil, err
	}
	entryID = strings.TrimSpace(entryID)

	// the customer never changes, so it is safe to learn it before locking
	current, err := s.Store.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}

	operator := auth.OperatorFrom(ctx)
	now := s.Now()

	unlock := s.locks.Lock(current.Customer)
	updated, err := s.Store.Update(ctx, entryID, func(e *models.LedgerEntry) error {
		return ledger.ApplyPayment(e, amount, operator, now)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	applied := ledger.Round(amount)
	s.recordPayment(ctx, updated, applied, operator, now)
	status := ledger.StatusOf(*updated)
	return &status, nil
}

// ApplyPaymentToContract spreads amount over a contract's open receivable
// lines, oldest first, in one transaction.
func (s *ClearingService) ApplyPaymentToContract(ctx context.Context, req models.ContractPaymentRequest) ([]models.UpdatedStatus, error) {
	if err := ledger.ValidatePaymentAmount(req.Amount); err != nil {
		return nil, err
	}
	customer := strings.TrimSpace(req.Customer)
	contractNo := strings.TrimSpace(req.ContractNo)
	if customer == "" {
		return nil, apperr.Validation("customer", "customer is required")
	}

	operator := auth.OperatorFrom(ctx)
	now := s.Now()
	before := make(map[string]decimal.Decimal)

	unlock := s.locks.Lock(customer)
	touched, err := s.Store.UpdateContract(ctx, customer, contractNo, func(entries []*models.LedgerEntry) ([]*models.LedgerEntry, error) {
		for _, e := range entries {
			before[e.ID] = e.CreditAmt
		}
		return ledger.AllocateFIFO(entries, req.Amount, operator, now)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	result := make([]models.UpdatedStatus, 0, len(touched))
	for i := range touched {
		e := touched[i]
		s.recordPayment(ctx, &e, e.CreditAmt.Sub(before[e.ID]), operator, now)
		result = append(result, ledger.StatusOf(e))
	}
	return result, nil
}

func (s *ClearingService) recordPayment(ctx context.Context, e *models.LedgerEntry, amount decimal.Decimal, operator string, at time.Time) {
	metrics.PaymentsAppliedTotal.Inc()
	metrics.PaymentAmountTotal.Add(amount.InexactFloat64())

	status := ledger.DeriveStatus(*e)
	log.Printf("[Clearing] %s applied to %s (%s), status %s", amount.StringFixed(2), e.ID, e.Customer, status)

	publish(ctx, s.Events, events.TopicPaymentApplied, e.Customer, events.PaymentApplied{
		EntryID:        e.ID,
		Customer:       e.Customer,
		ContractNo:     e.ContractNo,
		Amount:         amount,
		PaidAmount:     e.CreditAmt,
		ClearingStatus: string(status),
		Operator:       operator,
		OccurredAt:     at,
	})
}
