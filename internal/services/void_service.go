package services

import (
	"context"
	"log"
	"strings"
	"time"

	"ledger-backend/internal/auth"
	"ledger-backend/internal/interfaces"
	"ledger-backend/internal/ledger"
	"ledger-backend/internal/metrics"
	"ledger-backend/internal/models"
	"ledger-backend/internal/models/events"
	"ledger-backend/internal/timeutil"
)

// VoidService reverses entries in red ink. The row stays in the ledger
// with is_void set and a note in its audit log.
type VoidService struct {
	Store  interfaces.LedgerStore
	Events interfaces.EventPublisher
	Now    func() time.Time

	locks *KeyedLocks
}

func NewVoidService(store interfaces.LedgerStore, pub interfaces.EventPublisher, locks *KeyedLocks) *VoidService {
	if locks == nil {
		locks = NewKeyedLocks()
	}
	return &VoidService{Store: store, Events: pub, Now: timeutil.Now, locks: locks}
}

func (s *VoidService) VoidEntry(ctx context.Context, entryID, reason string) (*models.LedgerEntry, error) {
	entryID = strings.TrimSpace(entryID)
	current, err := s.Store.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}

	operator := auth.OperatorFrom(ctx)
	now := s.Now()

	unlock := s.locks.Lock(current.Customer)
	updated, err := s.Store.Update(ctx, entryID, func(e *models.LedgerEntry) error {
		return ledger.Void(e, reason, operator, now)
	})
	unlock()
	if err != nil {
		return nil, err
	}

	metrics.VoidsTotal.Inc()
	log.Printf("[Void] %s for %s reversed by %q", updated.ID, updated.Customer, operator)

	publish(ctx, s.Events, events.TopicEntryVoided, updated.Customer, events.EntryVoided{
		EntryID:    updated.ID,
		Customer:   updated.Customer,
		Reason:     strings.TrimSpace(reason),
		Operator:   operator,
		OccurredAt: now,
	})
	return updated, nil
}
