package ledger

import (
	"fmt"
	"time"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/models"

	"github.com/shopspring/decimal"
)

const auditTimeLayout = "2006-01-02 15:04:05"

// DeriveStatus recomputes the clearing status from the amounts.
// The receivable total is debit_amt and the paid amount is credit_amt, so
// lines that never owed anything (receipts, deductions) count as settled.
func DeriveStatus(e models.LedgerEntry) models.ClearingStatus {
	switch {
	case e.IsVoid:
		return models.ClearingReversed
	case e.CreditAmt.GreaterThanOrEqual(e.DebitAmt):
		return models.ClearingSettled
	case e.CreditAmt.IsPositive():
		return models.ClearingPartiallyCleared
	default:
		return models.ClearingUnsettled
	}
}

// Outstanding is what is still owed on a receivable line, never below zero.
func Outstanding(e models.LedgerEntry) decimal.Decimal {
	rest := e.DebitAmt.Sub(e.CreditAmt)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// StatusOf summarises an entry for clearing responses.
func StatusOf(e models.LedgerEntry) models.UpdatedStatus {
	return models.UpdatedStatus{
		EntryID:        e.ID,
		PaidAmount:     e.CreditAmt,
		TotalAmount:    e.DebitAmt,
		Outstanding:    Outstanding(e),
		ClearingStatus: DeriveStatus(e),
	}
}

// ValidatePaymentAmount rejects payments that are not positive once rounded
// to cents.
func ValidatePaymentAmount(amount decimal.Decimal) error {
	if !Round(amount).IsPositive() {
		return apperr.Validation("amount", "must be at least 0.01")
	}
	return nil
}

// ApplyPayment adds amount to the entry's paid side. The paid amount only
// ever grows; corrections go through a void.
func ApplyPayment(e *models.LedgerEntry, amount decimal.Decimal, operator string, at time.Time) error {
	if err := ValidatePaymentAmount(amount); err != nil {
		return err
	}
	if e.IsVoid {
		return apperr.Validation("entry_id", "entry %s is voided", e.ID)
	}
	if !e.DebitAmt.IsPositive() {
		return apperr.Validation("entry_id", "entry %s carries no receivable", e.ID)
	}

	amount = Round(amount)
	e.CreditAmt = e.CreditAmt.Add(amount)
	e.ClearingStatus = DeriveStatus(*e)
	e.AuditLog = append(e.AuditLog, AuditNote(at, "payment %s applied by %s, status %s",
		amount.StringFixed(2), operatorName(operator), e.ClearingStatus))
	return nil
}

// AllocateFIFO spreads a payment over receivable lines in statement order.
// Each line is paid up to its outstanding amount; whatever remains after
// every line is settled stays on the last open line. It returns the entries
// that received money.
func AllocateFIFO(entries []*models.LedgerEntry, amount decimal.Decimal, operator string, at time.Time) ([]*models.LedgerEntry, error) {
	if err := ValidatePaymentAmount(amount); err != nil {
		return nil, err
	}

	open := make([]*models.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsVoid && Outstanding(*e).IsPositive() {
			open = append(open, e)
		}
	}
	if len(open) == 0 {
		return nil, apperr.NotFound("open receivable", "contract")
	}

	ordered := make([]models.LedgerEntry, len(open))
	index := make(map[string]*models.LedgerEntry, len(open))
	for i, e := range open {
		ordered[i] = *e
		index[e.ID] = e
	}
	SortEntries(ordered)

	remaining := Round(amount)
	var touched []*models.LedgerEntry
	for i, o := range ordered {
		if !remaining.IsPositive() {
			break
		}
		target := index[o.ID]
		share := decimal.Min(remaining, Outstanding(*target))
		if i == len(ordered)-1 {
			share = remaining
		}
		if err := ApplyPayment(target, share, operator, at); err != nil {
			return nil, err
		}
		remaining = remaining.Sub(share)
		touched = append(touched, target)
	}
	return touched, nil
}

// AuditNote formats a timestamped audit line.
func AuditNote(at time.Time, format string, args ...any) string {
	return at.Format(auditTimeLayout) + " " + fmt.Sprintf(format, args...)
}

func operatorName(op string) string {
	if op == "" {
		return "system"
	}
	return op
}
