package ledger

import (
	"strings"
	"time"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/models"
)

// Void flips the entry's red-ink flag. The row keeps its amounts for audit;
// balances and clearing skip it from now on.
func Void(e *models.LedgerEntry, reason, operator string, at time.Time) error {
	if e.IsVoid {
		return apperr.Conflict("entry %s is already voided", e.ID)
	}
	e.IsVoid = true
	e.ClearingStatus = DeriveStatus(*e)

	note := AuditNote(at, "voided by %s", operatorName(operator))
	if r := strings.TrimSpace(reason); r != "" {
		note += ": " + r
	}
	e.AuditLog = append(e.AuditLog, note)
	return nil
}
