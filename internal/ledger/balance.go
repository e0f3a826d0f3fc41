package ledger

import (
	"sort"

	"ledger-backend/internal/models"

	"github.com/shopspring/decimal"
)

// SortEntries orders entries by doc_date, then creation sequence.
// The sort is stable so equal keys keep their input order.
func SortEntries(entries []models.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.DocDate.Equal(b.DocDate) {
			return a.DocDate.Before(b.DocDate)
		}
		return a.Seq < b.Seq
	})
}

// RunningBalance computes the statement for one scope. Void entries are
// skipped; the input slice is not modified.
func RunningBalance(entries []models.LedgerEntry) []models.StatementLine {
	live := make([]models.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsVoid {
			live = append(live, e)
		}
	}
	SortEntries(live)

	lines := make([]models.StatementLine, 0, len(live))
	balance := decimal.Zero
	for _, e := range live {
		balance = balance.Add(e.DebitAmt).Sub(e.CreditAmt)
		lines = append(lines, models.StatementLine{Entry: e, RunningBalance: balance})
	}
	return lines
}

// FinalBalance is the balance after the last non-void entry.
func FinalBalance(entries []models.LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.IsVoid {
			continue
		}
		total = total.Add(e.DebitAmt).Sub(e.CreditAmt)
	}
	return total
}

// Aggregate reduces entries to per-customer totals plus grand totals.
// Customers are listed by name; void entries contribute nothing.
func Aggregate(scope string, entries []models.LedgerEntry) models.Dashboard {
	byCustomer := make(map[string]*models.CustomerBalance)
	for _, e := range entries {
		if e.IsVoid {
			continue
		}
		cb, ok := byCustomer[e.Customer]
		if !ok {
			cb = &models.CustomerBalance{
				Customer:    e.Customer,
				Salesman:    e.Salesman,
				TotalDebit:  decimal.Zero,
				TotalCredit: decimal.Zero,
			}
			byCustomer[e.Customer] = cb
		}
		cb.TotalDebit = cb.TotalDebit.Add(e.DebitAmt)
		cb.TotalCredit = cb.TotalCredit.Add(e.CreditAmt)
		cb.EntryCount++
	}

	d := models.Dashboard{
		Scope:                scope,
		TotalDebit:           decimal.Zero,
		TotalCredit:          decimal.Zero,
		NetBalance:           decimal.Zero,
		PerCustomerBreakdown: make([]models.CustomerBalance, 0, len(byCustomer)),
	}
	for _, cb := range byCustomer {
		cb.NetBalance = cb.TotalDebit.Sub(cb.TotalCredit)
		d.TotalDebit = d.TotalDebit.Add(cb.TotalDebit)
		d.TotalCredit = d.TotalCredit.Add(cb.TotalCredit)
		d.PerCustomerBreakdown = append(d.PerCustomerBreakdown, *cb)
	}
	d.NetBalance = d.TotalDebit.Sub(d.TotalCredit)

	sort.Slice(d.PerCustomerBreakdown, func(i, j int) bool {
		return d.PerCustomerBreakdown[i].Customer < d.PerCustomerBreakdown[j].Customer
	})
	return d
}
