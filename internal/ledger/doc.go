// Package ledger holds the accounting rules of the receivables ledger:
// document classification, running balances, clearing status and voids.
//
// Everything here is a pure function of its input. Storage, locking and
// audit timestamps are supplied by the services layer.
package ledger
