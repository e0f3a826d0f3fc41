package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocType is the business category of a submitted document
type DocType string

const (
	DocTypeSaleOutbound DocType = "sale_outbound" // Goods delivered to the customer
	DocTypePalletFee    DocType = "pallet_fee"    // Pallet handling fee charged to the customer
	DocTypeCrateFee     DocType = "crate_fee"     // Crate/container fee charged to the customer
	DocTypeBankReceipt  DocType = "bank_receipt"  // Money received from the customer
	DocTypeDeduction    DocType = "deduction"     // Agreed reduction of what the customer owes
)

// ClearingStatus is derived from an entry's amounts and void flag, never stored on its own.
type ClearingStatus string

const (
	ClearingUnsettled        ClearingStatus = "unsettled"
	ClearingPartiallyCleared ClearingStatus = "partially_cleared"
	ClearingSettled          ClearingStatus = "settled"
	ClearingReversed         ClearingStatus = "reversed"
)

// LedgerEntry represents a single document posted against a customer
type LedgerEntry struct {
	ID             string          `json:"id"`
	Seq            int64           `json:"seq"` // Creation order, breaks doc_date ties
	Salesman       string          `json:"salesman"`
	Customer       string          `json:"customer"`
	ContractNo     string          `json:"contract_no"`
	DocDate        time.Time       `json:"doc_date"`
	ItemDesc       string          `json:"item_desc"`
	SpecColor      string          `json:"spec_color"`
	Qty            decimal.Decimal `json:"qty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DebitAmt       decimal.Decimal `json:"debit_amt"`  // Increases what the customer owes
	CreditAmt      decimal.Decimal `json:"credit_amt"` // Decreases what the customer owes
	DocType        DocType         `json:"doc_type"`
	IsVoid         bool            `json:"is_void"`
	ClearingStatus ClearingStatus  `json:"clearing_status"`
	AuditLog       []string        `json:"audit_log"`
	CreatedBy      string          `json:"created_by"`
	CreateTime     time.Time       `json:"create_time"`
}

// Clone returns a deep copy so callers can't mutate shared audit slices.
func (e LedgerEntry) Clone() LedgerEntry {
	c := e
	if e.AuditLog != nil {
		c.AuditLog = append([]string(nil), e.AuditLog...)
	}
	return c
}

// SubmitDocumentRequest is the user-entered document before classification
type SubmitDocumentRequest struct {
	Salesman   string          `json:"salesman"`
	Customer   string          `json:"customer"`
	ContractNo string          `json:"contract_no"`
	DocDate    string          `json:"doc_date"` // YYYY-MM-DD
	ItemDesc   string          `json:"item_desc"`
	SpecColor  string          `json:"spec_color"`
	Qty        decimal.Decimal `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	DocType    DocType         `json:"doc_type"`
}

// ApplyPaymentRequest applies money to a single entry
type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ContractPaymentRequest applies money across a contract's open lines
type ContractPaymentRequest struct {
	Customer   string          `json:"customer"`
	ContractNo string          `json:"contract_no"`
	Amount     decimal.Decimal `json:"amount"`
}

// VoidEntryRequest carries the operator's reason for a red-ink reversal
type VoidEntryRequest struct {
	Reason string `json:"reason"`
}

// UpdatedStatus is the clearing outcome for one entry
type UpdatedStatus struct {
	EntryID        string          `json:"entry_id"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	ClearingStatus ClearingStatus  `json:"clearing_status"`
}

// StatementLine pairs an entry with the balance after it
type StatementLine struct {
	Entry          LedgerEntry     `json:"entry"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// CustomerBalance provides summary totals for one customer
type CustomerBalance struct {
	Customer    string          `json:"customer"`
	Salesman    string          `json:"salesman"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	NetBalance  decimal.Decimal `json:"net_balance"` // Debit - Credit
	EntryCount  int             `json:"entry_count"`
}

// Dashboard aggregates balances over a salesman scope or the whole ledger
type Dashboard struct {
	Scope                string            `json:"scope"`
	TotalDebit           decimal.Decimal   `json:"total_debit"`
	TotalCredit          decimal.Decimal   `json:"total_credit"`
	NetBalance           decimal.Decimal   `json:"net_balance"`
	PerCustomerBreakdown []CustomerBalance `json:"per_customer_breakdown"`
}

// LedgerFilter is used for filtering ledger entries
type LedgerFilter struct {
	Salesman    string `json:"salesman"`
	Customer    string `json:"customer"`
	ContractNo  string `json:"contract_no"`
	IncludeVoid bool   `json:"include_void"`
	OnlyVoid    bool   `json:"only_void"`
}
