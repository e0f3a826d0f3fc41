package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicEntryPosted    = "ledger.entry_posted"
	TopicPaymentApplied = "ledger.payment_applied"
	TopicEntryVoided    = "ledger.entry_voided"
)

type EntryPosted struct {
	EntryID    string          `json:"entry_id"`
	Salesman   string          `json:"salesman"`
	Customer   string          `json:"customer"`
	ContractNo string          `json:"contract_no"`
	DocType    string          `json:"doc_type"`
	DocDate    string          `json:"doc_date"`
	DebitAmt   decimal.Decimal `json:"debit_amt"`
	CreditAmt  decimal.Decimal `json:"credit_amt"`
	CreatedBy  string          `json:"created_by"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type PaymentApplied struct {
	EntryID        string          `json:"entry_id"`
	Customer       string          `json:"customer"`
	ContractNo     string          `json:"contract_no"`
	Amount         decimal.Decimal `json:"amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	ClearingStatus string          `json:"clearing_status"`
	Operator       string          `json:"operator"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

type EntryVoided struct {
	EntryID    string    `json:"entry_id"`
	Customer   string    `json:"customer"`
	Reason     string    `json:"reason"`
	Operator   string    `json:"operator"`
	OccurredAt time.Time `json:"occurred_at"`
}
