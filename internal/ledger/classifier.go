package ledger

import (
	"strings"
	"time"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/models"

	"github.com/shopspring/decimal"
)

type side int

const (
	debitSide side = iota + 1
	creditSide
)

// docTypeSides is the closed classification table. A new document type
// goes on exactly one side.
var docTypeSides = map[models.DocType]side{
	models.DocTypeSaleOutbound: debitSide,
	models.DocTypePalletFee:    debitSide,
	models.DocTypeCrateFee:     debitSide,
	models.DocTypeBankReceipt:  creditSide,
	models.DocTypeDeduction:    creditSide,
}

// Fee types may be keyed in as a lump amount with no quantity.
var lumpSumWhenNoQty = map[models.DocType]bool{
	models.DocTypePalletFee: true,
	models.DocTypeCrateFee:  true,
}

// DocTypes returns the supported document types in display order.
func DocTypes() []models.DocType {
	return []models.DocType{
		models.DocTypeSaleOutbound,
		models.DocTypePalletFee,
		models.DocTypeCrateFee,
		models.DocTypeBankReceipt,
		models.DocTypeDeduction,
	}
}

// ParseDocType normalises user input into a known DocType.
func ParseDocType(s string) (models.DocType, error) {
	dt := models.DocType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := docTypeSides[dt]; !ok {
		return "", apperr.Validation("doc_type", "unknown document type %q", s)
	}
	return dt, nil
}

// IsDebit reports whether the document type raises what the customer owes.
func IsDebit(dt models.DocType) bool {
	return docTypeSides[dt] == debitSide
}

// Classify converts a document type and its quantity/price into the
// debit/credit pair. Exactly one side is non-zero (or both zero).
func Classify(dt models.DocType, qty, unitPrice decimal.Decimal) (debit, credit decimal.Decimal, err error) {
	s, ok := docTypeSides[dt]
	if !ok {
		return decimal.Zero, decimal.Zero, apperr.Validation("doc_type", "unknown document type %q", dt)
	}
	if qty.IsNegative() {
		return decimal.Zero, decimal.Zero, apperr.Validation("qty", "must not be negative")
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, decimal.Zero, apperr.Validation("unit_price", "must not be negative")
	}
	if !fitsScale(qty) {
		return decimal.Zero, decimal.Zero, apperr.Validation("qty", "at most %d decimal places", quantityScale)
	}
	if !fitsScale(unitPrice) {
		return decimal.Zero, decimal.Zero, apperr.Validation("unit_price", "at most %d decimal places", quantityScale)
	}

	switch s {
	case debitSide:
		amount := qty.Mul(unitPrice)
		if qty.IsZero() && lumpSumWhenNoQty[dt] {
			amount = unitPrice
		}
		return Round(amount), decimal.Zero, nil
	default:
		return decimal.Zero, Round(unitPrice), nil
	}
}

// quantityScale matches the NUMERIC(18,4) qty and unit_price columns.
const quantityScale = 4

func fitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(quantityScale))
}

// BuildEntry classifies a submitted document into an unsaved entry.
// Identity, sequence and creation time are assigned by the store.
func BuildEntry(req models.SubmitDocumentRequest, docDate time.Time) (models.LedgerEntry, error) {
	dt, err := ParseDocType(string(req.DocType))
	if err != nil {
		return models.LedgerEntry{}, err
	}
	debit, credit, err := Classify(dt, req.Qty, req.UnitPrice)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	e := models.LedgerEntry{
		Salesman:   strings.TrimSpace(req.Salesman),
		Customer:   strings.TrimSpace(req.Customer),
		ContractNo: strings.TrimSpace(req.ContractNo),
		DocDate:    docDate,
		ItemDesc:   strings.TrimSpace(req.ItemDesc),
		SpecColor:  strings.TrimSpace(req.SpecColor),
		Qty:        req.Qty,
		UnitPrice:  req.UnitPrice,
		DebitAmt:   debit,
		CreditAmt:  credit,
		DocType:    dt,
	}
	e.ClearingStatus = DeriveStatus(e)
	return e, nil
}

// Round fixes an amount to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
