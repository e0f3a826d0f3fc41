package ledger

import (
	"testing"
	"time"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		docType   models.DocType
		qty       string
		unitPrice string
		debit     string
		credit    string
	}{
		{"sale uses qty times price", models.DocTypeSaleOutbound, "3", "10", "30", "0"},
		{"sale with no qty owes nothing", models.DocTypeSaleOutbound, "0", "10", "0", "0"},
		{"pallet fee per unit", models.DocTypePalletFee, "4", "2.5", "10", "0"},
		{"pallet fee lump sum", models.DocTypePalletFee, "0", "75", "75", "0"},
		{"crate fee lump sum", models.DocTypeCrateFee, "0", "12.345", "12.35", "0"},
		{"bank receipt ignores qty", models.DocTypeBankReceipt, "0", "500", "0", "500"},
		{"bank receipt with qty", models.DocTypeBankReceipt, "7", "500", "0", "500"},
		{"deduction", models.DocTypeDeduction, "0", "20", "0", "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit, credit, err := Classify(tt.docType, dec(tt.qty), dec(tt.unitPrice))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !debit.Equal(dec(tt.debit)) {
				t.Errorf("debit: got %s, want %s", debit, tt.debit)
			}
			if !credit.Equal(dec(tt.credit)) {
				t.Errorf("credit: got %s, want %s", credit, tt.credit)
			}
			if debit.IsPositive() && credit.IsPositive() {
				t.Error("classification produced both sides")
			}
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	tests := []struct {
		name    string
		docType models.DocType
		qty     string
		price   string
	}{
		{"unknown type", models.DocType("refund"), "1", "1"},
		{"negative qty", models.DocTypeSaleOutbound, "-1", "1"},
		{"negative price", models.DocTypeBankReceipt, "0", "-5"},
		{"qty beyond four places", models.DocTypeSaleOutbound, "1.00005", "10000"},
		{"price beyond four places", models.DocTypeDeduction, "0", "3.00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Classify(tt.docType, dec(tt.qty), dec(tt.price))
			if !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEveryDocTypeHasOneSide(t *testing.T) {
	for _, dt := range DocTypes() {
		s, ok := docTypeSides[dt]
		if !ok {
			t.Errorf("%s missing from classification table", dt)
			continue
		}
		if s != debitSide && s != creditSide {
			t.Errorf("%s has no side", dt)
		}
	}
	if len(DocTypes()) != len(docTypeSides) {
		t.Errorf("DocTypes lists %d types, table has %d", len(DocTypes()), len(docTypeSides))
	}
}

func TestParseDocType(t *testing.T) {
	dt, err := ParseDocType("  Bank_Receipt ")
	if err != nil || dt != models.DocTypeBankReceipt {
		t.Fatalf("expected bank_receipt, got %q err=%v", dt, err)
	}
	if _, err := ParseDocType(""); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for empty type, got %v", err)
	}
}

func TestBuildEntry(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e, err := BuildEntry(models.SubmitDocumentRequest{
		Salesman:   " A ",
		Customer:   "X",
		ContractNo: "WST-19493",
		ItemDesc:   "stool",
		SpecColor:  "black",
		Qty:        dec("3"),
		UnitPrice:  dec("10"),
		DocType:    "sale_outbound",
	}, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Salesman != "A" || e.Customer != "X" {
		t.Errorf("names not trimmed: %q %q", e.Salesman, e.Customer)
	}
	if !e.DebitAmt.Equal(dec("30")) || !e.CreditAmt.IsZero() {
		t.Errorf("got debit %s credit %s", e.DebitAmt, e.CreditAmt)
	}
	if e.ClearingStatus != models.ClearingUnsettled {
		t.Errorf("status: got %s", e.ClearingStatus)
	}
	if !e.DocDate.Equal(date) {
		t.Errorf("doc date: got %v", e.DocDate)
	}
}
