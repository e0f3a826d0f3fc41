package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/interfaces"
	"ledger-backend/internal/models"
	"ledger-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var statementHeader = []string{
	"date", "contract", "item", "spec", "qty", "unit_price",
	"debit", "credit", "running_balance", "doc_type",
}

// ExportService renders customer statements for download and archiving.
type ExportService struct {
	Ledger   *LedgerService
	Archiver interfaces.Archiver
	Now      func() time.Time
}

func NewExportService(ledgerService *LedgerService, archiver interfaces.Archiver) *ExportService {
	return &ExportService{Ledger: ledgerService, Archiver: archiver, Now: timeutil.Now}
}

// WriteStatementCSV writes one row per statement line in display order with
// numbers fixed to two decimals.
func WriteStatementCSV(w io.Writer, lines []models.StatementLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(statementHeader); err != nil {
		return err
	}
	for _, l := range lines {
		e := l.Entry
		if err := cw.Write([]string{
			timeutil.FormatDate(e.DocDate),
			e.ContractNo,
			e.ItemDesc,
			e.SpecColor,
			e.Qty.StringFixed(2),
			e.UnitPrice.StringFixed(2),
			e.DebitAmt.StringFixed(2),
			e.CreditAmt.StringFixed(2),
			l.RunningBalance.StringFixed(2),
			string(e.DocType),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *ExportService) StatementCSV(ctx context.Context, customer string) ([]byte, error) {
	lines, err := s.Ledger.GetStatement(ctx, customer)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteStatementCSV(&buf, lines); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StatementPDF renders the statement as an A4 landscape table.
func (s *ExportService) StatementPDF(ctx context.Context, customer string) ([]byte, error) {
	lines, err := s.Ledger.GetStatement(ctx, customer)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, tr("Customer Statement - "+customer), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", s.Now().Format(timeutil.DateTimeLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{24, 28, 50, 28, 20, 24, 24, 24, 30, 25}
	titles := []string{"Date", "Contract", "Item", "Spec", "Qty", "Unit Price", "Debit", "Credit", "Balance", "Type"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for i, title := range titles {
		ln := 0
		if i == len(titles)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, title, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		e := l.Entry
		totalDebit = totalDebit.Add(e.DebitAmt)
		totalCredit = totalCredit.Add(e.CreditAmt)

		cells := []string{
			timeutil.FormatDate(e.DocDate),
			tr(truncate(e.ContractNo, 14)),
			tr(truncate(e.ItemDesc, 28)),
			tr(truncate(e.SpecColor, 14)),
			e.Qty.StringFixed(2),
			e.UnitPrice.StringFixed(2),
			e.DebitAmt.StringFixed(2),
			e.CreditAmt.StringFixed(2),
			l.RunningBalance.StringFixed(2),
			string(e.DocType),
		}
		for i, c := range cells {
			align := "L"
			if i >= 4 && i <= 8 {
				align = "R"
			}
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(widths[i], 6, c, "1", ln, align, false, 0, "")
		}
	}

	// Totals - highlight if outstanding
	net := totalDebit.Sub(totalCredit)
	pdf.Ln(4)
	if net.IsPositive() {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(92, 9, "Total receivable: "+totalDebit.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(92, 9, "Total received: "+totalCredit.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(93, 9, "Balance due: "+net.StringFixed(2), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArchiveStatement renders the statement and stores it under
// <customer>/<timestamp>-statement.<format>, returning the object location.
func (s *ExportService) ArchiveStatement(ctx context.Context, customer, format string) (string, error) {
	if s.Archiver == nil {
		return "", apperr.Unavailable("statement archiving is not configured")
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		format, contentType = FormatCSV, "text/csv"
		data, err = s.StatementCSV(ctx, customer)
	case FormatPDF:
		format, contentType = FormatPDF, "application/pdf"
		data, err = s.StatementPDF(ctx, customer)
	default:
		return "", apperr.Validation("format", "unsupported format %q", format)
	}
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s-statement.%s", objectSafe(customer), s.Now().Format("20060102T150405"), format)
	location, err := s.Archiver.Put(ctx, key, data, contentType)
	if err != nil {
		return "", apperr.Persistence("archive statement", err)
	}
	return location, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// objectSafe keeps a customer name usable as one object key segment.
func objectSafe(name string) string {
	name = strings.TrimSpace(name)
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}
