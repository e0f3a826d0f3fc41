package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/archive"
	"ledger-backend/internal/auth"
	"ledger-backend/internal/cache"
	"ledger-backend/internal/events"
	"ledger-backend/internal/models"
	modelevents "ledger-backend/internal/models/events"
	"ledger-backend/internal/repositories/memory"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	events    *events.Recorder
	archive   *archive.Memory
	directory *DirectoryService
	ledger    *LedgerService
	clearing  *ClearingService
	voids     *VoidService
	exports   *ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	rec := &events.Recorder{}
	locks := NewKeyedLocks()
	clock := func() time.Time { return fixedNow }

	f := &fixture{
		store:     store,
		events:    rec,
		archive:   archive.NewMemory(),
		directory: NewDirectoryService(store, store),
		ledger:    NewLedgerService(store, rec, cache.NewMemoryIdempotency(), locks),
		clearing:  NewClearingService(store, rec, locks),
		voids:     NewVoidService(store, rec, locks),
	}
	f.directory.Now = clock
	f.ledger.Now = clock
	f.clearing.Now = clock
	f.voids.Now = clock
	f.exports = NewExportService(f.ledger, f.archive)
	f.exports.Now = clock
	return f
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seed creates salesman A with customer X
func (f *fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, _, err := f.directory.CreateSalesman(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.directory.CreateCustomer(ctx, "X", "A"); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) submit(t *testing.T, ctx context.Context, docType models.DocType, date, qty, price string) *models.LedgerEntry {
	t.Helper()
	e, _, err := f.ledger.SubmitDocument(ctx, models.SubmitDocumentRequest{
		Salesman:   "A",
		Customer:   "X",
		ContractNo: "C-1",
		DocDate:    date,
		Qty:        d(qty),
		UnitPrice:  d(price),
		DocType:    docType,
	}, "")
	if err != nil {
		t.Fatalf("SubmitDocument(%s %s): %v", docType, date, err)
	}
	return e
}

func runningBalances(lines []models.StatementLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.RunningBalance.StringFixed(2)
	}
	return out
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, _, err := f.directory.CreateSalesman(ctx, "   "); !apperr.IsValidation(err) {
		t.Errorf("blank salesman: err = %v, want validation", err)
	}
	if _, _, err := f.directory.CreateSalesman(ctx, "all"); !apperr.IsValidation(err) {
		t.Errorf("reserved salesman name: err = %v, want validation", err)
	}

	first, created, err := f.directory.CreateSalesman(ctx, " A ")
	if err != nil || !created || first.Name != "A" {
		t.Fatalf("CreateSalesman = (%+v, %v, %v)", first, created, err)
	}
	again, created, err := f.directory.CreateSalesman(ctx, "A")
	if err != nil || created || again.ID != first.ID {
		t.Errorf("duplicate salesman = (%+v, %v, %v), want existing record", again, created, err)
	}

	if _, _, err := f.directory.CreateCustomer(ctx, "X", "Nobody"); !apperr.IsNotFound(err) {
		t.Errorf("unknown salesman: err = %v, want not found", err)
	}
	if _, _, err := f.directory.CreateCustomer(ctx, "", "A"); !apperr.IsValidation(err) {
		t.Errorf("blank customer: err = %v, want validation", err)
	}

	f.directory.CreateSalesman(ctx, "B")
	f.directory.CreateCustomer(ctx, "Zeta", "A")
	f.directory.CreateCustomer(ctx, "Alpha", "A")
	f.directory.CreateCustomer(ctx, "Beta", "B")

	// duplicate name under another salesman keeps the original owner
	c, created, err := f.directory.CreateCustomer(ctx, "Alpha", "B")
	if err != nil || created || c.Salesman != "A" {
		t.Errorf("duplicate customer = (%+v, %v, %v)", c, created, err)
	}

	names := func(cs []models.Customer) string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return strings.Join(out, ",")
	}
	tests := []struct {
		filter string
		want   string
	}{
		{"A", "Alpha,Zeta"},
		{"B", "Beta"},
		{"ALL", "Alpha,Beta,Zeta"},
		{"", "Alpha,Beta,Zeta"},
		{"Unknown", ""},
	}
	for _, tt := range tests {
		got, err := f.directory.ListCustomers(ctx, tt.filter)
		if err != nil {
			t.Fatal(err)
		}
		if names(got) != tt.want {
			t.Errorf("ListCustomers(%q) = %q, want %q", tt.filter, names(got), tt.want)
		}
	}

	salesmen, _ := f.directory.ListSalesmen(ctx)
	if len(salesmen) != 2 || salesmen[0].Name != "A" || salesmen[1].Name != "B" {
		t.Errorf("ListSalesmen = %+v", salesmen)
	}
}

func TestStatementScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	// submitted out of date order on purpose
	f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-10", "1", "20")
	f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "1", "100")
	f.submit(t, ctx, models.DocTypeBankReceipt, "2024-01-05", "0", "40")

	lines, err := f.ledger.GetStatement(ctx, "X")
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(runningBalances(lines), ",")
	if got != "100.00,60.00,80.00" {
		t.Errorf("running balances = %s, want 100.00,60.00,80.00", got)
	}
}

func TestSubmitDocumentClassifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	sale := f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "3", "10")
	if !sale.DebitAmt.Equal(d("30")) || !sale.CreditAmt.IsZero() {
		t.Errorf("sale = debit %s credit %s, want 30/0", sale.DebitAmt, sale.CreditAmt)
	}
	receipt := f.submit(t, ctx, models.DocTypeBankReceipt, "2024-01-02", "0", "500")
	if !receipt.DebitAmt.IsZero() || !receipt.CreditAmt.Equal(d("500")) {
		t.Errorf("receipt = debit %s credit %s, want 0/500", receipt.DebitAmt, receipt.CreditAmt)
	}
	if sale.ID == "" || sale.ID == receipt.ID || sale.Seq >= receipt.Seq {
		t.Errorf("ids/seq not assigned: %q/%d %q/%d", sale.ID, sale.Seq, receipt.ID, receipt.Seq)
	}
}

func TestSubmitDocumentRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)
	f.directory.CreateSalesman(ctx, "B")

	base := models.SubmitDocumentRequest{
		Salesman: "A", Customer: "X", DocDate: "2024-01-01",
		Qty: d("1"), UnitPrice: d("10"), DocType: models.DocTypeSaleOutbound,
	}
	tests := []struct {
		name  string
		edit  func(r *models.SubmitDocumentRequest)
		check func(error) bool
	}{
		{"bad date", func(r *models.SubmitDocumentRequest) { r.DocDate = "01/02/2024" }, apperr.IsValidation},
		{"unknown doc type", func(r *models.SubmitDocumentRequest) { r.DocType = "gift" }, apperr.IsValidation},
		{"negative price", func(r *models.SubmitDocumentRequest) { r.UnitPrice = d("-1") }, apperr.IsValidation},
		{"missing customer", func(r *models.SubmitDocumentRequest) { r.Customer = "" }, apperr.IsValidation},
		{"unknown customer", func(r *models.SubmitDocumentRequest) { r.Customer = "Ghost" }, apperr.IsNotFound},
		{"wrong owner", func(r *models.SubmitDocumentRequest) { r.Salesman = "B" }, apperr.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.edit(&req)
			if _, _, err := f.ledger.SubmitDocument(ctx, req, ""); !tt.check(err) {
				t.Errorf("err = %v", err)
			}
		})
	}

	entries, _ := f.store.List(ctx, models.LedgerFilter{IncludeVoid: true})
	if len(entries) != 0 {
		t.Errorf("rejected documents were stored: %d", len(entries))
	}
}

func TestSubmitDocumentIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	req := models.SubmitDocumentRequest{
		Salesman: "A", Customer: "X", DocDate: "2024-01-01",
		Qty: d("2"), UnitPrice: d("5"), DocType: models.DocTypeSaleOutbound,
	}
	first, replayed, err := f.ledger.SubmitDocument(ctx, req, "key-1")
	if err != nil || replayed {
		t.Fatalf("first submit = (%v, %v)", replayed, err)
	}
	second, replayed, err := f.ledger.SubmitDocument(ctx, req, "key-1")
	if err != nil || !replayed || second.ID != first.ID {
		t.Fatalf("replay = (%+v, %v, %v), want entry %s", second, replayed, err, first.ID)
	}

	entries, _ := f.store.List(ctx, models.LedgerFilter{Customer: "X"})
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

// flakyCompletion fails its first n Complete calls, n = failures.
type flakyCompletion struct {
	*cache.MemoryIdempotency
	failures  int
	completes int
	releases  int
}

func (f *flakyCompletion) Complete(ctx context.Context, key, entryID string) error {
	f.completes++
	if f.completes <= f.failures {
		return errors.New("redis: connection reset")
	}
	return f.MemoryIdempotency.Complete(ctx, key, entryID)
}

func (f *flakyCompletion) Release(ctx context.Context, key string) error {
	f.releases++
	return f.MemoryIdempotency.Release(ctx, key)
}

func TestSubmitDocumentIdempotencyCompletionFailure(t *testing.T) {
	req := models.SubmitDocumentRequest{
		Salesman: "A", Customer: "X", DocDate: "2024-01-01",
		Qty: d("1"), UnitPrice: d("5"), DocType: models.DocTypeSaleOutbound,
	}

	t.Run("retried once", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		f.seed(t)
		idem := &flakyCompletion{MemoryIdempotency: cache.NewMemoryIdempotency(), failures: 1}
		f.ledger.Idempotency = idem

		first, _, err := f.ledger.SubmitDocument(ctx, req, "key-1")
		if err != nil {
			t.Fatal(err)
		}
		second, replayed, err := f.ledger.SubmitDocument(ctx, req, "key-1")
		if err != nil || !replayed || second.ID != first.ID {
			t.Errorf("replay = (%+v, %v, %v), want entry %s", second, replayed, err, first.ID)
		}
		if idem.releases != 0 {
			t.Errorf("releases = %d, want 0", idem.releases)
		}
	})

	t.Run("released when completion keeps failing", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		f.seed(t)
		idem := &flakyCompletion{MemoryIdempotency: cache.NewMemoryIdempotency(), failures: 2}
		f.ledger.Idempotency = idem

		if _, _, err := f.ledger.SubmitDocument(ctx, req, "key-1"); err != nil {
			t.Fatalf("entry was stored, submit must succeed: %v", err)
		}
		if idem.completes != 2 || idem.releases != 1 {
			t.Errorf("completes = %d releases = %d, want 2 and 1", idem.completes, idem.releases)
		}

		// the key is free again instead of answering 409 until it expires
		_, replayed, err := f.ledger.SubmitDocument(ctx, req, "key-1")
		if err != nil || replayed {
			t.Errorf("retry = (%v, %v), want a fresh post", replayed, err)
		}
	})
}

func TestSubmitDocumentRecordsOperatorAndEvent(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := auth.WithOperator(context.Background(), "alice")

	e := f.submit(t, ctx, models.DocTypePalletFee, "2024-01-03", "0", "15")
	if e.CreatedBy != "alice" || !e.CreateTime.Equal(fixedNow) {
		t.Errorf("created_by/create_time = %q/%v", e.CreatedBy, e.CreateTime)
	}
	if !e.DebitAmt.Equal(d("15")) {
		t.Errorf("lump pallet fee debit = %s, want 15", e.DebitAmt)
	}

	msgs := f.events.Messages()
	if len(msgs) != 1 || msgs[0].Topic != modelevents.TopicEntryPosted || msgs[0].Key != "X" {
		t.Fatalf("events = %+v", msgs)
	}
	var posted modelevents.EntryPosted
	if err := json.Unmarshal(msgs[0].Value, &posted); err != nil {
		t.Fatal(err)
	}
	if posted.EntryID != e.ID || posted.DocDate != "2024-01-03" || posted.CreatedBy != "alice" {
		t.Errorf("event = %+v", posted)
	}
}

func TestPublishFailureDoesNotFailSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)
	f.events.Err = context.DeadlineExceeded

	f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "1", "1")
	entries, _ := f.store.List(ctx, models.LedgerFilter{Customer: "X"})
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestEmptyStatementAndDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	lines, err := f.ledger.GetStatement(ctx, "X")
	if err != nil || lines == nil || len(lines) != 0 {
		t.Errorf("empty statement = (%v, %v), want empty non-nil", lines, err)
	}
	if _, err := f.ledger.GetStatement(ctx, "Ghost"); !apperr.IsNotFound(err) {
		t.Errorf("unknown customer statement: err = %v", err)
	}

	dash, err := f.ledger.GetDashboard(ctx, "ALL")
	if err != nil {
		t.Fatal(err)
	}
	if !dash.TotalDebit.IsZero() || !dash.TotalCredit.IsZero() || !dash.NetBalance.IsZero() || len(dash.PerCustomerBreakdown) != 0 {
		t.Errorf("empty dashboard = %+v", dash)
	}
}

func TestDashboardScopes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)
	f.directory.CreateSalesman(ctx, "B")
	f.directory.CreateCustomer(ctx, "Y", "B")

	f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "1", "100")
	f.submit(t, ctx, models.DocTypeBankReceipt, "2024-01-02", "0", "30")
	f.ledger.SubmitDocument(ctx, models.SubmitDocumentRequest{
		Salesman: "B", Customer: "Y", DocDate: "2024-01-01",
		Qty: d("2"), UnitPrice: d("25"), DocType: models.DocTypeSaleOutbound,
	}, "")

	all, _ := f.ledger.GetDashboard(ctx, "")
	if all.Scope != models.AllSalesmen || !all.TotalDebit.Equal(d("150")) || !all.NetBalance.Equal(d("120")) {
		t.Errorf("ALL dashboard = %+v", all)
	}
	if len(all.PerCustomerBreakdown) != 2 || all.PerCustomerBreakdown[0].Customer != "X" {
		t.Errorf("breakdown = %+v", all.PerCustomerBreakdown)
	}

	onlyB, _ := f.ledger.GetDashboard(ctx, "B")
	if onlyB.Scope != "B" || !onlyB.TotalDebit.Equal(d("50")) || len(onlyB.PerCustomerBreakdown) != 1 {
		t.Errorf("B dashboard = %+v", onlyB)
	}
}

func TestApplyPayment(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := auth.WithOperator(context.Background(), "bob")
	sale := f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "1", "100")

	st, err := f.clearing.ApplyPayment(ctx, sale.ID, d("40"))
	if err != nil {
		t.Fatal(err)
	}
	if st.ClearingStatus != models.ClearingPartiallyCleared || !st.Outstanding.Equal(d("60")) {
		t.Errorf("after 40: %+v", st)
	}

	st, err = f.clearing.ApplyPayment(ctx, sale.ID, d("60"))
	if err != nil {
		t.Fatal(err)
	}
	if st.ClearingStatus != models.ClearingSettled || !st.PaidAmount.Equal(d("100")) {
		t.Errorf("after 100: %+v", st)
	}

	stored, _ := f.store.Get(ctx, sale.ID)
	if len(stored.AuditLog) != 2 || !strings.Contains(stored.AuditLog[0], "applied by bob") {
		t.Errorf("audit log = %v", stored.AuditLog)
	}
	if topics := f.events.Topics(); topics[len(topics)-1] != modelevents.TopicPaymentApplied {
		t.Errorf("topics = %v", topics)
	}

	if _, err := f.clearing.ApplyPayment(ctx, sale.ID, d("0")); !apperr.IsValidation(err) {
		t.Errorf("zero amount: err = %v", err)
	}
	published := len(f.events.Topics())
	if _, err := f.clearing.ApplyPayment(ctx, sale.ID, d("0.004")); !apperr.IsValidation(err) {
		t.Errorf("sub-cent amount: err = %v", err)
	}
	if stored, _ := f.store.Get(ctx, sale.ID); len(stored.AuditLog) != 2 || len(f.events.Topics()) != published {
		t.Errorf("sub-cent amount left a trace: audit %v", stored.AuditLog)
	}
	if _, err := f.clearing.ApplyPayment(ctx, "missing", d("1")); !apperr.IsNotFound(err) {
		t.Errorf("missing entry: err = %v", err)
	}

	receipt := f.submit(t, ctx, models.DocTypeBankReceipt, "2024-01-02", "0", "10")
	if _, err := f.clearing.ApplyPayment(ctx, receipt.ID, d("1")); !apperr.IsValidation(err) {
		t.Errorf("payment against receipt: err = %v", err)
	}

	voided := f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-03", "1", "10")
	f.voids.VoidEntry(ctx, voided.ID, "typo")
	if _, err := f.clearing.ApplyPayment(ctx, voided.ID, d("1")); !apperr.IsValidation(err) {
		t.Errorf("payment against void: err = %v", err)
	}
}

func TestApplyPaymentConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)
	sale := f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "1", "100")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.clearing.ApplyPayment(ctx, sale.ID, d("1.5")); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, _ := f.store.Get(ctx, sale.ID)
	if !got.CreditAmt.Equal(d("75")) || len(got.AuditLog) != 50 {
		t.Errorf("credit = %s with %d notes, want 75 with 50", got.CreditAmt, len(got.AuditLog))
	}
}

func TestApplyPaymentToContract(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)

	late := f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-09", "1", "50")
	early := f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "1", "30")
	f.submit(t, ctx, models.DocTypeBankReceipt, "2024-01-05", "0", "5")

	statuses, err := f.clearing.ApplyPaymentToContract(ctx, models.ContractPaymentRequest{
		Customer: "X", ContractNo: "C-1", Amount: d("40"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %+v", statuses)
	}
	if statuses[0].EntryID != early.ID || statuses[0].ClearingStatus != models.ClearingSettled {
		t.Errorf("first = %+v, want early line settled", statuses[0])
	}
	if statuses[1].EntryID != late.ID || !statuses[1].PaidAmount.Equal(d("10")) {
		t.Errorf("second = %+v, want 10 on late line", statuses[1])
	}

	if _, err := f.clearing.ApplyPaymentToContract(ctx, models.ContractPaymentRequest{
		Customer: "X", ContractNo: "nope", Amount: d("1"),
	}); !apperr.IsNotFound(err) {
		t.Errorf("unknown contract: err = %v", err)
	}
	if _, err := f.clearing.ApplyPaymentToContract(ctx, models.ContractPaymentRequest{
		Customer: "X", ContractNo: "C-1", Amount: d("-1"),
	}); !apperr.IsValidation(err) {
		t.Errorf("negative amount: err = %v", err)
	}
	if _, err := f.clearing.ApplyPaymentToContract(ctx, models.ContractPaymentRequest{
		Customer: "X", ContractNo: "C-1", Amount: d("0.004"),
	}); !apperr.IsValidation(err) {
		t.Errorf("sub-cent amount: err = %v", err)
	}
}

func TestVoidEntry(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := auth.WithOperator(context.Background(), "carol")

	f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "1", "100")
	wrong := f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-02", "1", "999")
	f.submit(t, ctx, models.DocTypeBankReceipt, "2024-01-03", "0", "40")

	voided, err := f.voids.VoidEntry(ctx, wrong.ID, "wrong price")
	if err != nil {
		t.Fatal(err)
	}
	if !voided.IsVoid || voided.ClearingStatus != models.ClearingReversed {
		t.Errorf("voided = %+v", voided)
	}
	if n := len(voided.AuditLog); n != 1 || !strings.HasSuffix(voided.AuditLog[0], "voided by carol: wrong price") {
		t.Errorf("audit log = %v", voided.AuditLog)
	}

	first, _ := f.ledger.GetStatement(ctx, "X")
	second, _ := f.ledger.GetStatement(ctx, "X")
	if got := strings.Join(runningBalances(first), ","); got != "100.00,60.00" {
		t.Errorf("balances after void = %s", got)
	}
	if strings.Join(runningBalances(first), ",") != strings.Join(runningBalances(second), ",") {
		t.Error("statement is not deterministic")
	}

	if _, err := f.voids.VoidEntry(ctx, wrong.ID, "again"); !apperr.IsConflict(err) {
		t.Errorf("double void: err = %v", err)
	}
	if _, err := f.voids.VoidEntry(ctx, "missing", ""); !apperr.IsNotFound(err) {
		t.Errorf("missing entry: err = %v", err)
	}

	audit, err := f.ledger.ListVoided(ctx, "X")
	if err != nil || len(audit) != 1 || audit[0].ID != wrong.ID {
		t.Errorf("ListVoided = (%+v, %v)", audit, err)
	}
}

func TestExports(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t)
	f.submit(t, ctx, models.DocTypeSaleOutbound, "2024-01-01", "4", "25")
	f.submit(t, ctx, models.DocTypeBankReceipt, "2024-01-05", "0", "40")

	csvData, err := f.exports.StatementCSV(ctx, "X")
	if err != nil {
		t.Fatal(err)
	}
	want := "date,contract,item,spec,qty,unit_price,debit,credit,running_balance,doc_type\n" +
		"2024-01-01,C-1,,,4.00,25.00,100.00,0.00,100.00,sale_outbound\n" +
		"2024-01-05,C-1,,,0.00,40.00,0.00,40.00,60.00,bank_receipt\n"
	if string(csvData) != want {
		t.Errorf("csv =\n%s\nwant\n%s", csvData, want)
	}

	pdfData, err := f.exports.StatementPDF(ctx, "X")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdfData, []byte("%PDF")) {
		t.Error("pdf output has no PDF header")
	}

	loc, err := f.exports.ArchiveStatement(ctx, "X", "csv")
	if err != nil {
		t.Fatal(err)
	}
	stored, ok := f.archive.Object("X/20240201T093000-statement.csv")
	if !ok || !bytes.Equal(stored, csvData) || loc != "mem://X/20240201T093000-statement.csv" {
		t.Errorf("archive location %q, stored %v", loc, ok)
	}

	if _, err := f.exports.ArchiveStatement(ctx, "X", "xlsx"); !apperr.IsValidation(err) {
		t.Errorf("bad format: err = %v", err)
	}

	f.exports.Archiver = nil
	if _, err := f.exports.ArchiveStatement(ctx, "X", "csv"); !apperr.IsUnavailable(err) {
		t.Errorf("archiving off: err = %v, want unavailable", err)
	}
}

func TestKeyedLocksSerialisePerKey(t *testing.T) {
	locks := NewKeyedLocks()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("X")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}
