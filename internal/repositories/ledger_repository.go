package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/ledger"
	"ledger-backend/internal/models"
	"ledger-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LedgerRepository struct {
	DB *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

const entryColumns = `id, seq, salesman, customer, contract_no, doc_date,
		item_desc, spec_color, qty, unit_price, debit_amt, credit_amt,
		doc_type, is_void, audit_log, created_by, create_time`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := row.Scan(
		&e.ID, &e.Seq, &e.Salesman, &e.Customer, &e.ContractNo, &e.DocDate,
		&e.ItemDesc, &e.SpecColor, &e.Qty, &e.UnitPrice, &e.DebitAmt, &e.CreditAmt,
		&e.DocType, &e.IsVoid, &e.AuditLog, &e.CreatedBy, &e.CreateTime,
	)
	if err != nil {
		return nil, err
	}
	if e.AuditLog == nil {
		e.AuditLog = []string{}
	}
	e.DocDate = timeutil.DateOf(e.DocDate)
	e.ClearingStatus = ledger.DeriveStatus(e)
	return &e, nil
}

// Insert stores a new entry. The composite foreign key on (customer, salesman)
// rejects entries whose customer is missing or owned by another salesman.
func (r *LedgerRepository) Insert(ctx context.Context, e *models.LedgerEntry) error {
	auditLog := e.AuditLog
	if auditLog == nil {
		auditLog = []string{}
	}

	err := r.DB.QueryRow(ctx,
		`INSERT INTO ledger_entries (
            id, salesman, customer, contract_no, doc_date,
            item_desc, spec_color, qty, unit_price, debit_amt, credit_amt,
            doc_type, is_void, audit_log, created_by, create_time
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING seq`,
		e.ID, e.Salesman, e.Customer, e.ContractNo, e.DocDate,
		e.ItemDesc, e.SpecColor, e.Qty, e.UnitPrice, e.DebitAmt, e.CreditAmt,
		string(e.DocType), e.IsVoid, auditLog, e.CreatedBy, e.CreateTime,
	).Scan(&e.Seq)
	if err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return apperr.Validation("customer", "%s is not owned by salesman %s", e.Customer, e.Salesman)
		case pgUniqueViolation:
			return apperr.Conflict("entry %s already exists", e.ID)
		}
		return apperr.Persistence("insert entry", err)
	}
	return nil
}

func (r *LedgerRepository) Get(ctx context.Context, id string) (*models.LedgerEntry, error) {
	return readWithRetry(ctx, "get entry", func() (*models.LedgerEntry, error) {
		e, err := scanEntry(r.DB.QueryRow(ctx,
			`SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("entry", id)
		}
		return e, err
	})
}

// List returns matching entries in statement order
func (r *LedgerRepository) List(ctx context.Context, filter models.LedgerFilter) ([]models.LedgerEntry, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.Salesman != "" {
		conditions = append(conditions, fmt.Sprintf("salesman = $%d", argNum))
		args = append(args, filter.Salesman)
		argNum++
	}

	if filter.Customer != "" {
		conditions = append(conditions, fmt.Sprintf("customer = $%d", argNum))
		args = append(args, filter.Customer)
		argNum++
	}

	if filter.ContractNo != "" {
		conditions = append(conditions, fmt.Sprintf("contract_no = $%d", argNum))
		args = append(args, filter.ContractNo)
	}

	switch {
	case filter.OnlyVoid:
		conditions = append(conditions, "is_void")
	case !filter.IncludeVoid:
		conditions = append(conditions, "NOT is_void")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM ledger_entries
		%s
		ORDER BY doc_date, seq
	`, entryColumns, whereClause)

	return readWithRetry(ctx, "list entries", func() ([]models.LedgerEntry, error) {
		rows, err := r.DB.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		entries := make([]models.LedgerEntry, 0)
		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				return nil, err
			}
			entries = append(entries, *e)
		}
		return entries, rows.Err()
	})
}

// Update locks the row, applies fn and writes the mutable columns back in
// the same transaction.
func (r *LedgerRepository) Update(ctx context.Context, id string, fn func(*models.LedgerEntry) error) (*models.LedgerEntry, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, apperr.Persistence("begin update", err)
	}
	defer tx.Rollback(ctx)

	e, err := scanEntry(tx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("entry", id)
	}
	if err != nil {
		return nil, apperr.Persistence("lock entry", err)
	}

	if err := fn(e); err != nil {
		return nil, err
	}
	if err := saveEntry(ctx, tx, e); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Persistence("commit update", err)
	}
	e.ClearingStatus = ledger.DeriveStatus(*e)
	return e, nil
}

// UpdateContract locks every entry of one customer contract in statement
// order, applies fn and saves the entries it returns.
func (r *LedgerRepository) UpdateContract(ctx context.Context, customer, contractNo string, fn func([]*models.LedgerEntry) ([]*models.LedgerEntry, error)) ([]models.LedgerEntry, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, apperr.Persistence("begin contract update", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT `+entryColumns+`
         FROM ledger_entries
         WHERE customer = $1 AND contract_no = $2
         ORDER BY doc_date, seq
         FOR UPDATE`, customer, contractNo)
	if err != nil {
		return nil, apperr.Persistence("lock contract", err)
	}
	var working []*models.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, apperr.Persistence("scan contract", err)
		}
		working = append(working, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("lock contract", err)
	}
	if len(working) == 0 {
		return nil, apperr.NotFound("contract", contractNo)
	}

	changed, err := fn(working)
	if err != nil {
		return nil, err
	}

	result := make([]models.LedgerEntry, 0, len(changed))
	for _, e := range changed {
		if err := saveEntry(ctx, tx, e); err != nil {
			return nil, err
		}
		e.ClearingStatus = ledger.DeriveStatus(*e)
		result = append(result, *e)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Persistence("commit contract update", err)
	}
	return result, nil
}

// saveEntry writes the columns that clearing and voiding may change.
// Business fields stay as first posted.
func saveEntry(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error {
	_, err := tx.Exec(ctx,
		`UPDATE ledger_entries
         SET credit_amt = $2, is_void = $3, audit_log = $4
         WHERE id = $1`,
		e.ID, e.CreditAmt, e.IsVoid, e.AuditLog,
	)
	if err != nil {
		return apperr.Persistence("save entry", err)
	}
	return nil
}
