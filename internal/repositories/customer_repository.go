package repositories

import (
	"context"
	"errors"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

// CreateCustomer inserts a customer; an existing name is left as it is.
// The salesmen foreign key turns a missing owner into a not-found error.
func (r *CustomerRepository) CreateCustomer(ctx context.Context, c *models.Customer) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`INSERT INTO customers(id, name, salesman_name, created_at)
         VALUES($1, $2, $3, $4)
         ON CONFLICT (name) DO NOTHING`,
		c.ID, c.Name, c.Salesman, c.CreatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return false, apperr.NotFound("salesman", c.Salesman)
		}
		return false, apperr.Persistence("create customer", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	existing, err := r.GetCustomer(ctx, c.Name)
	if err != nil {
		return false, err
	}
	*c = *existing
	return false, nil
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, name string) (*models.Customer, error) {
	return readWithRetry(ctx, "get customer", func() (*models.Customer, error) {
		var c models.Customer
		err := r.DB.QueryRow(ctx,
			`SELECT id, name, salesman_name, created_at FROM customers WHERE name=$1`, name,
		).Scan(&c.ID, &c.Name, &c.Salesman, &c.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("customer", name)
		}
		if err != nil {
			return nil, err
		}
		return &c, nil
	})
}

// ListCustomers returns the customers of one salesman, or all of them when salesman is empty.
func (r *CustomerRepository) ListCustomers(ctx context.Context, salesman string) ([]models.Customer, error) {
	return readWithRetry(ctx, "list customers", func() ([]models.Customer, error) {
		rows, err := r.DB.Query(ctx,
			`SELECT id, name, salesman_name, created_at
             FROM customers
             WHERE $1 = '' OR salesman_name = $1
             ORDER BY name`, salesman)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		customers := make([]models.Customer, 0)
		for rows.Next() {
			var c models.Customer
			if err := rows.Scan(&c.ID, &c.Name, &c.Salesman, &c.CreatedAt); err != nil {
				return nil, err
			}
			customers = append(customers, c)
		}
		return customers, rows.Err()
	})
}
