package repositories

import (
	"context"
	"errors"

	"ledger-backend/internal/apperr"
	"ledger-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SalesmanRepository struct {
	DB *pgxpool.Pool
}

func NewSalesmanRepository(db *pgxpool.Pool) *SalesmanRepository {
	return &SalesmanRepository{DB: db}
}

// CreateSalesman inserts a salesman; an existing name is left as it is.
func (r *SalesmanRepository) CreateSalesman(ctx context.Context, s *models.Salesman) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`INSERT INTO salesmen(id, name, created_at)
         VALUES($1, $2, $3)
         ON CONFLICT (name) DO NOTHING`,
		s.ID, s.Name, s.CreatedAt,
	)
	if err != nil {
		return false, apperr.Persistence("create salesman", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	existing, err := r.GetSalesman(ctx, s.Name)
	if err != nil {
		return false, err
	}
	*s = *existing
	return false, nil
}

func (r *SalesmanRepository) GetSalesman(ctx context.Context, name string) (*models.Salesman, error) {
	return readWithRetry(ctx, "get salesman", func() (*models.Salesman, error) {
		var s models.Salesman
		err := r.DB.QueryRow(ctx,
			`SELECT id, name, created_at FROM salesmen WHERE name=$1`, name,
		).Scan(&s.ID, &s.Name, &s.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("salesman", name)
		}
		if err != nil {
			return nil, err
		}
		return &s, nil
	})
}

func (r *SalesmanRepository) ListSalesmen(ctx context.Context) ([]models.Salesman, error) {
	return readWithRetry(ctx, "list salesmen", func() ([]models.Salesman, error) {
		rows, err := r.DB.Query(ctx, `SELECT id, name, created_at FROM salesmen ORDER BY name`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		salesmen := make([]models.Salesman, 0)
		for rows.Next() {
			var s models.Salesman
			if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
				return nil, err
			}
			salesmen = append(salesmen, s)
		}
		return salesmen, rows.Err()
	})
}
