package repo

import (
	"context"
	"database/sql"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type MySQLReviewRepo struct{ db *sql.DB }

func NewMySQLReviewRepo(db *sql.DB) *MySQLReviewRepo { return &MySQLReviewRepo{db: db} }

func (r *MySQLReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	name := sql.NullString{String: rv.ProductName, Valid: rv.ProductName != ""}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (id, product_id, product_name, name, rating, comment, created_at)
VALUES (?,?,?,?,?,?,?)`,
		rv.ID, rv.ProductID, name, rv.Name, rv.Rating, rv.Comment, rv.CreatedAt)
	return err
}

func (r *MySQLReviewRepo) List(ctx context.Context, productID string) ([]domain.Review, error) {
	q := `SELECT id, product_id, product_name, name, rating, comment, created_at
FROM reviews`
	args := []any{}
	if productID != "" {
		q += ` WHERE product_id = ?`
		args = append(args, productID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var (
			rv   domain.Review
			name sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.ProductID, &name, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		rv.ProductName = name.String
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *MySQLReviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

var _ usecase.ReviewRepo = (*MySQLReviewRepo)(nil)
