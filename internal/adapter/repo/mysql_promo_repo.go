package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type MySQLPromoRepo struct{ db *sql.DB }

func NewMySQLPromoRepo(db *sql.DB) *MySQLPromoRepo { return &MySQLPromoRepo{db: db} }

// FindActive matches the code case-sensitively (BINARY) and only returns
// active rows; everything else is ErrNotFound.
func (r *MySQLPromoRepo) FindActive(ctx context.Context, code string) (*domain.PromoCode, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, code, discount_percent, active
FROM promo_codes WHERE BINARY code = ? AND active = 1`, code)
	var p domain.PromoCode
	if err := row.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MySQLPromoRepo) List(ctx context.Context) ([]domain.PromoCode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, discount_percent, active FROM promo_codes ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PromoCode
	for rows.Next() {
		var p domain.PromoCode
		if err := rows.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MySQLPromoRepo) Create(ctx context.Context, p *domain.PromoCode) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO promo_codes (id, code, discount_percent, active) VALUES (?,?,?,?)`,
		p.ID, p.Code, p.DiscountPercent, p.Active)
	return err
}

func (r *MySQLPromoRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE promo_codes SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

var _ usecase.PromoRepo = (*MySQLPromoRepo)(nil)
