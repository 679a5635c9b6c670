package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	promo := sql.NullString{String: o.PromoCode, Valid: o.PromoCode != ""}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO orders
  (id, customer_name, phone_number, governorate, address, items_json,
   subtotal, discount, shipping, total, promo_code, payment_method,
   payer_phone, status, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.CustomerName, o.PhoneNumber, o.Governorate, o.Address, items,
		o.Subtotal, o.Discount, o.Shipping, o.Total, promo, string(o.PaymentMethod),
		o.PayerPhone, string(o.Status), o.CreatedAt)
	return err
}

const orderColumns = `
id, customer_name, phone_number, governorate, address, items_json,
subtotal, discount, shipping, total, promo_code, payment_method,
payer_phone, status, created_at`

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+orderColumns+` FROM orders WHERE id=?`, id)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT`+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *MySQLOrderRepo) UpdateStatus(ctx context.Context, id string, to domain.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, string(to), id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// UpdateStatusIf applies the transition only when the row still carries the
// expected status; rows == 0 means not found or a concurrent change.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLOrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var (
		o      domain.Order
		items  []byte
		promo  sql.NullString
		method string
		status string
	)
	err := row.Scan(&o.ID, &o.CustomerName, &o.PhoneNumber, &o.Governorate, &o.Address,
		&items, &o.Subtotal, &o.Discount, &o.Shipping, &o.Total, &promo, &method,
		&o.PayerPhone, &status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	o.PromoCode = promo.String
	o.PaymentMethod = domain.PaymentMethod(method)
	o.Status = domain.Status(status)
	return &o, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
