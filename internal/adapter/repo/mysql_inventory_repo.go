package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// MySQLInventoryRepo serves both inventory pools: the products table and the
// samples table used by the discovery-set builder.
type MySQLInventoryRepo struct{ db *sql.DB }

func NewMySQLInventoryRepo(db *sql.DB) *MySQLInventoryRepo { return &MySQLInventoryRepo{db: db} }

func (r *MySQLInventoryRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, subtitle, price, stock, images_json, audience
FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (r *MySQLInventoryRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, subtitle, price, stock, images_json, audience
FROM products ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *MySQLInventoryRepo) GetSample(ctx context.Context, id string) (*domain.Sample, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, price, stock FROM samples WHERE id = ?`, id)
	var s domain.Sample
	if err := row.Scan(&s.ID, &s.Title, &s.Price, &s.Stock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *MySQLInventoryRepo) ListSamples(ctx context.Context) ([]domain.Sample, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, price, stock FROM samples ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sample
	for rows.Next() {
		var s domain.Sample
		if err := rows.Scan(&s.ID, &s.Title, &s.Price, &s.Stock); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Reserve applies the whole decrement batch in one transaction. Each row is
// a conditional decrement (stock >= qty), so concurrent checkouts over the
// same last unit cannot both pass; the losing transaction rolls back with
// *usecase.OutOfStockError.
func (r *MySQLInventoryRepo) Reserve(ctx context.Context, decs []usecase.StockDecrement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range decs {
		table, err := poolTable(d.Pool)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE `+table+` SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			d.Qty, d.ID, d.Qty)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		// nothing matched: distinguish a vanished row from thin stock
		var stock int
		err = tx.QueryRowContext(ctx, `SELECT stock FROM `+table+` WHERE id = ?`, d.ID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return &usecase.NotFoundError{ID: d.ID}
		}
		if err != nil {
			return err
		}
		return &usecase.OutOfStockError{Item: d.Title, Available: stock, Requested: d.Qty}
	}
	return tx.Commit()
}

func (r *MySQLInventoryRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO products (id, title, subtitle, price, stock, images_json, audience)
VALUES (?,?,?,?,?,?,?)`,
		p.ID, p.Title, p.Subtitle, p.Price, p.Stock, images, p.Audience)
	return err
}

func (r *MySQLInventoryRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET title=?, subtitle=?, price=?, stock=?, images_json=?, audience=?
WHERE id=?`,
		p.Title, p.Subtitle, p.Price, p.Stock, images, p.Audience, p.ID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *MySQLInventoryRepo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *MySQLInventoryRepo) CreateSample(ctx context.Context, s *domain.Sample) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO samples (id, title, price, stock) VALUES (?,?,?,?)`,
		s.ID, s.Title, s.Price, s.Stock)
	return err
}

func (r *MySQLInventoryRepo) UpdateSample(ctx context.Context, s *domain.Sample) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE samples SET title=?, price=?, stock=? WHERE id=?`,
		s.Title, s.Price, s.Stock, s.ID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *MySQLInventoryRepo) DeleteSample(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM samples WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func poolTable(p usecase.Pool) (string, error) {
	switch p {
	case usecase.PoolProducts:
		return "products", nil
	case usecase.PoolSamples:
		return "samples", nil
	}
	return "", fmt.Errorf("unknown inventory pool %q", p)
}

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var (
		p      domain.Product
		images []byte
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Price, &p.Stock, &images, &p.Audience); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

var (
	_ usecase.InventoryRepo = (*MySQLInventoryRepo)(nil)
	_ usecase.CatalogAdmin  = (*MySQLInventoryRepo)(nil)
)
