package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type MySQLSectionRepo struct{ db *sql.DB }

func NewMySQLSectionRepo(db *sql.DB) *MySQLSectionRepo { return &MySQLSectionRepo{db: db} }

func (r *MySQLSectionRepo) List(ctx context.Context) ([]domain.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, product_ids_json, position FROM sections ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Section
	for rows.Next() {
		var (
			s   domain.Section
			ids []byte
		)
		if err := rows.Scan(&s.ID, &s.Title, &ids, &s.Position); err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			if err := json.Unmarshal(ids, &s.ProductIDs); err != nil {
				return nil, err
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *MySQLSectionRepo) Create(ctx context.Context, s *domain.Section) error {
	ids, err := json.Marshal(s.ProductIDs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sections (id, title, product_ids_json, position) VALUES (?,?,?,?)`,
		s.ID, s.Title, ids, s.Position)
	return err
}

func (r *MySQLSectionRepo) Update(ctx context.Context, s *domain.Section) error {
	ids, err := json.Marshal(s.ProductIDs)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE sections SET title=?, product_ids_json=?, position=? WHERE id=?`,
		s.Title, ids, s.Position, s.ID)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func (r *MySQLSectionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

var _ usecase.SectionRepo = (*MySQLSectionRepo)(nil)
