package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// MySQLOutboxRepo stores post-commit events until the dispatcher drains them
// to the broker. Failures never surface into the checkout path.
type MySQLOutboxRepo struct{ db *sql.DB }

func NewMySQLOutboxRepo(db *sql.DB) *MySQLOutboxRepo { return &MySQLOutboxRepo{db: db} }

func (r *MySQLOutboxRepo) InsertOrderPlaced(ctx context.Context, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO outbox (channel, payload, status, retry_count, next_attempt_at, created_at)
VALUES ('order.placed.v1', ?, 'PENDING', 0, NOW(), NOW())`, payload)
	return err
}

// OutboxRow is one pending event picked up by the dispatcher.
type OutboxRow struct {
	ID      int64
	Channel string
	Payload []byte
	Retries int
}

// FetchPending returns due events oldest first.
func (r *MySQLOutboxRepo) FetchPending(ctx context.Context, limit int) ([]OutboxRow, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, channel, payload, retry_count
FROM outbox
WHERE status = 'PENDING' AND next_attempt_at <= NOW()
ORDER BY id
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutboxRow
	for rows.Next() {
		var row OutboxRow
		if err := rows.Scan(&row.ID, &row.Channel, &row.Payload, &row.Retries); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *MySQLOutboxRepo) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox SET status = 'SENT', sent_at = NOW() WHERE id = ?`, id)
	return err
}

// MarkFailed bumps the retry counter and pushes the next attempt out.
func (r *MySQLOutboxRepo) MarkFailed(ctx context.Context, id int64, backoff time.Duration) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE outbox
SET retry_count = retry_count + 1,
    next_attempt_at = DATE_ADD(NOW(), INTERVAL ? SECOND)
WHERE id = ?`, int(backoff.Seconds()), id)
	return err
}

var _ usecase.OutboxRepo = (*MySQLOutboxRepo)(nil)
