package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/loaai-rashad/scentorini-shop/internal/adapter/queue"
	"github.com/loaai-rashad/scentorini-shop/internal/adapter/repo"
)

// Dispatcher drains pending outbox rows to RabbitMQ on a fixed tick. Rows
// that fail to publish get their retry counter bumped and a growing delay
// before the next attempt.
type Dispatcher struct {
	repo     *repo.MySQLOutboxRepo
	producer *queue.RabbitProducer
	interval time.Duration
	batch    int
	log      *slog.Logger
}

func NewDispatcher(r *repo.MySQLOutboxRepo, p *queue.RabbitProducer, interval time.Duration, batch int, log *slog.Logger) *Dispatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batch <= 0 {
		batch = 50
	}
	return &Dispatcher{repo: r, producer: p, interval: interval, batch: batch, log: log}
}

// Start blocks until ctx is done; run it in its own goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	rows, err := d.repo.FetchPending(ctx, d.batch)
	if err != nil {
		d.log.Error("outbox fetch failed", "error", err)
		return
	}

	for _, row := range rows {
		if err := d.producer.PublishOrderPlaced(ctx, row.Payload); err != nil {
			backoff := time.Duration(row.Retries+1) * 10 * time.Second
			d.log.Warn("outbox publish failed",
				"id", row.ID, "channel", row.Channel, "retries", row.Retries, "error", err)
			if err := d.repo.MarkFailed(ctx, row.ID, backoff); err != nil {
				d.log.Error("outbox mark-failed failed", "id", row.ID, "error", err)
			}
			continue
		}
		if err := d.repo.MarkSent(ctx, row.ID); err != nil {
			// worst case the row is re-published; consumers are idempotent
			d.log.Error("outbox mark-sent failed", "id", row.ID, "error", err)
		}
	}
}
