package events

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// Relayer moves pending outbox events to a Sender
type Relayer struct {
	repo      *db.OutboxRepository
	sender    Sender
	batchSize int
	interval  time.Duration
	maxRetry  int
	logger    *zap.Logger

	sent   metric.Int64Counter
	failed metric.Int64Counter
}

// Stats summarizes one drain pass
type Stats struct {
	Sent    int
	Retried int
}

// NewRelayer creates a relayer over the outbox table
func NewRelayer(repo *db.Repository, sender Sender, cfg *config.EventsConfig) *Relayer {
	meter := telemetry.Meter()
	sent, _ := meter.Int64Counter("yatube.outbox.sent",
		metric.WithDescription("Outbox events delivered to the broker"))
	failed, _ := meter.Int64Counter("yatube.outbox.send_errors",
		metric.WithDescription("Outbox delivery attempts that failed"))

	return &Relayer{
		repo:      db.NewOutboxRepository(repo),
		sender:    sender,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
		maxRetry:  cfg.MaxRetry,
		logger:    logging.WithComponent("outbox-relayer"),
		sent:      sent,
		failed:    failed,
	}
}

// Run drains the outbox every interval until ctx is cancelled
func (r *Relayer) Run(ctx context.Context) {
	r.logger.Info("Starting outbox relayer",
		zap.Duration("interval", r.interval),
		zap.Int("batch_size", r.batchSize),
	)

	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relayer stopped")
			return
		case <-t.C:
			if _, err := r.DrainOnce(ctx); err != nil {
				r.logger.Error("Outbox drain failed", zap.Error(err))
			}
		}
	}
}

// DrainOnce sends one batch of pending events in id order. Delivered events
// are marked sent; failed ones have their retry counter bumped and are
// marked failed once they reach the retry limit.
func (r *Relayer) DrainOnce(ctx context.Context) (Stats, error) {
	var stats Stats

	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		return stats, err
	}

	for i := range rows {
		ev := &rows[i]
		if err := r.sender.Send(ctx, ev); err != nil {
			r.logger.Warn("Outbox send failed",
				zap.Int64("event_id", ev.ID),
				zap.String("type", ev.Type),
				zap.Int("retry", ev.Retry),
				zap.Error(err),
			)
			if r.failed != nil {
				r.failed.Add(ctx, 1)
			}
			if err := r.repo.MarkRetry(ctx, ev, r.maxRetry); err != nil {
				return stats, err
			}
			stats.Retried++
			continue
		}
		if err := r.repo.MarkSent(ctx, ev.ID); err != nil {
			return stats, err
		}
		if r.sent != nil {
			r.sent.Add(ctx, 1)
		}
		stats.Sent++
	}

	if stats.Sent > 0 || stats.Retried > 0 {
		r.logger.Debug("Outbox batch drained",
			zap.Int("sent", stats.Sent),
			zap.Int("retried", stats.Retried),
		)
	}
	return stats, nil
}
