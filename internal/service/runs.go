package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"whiteboard/internal/storage"
)

// RunLog is the history of executor batches per board.
type RunLog struct {
	store *storage.RunStore
}

func NewRunLog(store *storage.RunStore) *RunLog {
	return &RunLog{store: store}
}

func (l *RunLog) Record(ctx context.Context, r *storage.Run) error {
	return l.store.Insert(ctx, r)
}

// List returns up to limit runs for a board, newest first.
func (l *RunLog) List(ctx context.Context, boardID string, limit int) ([]storage.Run, error) {
	return l.store.List(ctx, boardID, limit)
}

// ─────────────────────────────────────────────────────────────
// Pruner: drops old runs on a cron schedule
// ─────────────────────────────────────────────────────────────

const pruneKey = "prune"

type Pruner struct {
	store     *storage.RunStore
	retention time.Duration
	log       *zap.Logger
	now       func() time.Time

	busy inflight
	cron *cron.Cron
}

// NewPruner keeps runs for retentionDays. Zero or less disables pruning.
func NewPruner(store *storage.RunStore, retentionDays int, log *zap.Logger) *Pruner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pruner{
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		log:       log,
		now:       time.Now,
	}
}

// Start schedules PruneNow with a standard five-field cron spec or a
// descriptor such as @daily.
func (p *Pruner) Start(ctx context.Context, schedule string) error {
	if p.retention <= 0 {
		p.log.Info("[pruner] retention disabled")
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := p.PruneNow(ctx); err != nil {
			p.log.Error("[pruner] run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	c.Start()
	p.cron = c
	p.log.Info("[pruner] scheduled", zap.String("schedule", schedule), zap.Duration("retention", p.retention))
	return nil
}

// PruneNow deletes runs older than the retention window. A call that
// overlaps a running prune is a no-op.
func (p *Pruner) PruneNow(ctx context.Context) (int64, error) {
	if p.retention <= 0 {
		return 0, nil
	}
	if !p.busy.TryAcquire(pruneKey) {
		return 0, nil
	}
	defer p.busy.Release(pruneKey)

	n, err := p.store.PruneBefore(ctx, p.now().Add(-p.retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.log.Info("[pruner] removed runs", zap.Int64("runs", n))
	}
	return n, nil
}

// Stop halts the schedule and waits for a running prune to finish.
func (p *Pruner) Stop(ctx context.Context) {
	if p.cron != nil {
		select {
		case <-p.cron.Stop().Done():
		case <-ctx.Done():
		}
		p.cron = nil
	}
	p.busy.Wait(ctx)
}
