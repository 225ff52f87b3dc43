package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskhive/backend/internal/infrastructure/journal"
)

// JanitorConfig controls how often and how far back the journal is pruned.
type JanitorConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// JournalJanitor prunes aged journal entries on a cron schedule.
type JournalJanitor struct {
	store  *journal.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    JanitorConfig
}

func NewJournalJanitor(store *journal.Store, logger *zap.Logger, cfg JanitorConfig) *JournalJanitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &JournalJanitor{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = j.cron.AddFunc(schedule, j.Sweep)

	return j
}

// Start launches the cron scheduler.
func (j *JournalJanitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("journal janitor started",
		zap.Duration("interval", j.cfg.Interval),
		zap.Duration("retention", j.cfg.Retention))
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (j *JournalJanitor) Stop() {
	if j == nil || j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
	j.logger.Info("journal janitor stopped")
}

// Sweep removes entries that fell out of the retention window.
func (j *JournalJanitor) Sweep() {
	if j == nil || j.store == nil {
		return
	}
	cutoff := time.Now().Add(-j.cfg.Retention)
	if err := j.store.Prune(cutoff); err != nil {
		j.logger.Error("journal prune failed", zap.Error(err))
	}
}
