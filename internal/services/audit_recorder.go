package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/internal/infrastructure/journal"
	"github.com/taskhive/backend/usecase"
)

// AuditRecorder appends use-case events to the local journal.
type AuditRecorder struct {
	store  *journal.Store
	logger *zap.Logger
}

func NewAuditRecorder(store *journal.Store, logger *zap.Logger) *AuditRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditRecorder{store: store, logger: logger}
}

func (r *AuditRecorder) Record(ctx context.Context, actor, action, entityID, detail string) {
	if r == nil || r.store == nil {
		return
	}
	entry := journal.Entry{
		Actor:     actor,
		Action:    action,
		EntityID:  entityID,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	if err := r.store.Append(entry); err != nil {
		r.logger.Error("failed to journal event",
			zap.String("action", action),
			zap.Error(err))
	}
}

var _ usecase.AuditTrail = (*AuditRecorder)(nil)
