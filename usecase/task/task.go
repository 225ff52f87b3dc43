package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
)

// Changes carries a partial update: nil fields keep their current value.
type Changes struct {
	Title       *string
	Description *string
	Completed   *bool
}

// UseCase applies task business rules on top of the repository's ownership
// scoping. The completed_at stamp lives here: the repository stores whatever
// transition this layer decides.
type UseCase struct {
	tasks  repository.TaskRepository
	audit  usecase.AuditTrail
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, audit usecase.AuditTrail, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the owner's tasks in insertion order.
func (uc *UseCase) List(ctx context.Context, ownerID string, completed *bool) ([]domain.Task, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{OwnerID: ownerID, Completed: completed})
}

// Get fetches a single task under the ownership rule.
func (uc *UseCase) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return uc.tasks.GetByOwner(ctx, ownerID, id)
}

// Create opens a new task for the owner. Tasks start pending.
func (uc *UseCase) Create(ctx context.Context, ownerID, title, description string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}

	task := &domain.Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
	}
	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, ownerID, usecase.ActionTaskCreate, created.ID, created.Title)
	return created, nil
}

// Update applies a partial change set. Setting completed true for the first
// time stamps completed_at; setting it back to false clears the stamp.
func (uc *UseCase) Update(ctx context.Context, ownerID, id string, changes Changes) (*domain.Task, error) {
	existing, err := uc.tasks.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "title cannot be empty")
		}
		existing.Title = title
	}
	if changes.Description != nil {
		existing.Description = *changes.Description
	}

	action := usecase.ActionTaskUpdate
	if changes.Completed != nil && *changes.Completed != existing.Completed {
		if *changes.Completed {
			completedAt := uc.now().UTC()
			existing.CompletedAt = &completedAt
			action = usecase.ActionTaskComplete
		} else {
			existing.CompletedAt = nil
		}
		existing.Completed = *changes.Completed
	}

	if err := uc.tasks.Update(ctx, existing); err != nil {
		return nil, err
	}

	uc.record(ctx, ownerID, action, existing.ID, existing.Title)
	return existing, nil
}

// Delete removes the owner's task.
func (uc *UseCase) Delete(ctx context.Context, ownerID, id string) error {
	if err := uc.tasks.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	uc.record(ctx, ownerID, usecase.ActionTaskDelete, id, "")
	return nil
}

func (uc *UseCase) record(ctx context.Context, actor, action, entityID, detail string) {
	if uc.audit == nil {
		return
	}
	uc.audit.Record(ctx, actor, action, entityID, detail)
}
