package repository

import (
	"context"
	"time"

	"github.com/taskhive/backend/domain"
)

// TaskFilter narrows a listing to one owner and, optionally, a completion
// state. OwnerID is mandatory: no query runs unscoped.
type TaskFilter struct {
	OwnerID   string
	Completed *bool
}

// TaskRepository owns task records. Every operation takes the owner's id and
// treats tasks belonging to anyone else as absent.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, ownerID, id string) error
	CountCompletedBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error)
}
