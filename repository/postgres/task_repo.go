package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
// Ownership scoping happens inside the SQL predicates: a task belonging to a
// different user is indistinguishable from a missing one.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, completed, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		nullTime(task.CompletedAt),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.OwnerID == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	SELECT id, user_id, title, description, completed, completed_at, created_at, updated_at
	FROM tasks
	WHERE user_id = $1
	  AND ($2::boolean IS NULL OR completed = $2)
	ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, filter.OwnerID, filter.Completed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, completed, completed_at, created_at, updated_at
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`
	return scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" || task.UserID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		completed = $5,
		completed_at = $6,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		nullTime(task.CompletedAt),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CountCompletedBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM tasks
	WHERE user_id = $1
	  AND completed = TRUE
	  AND completed_at > $2
	  AND completed_at <= $3
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, ownerID, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var completedAt *time.Time

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.CompletedAt = completedAt
	return &task, nil
}
