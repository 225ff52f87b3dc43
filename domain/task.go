package domain

import "time"

// Task is a user-owned activity item. CompletedAt is set exactly when
// Completed transitions from false to true and cleared on the reverse
// transition; it is the sole input to the weekly stats aggregation.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CompletedWithin reports whether the task was completed inside (from, to].
func (t *Task) CompletedWithin(from, to time.Time) bool {
	if t == nil || t.CompletedAt == nil {
		return false
	}
	return t.CompletedAt.After(from) && !t.CompletedAt.After(to)
}
