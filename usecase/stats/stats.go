package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const trailingWindow = 7 * 24 * time.Hour

// UseCase aggregates completion statistics over the task repository. It is
// read-only and holds no cache: correctness rests entirely on completed_at
// being stamped by the task use case.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
	}
}

// Weekly counts the owner's tasks completed inside the trailing seven days.
func (uc *UseCase) Weekly(ctx context.Context, ownerID string) (*domain.WeeklyStats, error) {
	to := uc.now().UTC()
	from := to.Add(-trailingWindow)

	count, err := uc.tasks.CountCompletedBetween(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	return &domain.WeeklyStats{CompletedThisWeek: count}, nil
}

// Breakdown groups the owner's tasks by the ISO week they were created in
// and reports per-week completion percentages, oldest week first.
func (uc *UseCase) Breakdown(ctx context.Context, ownerID string) ([]domain.WeekBucket, error) {
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	type tally struct {
		total     int
		completed int
	}
	weeks := make(map[string]*tally)
	for _, task := range tasks {
		year, week := task.CreatedAt.UTC().ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		t := weeks[key]
		if t == nil {
			t = &tally{}
			weeks[key] = t
		}
		t.total++
		if task.Completed {
			t.completed++
		}
	}

	buckets := make([]domain.WeekBucket, 0, len(weeks))
	for key, t := range weeks {
		var year, week int
		if _, err := fmt.Sscanf(key, "%d-W%d", &year, &week); err != nil {
			continue
		}
		start := isoWeekStart(year, week)
		end := start.AddDate(0, 0, 6)

		percentage := 0.0
		if t.total > 0 {
			percentage = math.Round(float64(t.completed)/float64(t.total)*10000) / 100
		}

		buckets = append(buckets, domain.WeekBucket{
			Week:                 key,
			WeekStart:            start.Format("2006-01-02"),
			WeekEnd:              end.Format("2006-01-02"),
			TotalTasks:           t.total,
			CompletedTasks:       t.completed,
			CompletionPercentage: percentage,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Week < buckets[j].Week
	})
	return buckets, nil
}

// isoWeekStart returns the Monday of the given ISO week. January 4th always
// falls in ISO week 1.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -weekday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}
