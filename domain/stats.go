package domain

// WeeklyStats is the trailing seven-day completion count for one user.
type WeeklyStats struct {
	CompletedThisWeek int `json:"completed_this_week"`
}

// WeekBucket aggregates one ISO week of a user's tasks, keyed by the week
// the tasks were created in.
type WeekBucket struct {
	Week                 string  `json:"week"`
	WeekStart            string  `json:"week_start"`
	WeekEnd              string  `json:"week_end"`
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}
