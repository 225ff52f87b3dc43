package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskhive/backend/api/handler"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/router"
	"github.com/taskhive/backend/pkg/token"
	"github.com/taskhive/backend/repository"
	authUC "github.com/taskhive/backend/usecase/auth"
	statsUC "github.com/taskhive/backend/usecase/stats"
	taskUC "github.com/taskhive/backend/usecase/task"
)

type memUserRepo struct {
	byUsername map[string]*domain.User
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, ok := r.byUsername[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	clone := *user
	r.byUsername[user.Username] = &clone
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, user := range r.byUsername {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

type memTaskRepo struct {
	tasks []domain.Task
}

func (r *memTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	task.ID = uuid.NewString()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks = append(r.tasks, *task)
	clone := *task
	return &clone, nil
}

func (r *memTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		if task.UserID != filter.OwnerID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (r *memTaskRepo) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	for _, task := range r.tasks {
		if task.ID == id && task.UserID == ownerID {
			clone := task
			return &clone, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *memTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	for i := range r.tasks {
		if r.tasks[i].ID == task.ID && r.tasks[i].UserID == task.UserID {
			task.UpdatedAt = time.Now()
			r.tasks[i] = *task
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (r *memTaskRepo) Delete(ctx context.Context, ownerID, id string) error {
	for i := range r.tasks {
		if r.tasks[i].ID == id && r.tasks[i].UserID == ownerID {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (r *memTaskRepo) CountCompletedBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	count := 0
	for _, task := range r.tasks {
		if task.UserID == ownerID && task.CompletedWithin(from, to) {
			count++
		}
	}
	return count, nil
}

func newTestHandler(t *testing.T) fasthttp.RequestHandler {
	t.Helper()

	users := &memUserRepo{byUsername: make(map[string]*domain.User)}
	tasks := &memTaskRepo{}
	tokens := token.New("test-secret", "taskhive-test", 30*time.Minute)

	authUseCase := authUC.New(users, nil, tokens, nil, authUC.ThrottlePolicy{}, nil)
	taskUseCase := taskUC.New(tasks, nil, nil)
	statsUseCase := statsUC.New(tasks, nil)

	handlers := router.Handlers{
		Auth:  apiHandler.NewAuthHandler(authUseCase, nil, nil),
		Task:  apiHandler.NewTaskHandler(taskUseCase, nil, nil),
		Stats: apiHandler.NewStatsHandler(statsUseCase, nil, nil),
	}

	r := router.New(handlers, middleware.BearerAuth(tokens, nil))
	return r.Handler
}

func perform(handler fasthttp.RequestHandler, method, path, bearer string, body []byte, contentType string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if contentType != "" {
		ctx.Request.Header.SetContentType(contentType)
	}
	if bearer != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		ctx.Request.SetBody(body)
	}
	handler(ctx)
	return ctx
}

func performJSON(handler fasthttp.RequestHandler, method, path, bearer string, payload interface{}) *fasthttp.RequestCtx {
	var body []byte
	if payload != nil {
		body, _ = json.Marshal(payload)
	}
	return perform(handler, method, path, bearer, body, "application/json")
}

func register(t *testing.T, handler fasthttp.RequestHandler, username, password string) *fasthttp.RequestCtx {
	t.Helper()
	return performJSON(handler, fasthttp.MethodPost, "/users/", "", map[string]string{
		"username": username,
		"password": password,
	})
}

func login(t *testing.T, handler fasthttp.RequestHandler, username, password string) string {
	t.Helper()
	form := fmt.Sprintf("username=%s&password=%s", username, password)
	ctx := perform(handler, fasthttp.MethodPost, "/token", "", []byte(form), "application/x-www-form-urlencoded")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestRegisterEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	ctx := register(t, handler, "alice", "pw123")
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())

	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &user))
	assert.Equal(t, "alice", user["username"])
	assert.NotEmpty(t, user["id"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, string(ctx.Response.Body()), "pw123")
}

func TestRegisterDuplicateConflict(t *testing.T) {
	handler := newTestHandler(t)

	require.Equal(t, fasthttp.StatusCreated, register(t, handler, "alice", "pw123").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusConflict, register(t, handler, "alice", "other").Response.StatusCode())
}

func TestRegisterMalformedBody(t *testing.T) {
	handler := newTestHandler(t)

	ctx := perform(handler, fasthttp.MethodPost, "/users/", "", []byte("{not json"), "application/json")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestTokenBadCredentials(t *testing.T) {
	handler := newTestHandler(t)
	register(t, handler, "alice", "pw123")

	ctx := perform(handler, fasthttp.MethodPost, "/token", "", []byte("username=alice&password=wrong"), "application/x-www-form-urlencoded")
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler := newTestHandler(t)

	for _, tc := range []struct{ method, path string }{
		{fasthttp.MethodGet, "/tasks/"},
		{fasthttp.MethodPost, "/tasks/"},
		{fasthttp.MethodGet, "/tasks/stats"},
		{fasthttp.MethodGet, "/users/me"},
	} {
		ctx := perform(handler, tc.method, tc.path, "", nil, "")
		assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode(), "%s %s", tc.method, tc.path)
	}
}

func TestTaskLifecycle(t *testing.T) {
	handler := newTestHandler(t)

	register(t, handler, "alice", "pw123")
	bearer := login(t, handler, "alice", "pw123")

	// Create a task.
	ctx := performJSON(handler, fasthttp.MethodPost, "/tasks/", bearer, map[string]string{
		"title":       "buy milk",
		"description": "2 liters",
	})
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())

	var created domain.Task
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &created))
	assert.False(t, created.Completed)
	assert.Nil(t, created.CompletedAt)

	// It shows up in the listing.
	ctx = perform(handler, fasthttp.MethodGet, "/tasks/", bearer, nil, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var listed []domain.Task
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &listed))
	require.Len(t, listed, 1)

	// Complete it.
	ctx = performJSON(handler, fasthttp.MethodPut, "/tasks/"+created.ID, bearer, map[string]bool{"completed": true})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var updated domain.Task
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &updated))
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)

	// Stats count the completion.
	ctx = perform(handler, fasthttp.MethodGet, "/tasks/stats", bearer, nil, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var stats domain.WeeklyStats
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &stats))
	assert.Equal(t, 1, stats.CompletedThisWeek)

	// Delete it.
	ctx = perform(handler, fasthttp.MethodDelete, "/tasks/"+created.ID, bearer, nil, "")
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())

	ctx = perform(handler, fasthttp.MethodGet, "/tasks/"+created.ID, bearer, nil, "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestTasksAreOwnerScoped(t *testing.T) {
	handler := newTestHandler(t)

	register(t, handler, "alice", "pw123")
	register(t, handler, "bob", "pw456")
	aliceToken := login(t, handler, "alice", "pw123")
	bobToken := login(t, handler, "bob", "pw456")

	ctx := performJSON(handler, fasthttp.MethodPost, "/tasks/", aliceToken, map[string]string{"title": "private"})
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
	var created domain.Task
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &created))

	// Bob cannot see, change, or delete Alice's task.
	ctx = perform(handler, fasthttp.MethodGet, "/tasks/"+created.ID, bobToken, nil, "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = performJSON(handler, fasthttp.MethodPut, "/tasks/"+created.ID, bobToken, map[string]bool{"completed": true})
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = perform(handler, fasthttp.MethodDelete, "/tasks/"+created.ID, bobToken, nil, "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = perform(handler, fasthttp.MethodGet, "/tasks/", bobToken, nil, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var listed []domain.Task
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &listed))
	assert.Empty(t, listed)
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	handler := newTestHandler(t)

	register(t, handler, "alice", "pw123")
	bearer := login(t, handler, "alice", "pw123")

	ctx := performJSON(handler, fasthttp.MethodPost, "/tasks/", bearer, map[string]string{"description": "no title"})
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestCurrentUserEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	register(t, handler, "alice", "pw123")
	bearer := login(t, handler, "alice", "pw123")

	ctx := perform(handler, fasthttp.MethodGet, "/users/me", bearer, nil, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var user domain.User
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &user))
	assert.Equal(t, "alice", user.Username)
}

func TestWeeklyBreakdownEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	register(t, handler, "alice", "pw123")
	bearer := login(t, handler, "alice", "pw123")

	ctx := performJSON(handler, fasthttp.MethodPost, "/tasks/", bearer, map[string]string{"title": "one"})
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
	var created domain.Task
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &created))

	ctx = performJSON(handler, fasthttp.MethodPut, "/tasks/"+created.ID, bearer, map[string]bool{"completed": true})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx = perform(handler, fasthttp.MethodGet, "/tasks/stats/weekly", bearer, nil, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp struct {
		TotalWeeks  int `json:"total_weeks"`
		WeeklyStats []struct {
			Week                 string  `json:"week"`
			TotalTasks           int     `json:"total_tasks"`
			CompletedTasks       int     `json:"completed_tasks"`
			CompletionPercentage float64 `json:"completion_percentage"`
		} `json:"weekly_stats"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Equal(t, 1, resp.TotalWeeks)
	assert.Equal(t, 1, resp.WeeklyStats[0].TotalTasks)
	assert.Equal(t, 1, resp.WeeklyStats[0].CompletedTasks)
	assert.InDelta(t, 100.0, resp.WeeklyStats[0].CompletionPercentage, 0.001)
}
