package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/todopalm/todopalm-api/internal/models"
	"github.com/todopalm/todopalm-api/internal/request"
	"github.com/todopalm/todopalm-api/internal/services/lifecycle"
	"go.uber.org/zap"
)

type todoFixture struct {
	userID uuid.UUID
	todos  *fakeTodoRepo
	groups *fakeGroupRepo
	router *mux.Router
}

func newTodoFixture(t *testing.T) *todoFixture {
	t.Helper()
	f := &todoFixture{
		userID: uuid.New(),
		todos:  &fakeTodoRepo{},
		groups: &fakeGroupRepo{},
	}
	daily := lifecycle.NewManager(f.groups, zap.NewNop())
	h := NewTodoHandler(f.todos, f.groups, daily, zap.NewNop())
	f.router = mux.NewRouter()
	h.RegisterRoutes(f.router.PathPrefix("/todos").Subrouter())
	return f
}

func (f *todoFixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req = req.WithContext(request.WithPrincipal(req.Context(), f.userID))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// seedGroup inserts a group for the given day and returns it
func (f *todoFixture) seedGroup(day time.Time, locked bool) *models.TodoGroup {
	group := &models.TodoGroup{
		ID:       uuid.New(),
		UserID:   f.userID,
		Status:   models.GroupStatusActive,
		IsLocked: locked,
		Day:      models.DayOf(day),
	}
	f.groups.groups = append(f.groups.groups, group)
	return group
}

func (f *todoFixture) seedTodo(group *models.TodoGroup, title string) *models.Todo {
	todo := &models.Todo{
		ID:          uuid.New(),
		UserID:      f.userID,
		TodoGroupID: group.ID,
		Title:       title,
	}
	f.todos.todos = append(f.todos.todos, todo)
	return todo
}

func TestCreateTodoLandsInTodaysGroup(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)

	rec := f.do(t, "POST", "/todos", CreateTodoRequest{Title: "buy milk"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	if len(f.todos.todos) != 1 {
		t.Fatalf("stored todos = %d, want 1", len(f.todos.todos))
	}
	created := f.todos.todos[0]

	today, err := f.groups.GetByUserAndDay(context.Background(), f.userID, time.Now())
	if err != nil || today == nil {
		t.Fatalf("today's group not created: %v", err)
	}
	if created.TodoGroupID != today.ID {
		t.Errorf("todo group = %s, want today's group %s", created.TodoGroupID, today.ID)
	}
}

func TestCreateTodoAssignsID(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)

	for _, title := range []string{"first", "second"} {
		rec := f.do(t, "POST", "/todos", CreateTodoRequest{Title: title})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %q: status = %d, body %s", title, rec.Code, rec.Body.String())
		}
	}

	seen := make(map[uuid.UUID]bool)
	for _, td := range f.todos.todos {
		if td.ID == uuid.Nil {
			t.Fatalf("todo %q stored with a nil id", td.Title)
		}
		if seen[td.ID] {
			t.Fatalf("todo id %s assigned twice", td.ID)
		}
		seen[td.ID] = true
	}
}

func TestCreateTodoRetiresStaleGroup(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)
	stale := f.seedGroup(time.Now().AddDate(0, 0, -1), false)

	rec := f.do(t, "POST", "/todos", CreateTodoRequest{Title: "new day"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	if stale.Status != models.GroupStatusInactive {
		t.Error("yesterday's group still active after create")
	}
	created := f.todos.todos[0]
	if created.TodoGroupID == stale.ID {
		t.Error("todo landed in yesterday's group")
	}
}

func TestCreateTodoLockedGroup(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)
	f.seedGroup(time.Now(), true)

	rec := f.do(t, "POST", "/todos", CreateTodoRequest{Title: "nope"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", rec.Code, rec.Body.String())
	}
	if len(f.todos.todos) != 0 {
		t.Error("todo created despite locked group")
	}
}

func TestCreateTodoValidation(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)

	tests := []struct {
		name string
		req  CreateTodoRequest
	}{
		{"empty title", CreateTodoRequest{}},
		{"whitespace only title survives sanitization as empty", CreateTodoRequest{Title: "\x00\x01"}},
		{"title too long", CreateTodoRequest{Title: strings.Repeat("a", 501)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, "POST", "/todos", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCompleteAndUncompleteTodo(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)
	group := f.seedGroup(time.Now(), false)
	todo := f.seedTodo(group, "task")

	rec := f.do(t, "PUT", "/todos/"+todo.ID.String()+"/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !todo.IsCompleted || todo.CompletedAt == nil {
		t.Fatal("todo not completed with timestamp")
	}

	rec = f.do(t, "PUT", "/todos/"+todo.ID.String()+"/uncomplete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("uncomplete status = %d, body %s", rec.Code, rec.Body.String())
	}
	if todo.IsCompleted || todo.CompletedAt != nil {
		t.Fatal("uncomplete left completion state behind")
	}
}

func TestMutationsRejectedOnLockedGroup(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)
	group := f.seedGroup(time.Now(), true)
	todo := f.seedTodo(group, "frozen")

	title := "renamed"
	tests := []struct {
		name   string
		method string
		target string
		body   any
	}{
		{"update", "PUT", "/todos/" + todo.ID.String(), UpdateTodoRequest{Title: &title}},
		{"complete", "PUT", "/todos/" + todo.ID.String() + "/complete", nil},
		{"uncomplete", "PUT", "/todos/" + todo.ID.String() + "/uncomplete", nil},
		{"delete", "DELETE", "/todos/" + todo.ID.String(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusConflict {
				t.Errorf("status = %d, want 409, body %s", rec.Code, rec.Body.String())
			}
		})
	}

	if todo.Title != "frozen" || todo.IsCompleted {
		t.Error("locked todo was mutated")
	}
	if len(f.todos.todos) != 1 {
		t.Error("locked todo was deleted")
	}
}

func TestUpdateTodo(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)
	group := f.seedGroup(time.Now(), false)
	todo := f.seedTodo(group, "old title")

	title := "new title"
	content := "details"
	rec := f.do(t, "PUT", "/todos/"+todo.ID.String(), UpdateTodoRequest{Title: &title, Content: &content})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if todo.Title != "new title" || todo.Content != "details" {
		t.Errorf("todo = %+v, update not applied", todo)
	}
}

func TestGetTodoNotFound(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)

	rec := f.do(t, "GET", "/todos/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteTodo(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)
	group := f.seedGroup(time.Now(), false)
	todo := f.seedTodo(group, "doomed")

	rec := f.do(t, "DELETE", "/todos/"+todo.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(f.todos.todos) != 0 {
		t.Error("todo still present after delete")
	}
}

func TestListTodosScopedToUser(t *testing.T) {
	t.Parallel()
	f := newTodoFixture(t)
	group := f.seedGroup(time.Now(), false)
	f.seedTodo(group, "mine")

	// Another user's todo must not appear.
	f.todos.todos = append(f.todos.todos, &models.Todo{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		TodoGroupID: uuid.New(),
		Title:       "not mine",
	})

	rec := f.do(t, "GET", "/todos", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if len(body.Data) != 1 {
		t.Errorf("todos = %d, want 1", len(body.Data))
	}
}
