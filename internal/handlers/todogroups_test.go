package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/todopalm/todopalm-api/internal/models"
	"github.com/todopalm/todopalm-api/internal/request"
	"github.com/todopalm/todopalm-api/internal/services/lifecycle"
	"go.uber.org/zap"
)

type groupFixture struct {
	userID uuid.UUID
	groups *fakeGroupRepo
	todos  *fakeTodoRepo
	router *mux.Router
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()
	f := &groupFixture{
		userID: uuid.New(),
		groups: &fakeGroupRepo{},
		todos:  &fakeTodoRepo{},
	}
	daily := lifecycle.NewManager(f.groups, zap.NewNop())
	h := NewTodoGroupHandler(f.groups, f.todos, daily, zap.NewNop())
	f.router = mux.NewRouter()
	h.RegisterRoutes(f.router.PathPrefix("/todo-groups").Subrouter())
	return f
}

func (f *groupFixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req = req.WithContext(request.WithPrincipal(req.Context(), f.userID))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *groupFixture) seed(day time.Time) *models.TodoGroup {
	group := &models.TodoGroup{
		ID:     uuid.New(),
		UserID: f.userID,
		Status: models.GroupStatusActive,
		Day:    models.DayOf(day),
	}
	f.groups.groups = append(f.groups.groups, group)
	return group
}

func TestListGroupsBucketsTodos(t *testing.T) {
	t.Parallel()
	f := newGroupFixture(t)
	today := f.seed(time.Now())
	yesterday := f.seed(time.Now().AddDate(0, 0, -1))

	f.todos.todos = append(f.todos.todos,
		&models.Todo{ID: uuid.New(), UserID: f.userID, TodoGroupID: today.ID, Title: "a"},
		&models.Todo{ID: uuid.New(), UserID: f.userID, TodoGroupID: today.ID, Title: "b"},
		&models.Todo{ID: uuid.New(), UserID: f.userID, TodoGroupID: yesterday.ID, Title: "c"},
	)

	rec := f.do(t, "GET", "/todo-groups")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []*models.TodoGroup `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("groups = %d, want 2", len(body.Data))
	}

	counts := map[uuid.UUID]int{}
	for _, g := range body.Data {
		counts[g.ID] = len(g.Todos)
	}
	if counts[today.ID] != 2 {
		t.Errorf("today's todos = %d, want 2", counts[today.ID])
	}
	if counts[yesterday.ID] != 1 {
		t.Errorf("yesterday's todos = %d, want 1", counts[yesterday.ID])
	}
}

func TestGetGroupWithTodos(t *testing.T) {
	t.Parallel()
	f := newGroupFixture(t)
	group := f.seed(time.Now())
	f.todos.todos = append(f.todos.todos,
		&models.Todo{ID: uuid.New(), UserID: f.userID, TodoGroupID: group.ID, Title: "a"},
	)

	rec := f.do(t, "GET", "/todo-groups/"+group.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data *models.TodoGroup `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if len(body.Data.Todos) != 1 {
		t.Errorf("todos = %d, want 1", len(body.Data.Todos))
	}
}

func TestGetGroupScopedToOwner(t *testing.T) {
	t.Parallel()
	f := newGroupFixture(t)

	// A group belonging to someone else is invisible, not forbidden.
	other := &models.TodoGroup{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: models.GroupStatusActive,
		Day:    models.DayOf(time.Now()),
	}
	f.groups.groups = append(f.groups.groups, other)

	rec := f.do(t, "GET", "/todo-groups/"+other.ID.String())
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLockGroup(t *testing.T) {
	t.Parallel()
	f := newGroupFixture(t)
	group := f.seed(time.Now())

	rec := f.do(t, "PUT", "/todo-groups/"+group.ID.String()+"/lock")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !group.IsLocked {
		t.Error("group not locked")
	}

	rec = f.do(t, "PUT", "/todo-groups/"+uuid.New().String()+"/lock")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown group status = %d, want 404", rec.Code)
	}
}
