package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/todopalm/todopalm-api/internal/database"
	"github.com/todopalm/todopalm-api/internal/models"
)

// In-memory repository fakes shared by the handler tests.

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	delete(f.users, id)
	return nil
}

type fakeGroupRepo struct {
	groups []*models.TodoGroup
	err    error
}

func (f *fakeGroupRepo) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*models.TodoGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	var latest *models.TodoGroup
	for _, g := range f.groups {
		if g.UserID != userID {
			continue
		}
		if latest == nil || g.Day.After(latest.Day) {
			latest = g
		}
	}
	return latest, nil
}

func (f *fakeGroupRepo) GetByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.TodoGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := models.DayOf(day)
	for _, g := range f.groups {
		if g.UserID == userID && g.Day.Equal(want) {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.TodoGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, g := range f.groups {
		if g.ID == id && g.UserID == userID {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGroupRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.TodoGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.TodoGroup
	for _, g := range f.groups {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) CreateForDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.TodoGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := models.DayOf(day)
	for _, g := range f.groups {
		if g.UserID == userID && g.Day.Equal(want) {
			return nil, database.ErrDuplicateGroupDay
		}
	}
	for _, g := range f.groups {
		if g.UserID == userID && g.Day.Before(want) {
			g.Status = models.GroupStatusInactive
		}
	}
	group := &models.TodoGroup{
		ID:     uuid.New(),
		UserID: userID,
		Status: models.GroupStatusActive,
		Day:    want,
	}
	f.groups = append(f.groups, group)
	return group, nil
}

func (f *fakeGroupRepo) SetLocked(ctx context.Context, id, userID uuid.UUID, locked bool) (*models.TodoGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, g := range f.groups {
		if g.ID == id && g.UserID == userID {
			g.IsLocked = locked
			return g, nil
		}
	}
	return nil, nil
}

type fakeTodoRepo struct {
	todos []*models.Todo
	err   error
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo *models.Todo) error {
	if f.err != nil {
		return f.err
	}
	f.todos = append(f.todos, todo)
	return nil
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, td := range f.todos {
		if td.ID == id && td.UserID == userID {
			return td, nil
		}
	}
	return nil, nil
}

func (f *fakeTodoRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Todo
	for _, td := range f.todos {
		if td.UserID == userID {
			out = append(out, td)
		}
	}
	return out, nil
}

func (f *fakeTodoRepo) ListByGroup(ctx context.Context, groupID, userID uuid.UUID) ([]*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Todo
	for _, td := range f.todos {
		if td.TodoGroupID == groupID && td.UserID == userID {
			out = append(out, td)
		}
	}
	return out, nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, todo *models.Todo) error {
	if f.err != nil {
		return f.err
	}
	for i, td := range f.todos {
		if td.ID == todo.ID {
			f.todos[i] = todo
			return nil
		}
	}
	return nil
}

func (f *fakeTodoRepo) SetCompleted(ctx context.Context, id, userID uuid.UUID, completed bool) (*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, td := range f.todos {
		if td.ID == id && td.UserID == userID {
			td.SetCompleted(completed, time.Now())
			return td, nil
		}
	}
	return nil, nil
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	for i, td := range f.todos {
		if td.ID == id && td.UserID == userID {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeCategoryRepo struct {
	categories []*models.Category
	err        error
}

func (f *fakeCategoryRepo) CreateMany(ctx context.Context, categories []*models.Category) error {
	if f.err != nil {
		return f.err
	}
	f.categories = append(f.categories, categories...)
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.categories {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Category
	for _, c := range f.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, id, userID uuid.UUID, name string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.categories {
		if c.ID == id && c.UserID == userID {
			c.Name = name
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	for i, c := range f.categories {
		if c.ID == id && c.UserID == userID {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return nil
}
