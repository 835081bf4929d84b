package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/todopalm/todopalm-api/internal/models"
)

// UserRepositoryInterface defines the interface for user repository operations
// This interface enables better testability by allowing mock implementations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TodoGroupRepositoryInterface defines the interface for todo group repository operations
type TodoGroupRepositoryInterface interface {
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*models.TodoGroup, error)
	GetByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.TodoGroup, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.TodoGroup, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.TodoGroup, error)
	CreateForDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.TodoGroup, error)
	SetLocked(ctx context.Context, id, userID uuid.UUID, locked bool) (*models.TodoGroup, error)
}

// TodoRepositoryInterface defines the interface for todo repository operations
type TodoRepositoryInterface interface {
	Create(ctx context.Context, todo *models.Todo) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Todo, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Todo, error)
	ListByGroup(ctx context.Context, groupID, userID uuid.UUID) ([]*models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	SetCompleted(ctx context.Context, id, userID uuid.UUID, completed bool) (*models.Todo, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// CategoryRepositoryInterface defines the interface for category repository operations
type CategoryRepositoryInterface interface {
	CreateMany(ctx context.Context, categories []*models.Category) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Category, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
	Update(ctx context.Context, id, userID uuid.UUID, name string) (*models.Category, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// Ensure concrete types implement the interfaces
var (
	_ UserRepositoryInterface      = (*UserRepository)(nil)
	_ TodoGroupRepositoryInterface = (*TodoGroupRepository)(nil)
	_ TodoRepositoryInterface      = (*TodoRepository)(nil)
	_ CategoryRepositoryInterface  = (*CategoryRepository)(nil)
)
