package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/todopalm/todopalm-api/internal/models"
)

// TodoRepository handles todo database operations
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, user_id, todo_group_id, category_id, title, content, is_completed, deadline, completed_at, created_at, updated_at`

func scanTodo(row interface{ Scan(...any) error }) (*models.Todo, error) {
	todo := &models.Todo{}
	var deadline, completedAt sql.NullTime
	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.TodoGroupID,
		&todo.CategoryID,
		&todo.Title,
		&todo.Content,
		&todo.IsCompleted,
		&deadline,
		&completedAt,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		todo.Deadline = &deadline.Time
	}
	if completedAt.Valid {
		todo.CompletedAt = &completedAt.Time
	}
	return todo, nil
}

// Create creates a new todo
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, todo_group_id, category_id, title, content, is_completed, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		todo.ID,
		todo.UserID,
		todo.TodoGroupID,
		todo.CategoryID,
		todo.Title,
		todo.Content,
		todo.Deadline,
		now,
		now,
	).Scan(&todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetByID retrieves a todo by ID, scoped to its owner. Returns (nil, nil)
// when no such todo exists for the user.
func (r *TodoRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// ListByUser retrieves all todos for a user, newest first
func (r *TodoRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListByGroup retrieves the todos in one group with their categories joined,
// scoped to the owner.
func (r *TodoRepository) ListByGroup(ctx context.Context, groupID, userID uuid.UUID) ([]*models.Todo, error) {
	query := `
		SELECT t.id, t.user_id, t.todo_group_id, t.category_id, t.title, t.content,
		       t.is_completed, t.deadline, t.completed_at, t.created_at, t.updated_at,
		       c.id, c.user_id, c.name, c.icon_tag, c.created_at, c.updated_at
		FROM todos t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.todo_group_id = $1 AND t.user_id = $2
		ORDER BY t.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		todo := &models.Todo{}
		var deadline, completedAt sql.NullTime
		var catID, catUserID *uuid.UUID
		var catName, catIconTag sql.NullString
		var catCreatedAt, catUpdatedAt sql.NullTime

		err := rows.Scan(
			&todo.ID,
			&todo.UserID,
			&todo.TodoGroupID,
			&todo.CategoryID,
			&todo.Title,
			&todo.Content,
			&todo.IsCompleted,
			&deadline,
			&completedAt,
			&todo.CreatedAt,
			&todo.UpdatedAt,
			&catID,
			&catUserID,
			&catName,
			&catIconTag,
			&catCreatedAt,
			&catUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}

		if deadline.Valid {
			todo.Deadline = &deadline.Time
		}
		if completedAt.Valid {
			todo.CompletedAt = &completedAt.Time
		}
		if catID != nil {
			todo.Category = &models.Category{
				ID:        *catID,
				UserID:    *catUserID,
				Name:      catName.String,
				IconTag:   catIconTag.String,
				CreatedAt: catCreatedAt.Time,
				UpdatedAt: catUpdatedAt.Time,
			}
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepository) list(ctx context.Context, query string, args ...any) ([]*models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// Update updates a todo's title, content, category and deadline
func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET title = $3, content = $4, category_id = $5, deadline = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`

	var deadline sql.NullTime
	if todo.Deadline != nil {
		deadline = sql.NullTime{Time: *todo.Deadline, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Content,
		todo.CategoryID,
		deadline,
		time.Now(),
	).Scan(&todo.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("todo not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

// SetCompleted sets the completion flag and keeps completed_at consistent
// with it in a single statement: set when completing, cleared when
// uncompleting. Returns (nil, nil) when the todo does not exist for the user.
func (r *TodoRepository) SetCompleted(ctx context.Context, id, userID uuid.UUID, completed bool) (*models.Todo, error) {
	query := `
		UPDATE todos
		SET is_completed = $3,
		    completed_at = CASE WHEN $3 AND NOT is_completed THEN $4
		                        WHEN NOT $3 THEN NULL
		                        ELSE completed_at END,
		    updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns + `
	`

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID, completed, time.Now()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set todo completion: %w", err)
	}

	return todo, nil
}

// Delete deletes a todo, scoped to its owner
func (r *TodoRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("todo not found")
	}

	return nil
}
