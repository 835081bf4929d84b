package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/todopalm/todopalm-api/internal/models"
)

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, icon_tag, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	c := &models.Category{}
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.IconTag,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateMany inserts a batch of categories for one user in a single
// transaction. The original client creates the starter set in one call.
func (r *CategoryRepository) CreateMany(ctx context.Context, categories []*models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin category insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO categories (id, user_id, name, icon_tag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	for _, c := range categories {
		if err := tx.QueryRowContext(ctx, query, c.ID, c.UserID, c.Name, c.IconTag, now, now).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category insert: %w", err)
	}

	return nil
}

// GetByID retrieves a category, scoped to its owner. Returns (nil, nil) when
// no such category exists for the user.
func (r *CategoryRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// ListByUser retrieves all categories for a user
func (r *CategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Update renames a category, scoped to its owner. Returns (nil, nil) when no
// such category exists for the user.
func (r *CategoryRepository) Update(ctx context.Context, id, userID uuid.UUID, name string) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + categoryColumns + `
	`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id, userID, name, time.Now()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete deletes a category. Todos that referenced it keep existing; the
// category_id FK is ON DELETE SET NULL.
func (r *CategoryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("category not found")
	}

	return nil
}
