package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/todopalm/todopalm-api/internal/models"
)

// TodoGroupRepository handles todo group database operations
type TodoGroupRepository struct {
	db *DB
}

// NewTodoGroupRepository creates a new todo group repository
func NewTodoGroupRepository(db *DB) *TodoGroupRepository {
	return &TodoGroupRepository{db: db}
}

const todoGroupColumns = `id, user_id, status, is_locked, day, created_at, updated_at`

func scanTodoGroup(row interface{ Scan(...any) error }) (*models.TodoGroup, error) {
	g := &models.TodoGroup{}
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Status,
		&g.IsLocked,
		&g.Day,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Day = models.DayOf(g.Day)
	return g, nil
}

// GetLatestByUser returns the most recently created group for a user, or
// (nil, nil) when the user has no groups yet.
func (r *TodoGroupRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*models.TodoGroup, error) {
	query := `
		SELECT ` + todoGroupColumns + `
		FROM todo_groups
		WHERE user_id = $1
		ORDER BY day DESC
		LIMIT 1
	`

	group, err := scanTodoGroup(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest todo group: %w", err)
	}

	return group, nil
}

// GetByUserAndDay returns the user's group for the given UTC day, or
// (nil, nil) when none exists.
func (r *TodoGroupRepository) GetByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.TodoGroup, error) {
	query := `
		SELECT ` + todoGroupColumns + `
		FROM todo_groups
		WHERE user_id = $1 AND day = $2
	`

	group, err := scanTodoGroup(r.db.QueryRowContext(ctx, query, userID, models.DayOf(day)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo group by day: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by ID, scoped to its owner
func (r *TodoGroupRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.TodoGroup, error) {
	query := `
		SELECT ` + todoGroupColumns + `
		FROM todo_groups
		WHERE id = $1 AND user_id = $2
	`

	group, err := scanTodoGroup(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo group: %w", err)
	}

	return group, nil
}

// ListByUser returns all of a user's groups, newest first
func (r *TodoGroupRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.TodoGroup, error) {
	query := `
		SELECT ` + todoGroupColumns + `
		FROM todo_groups
		WHERE user_id = $1
		ORDER BY day DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todo groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.TodoGroup
	for rows.Next() {
		group, err := scanTodoGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo group: %w", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo groups: %w", err)
	}

	return groups, nil
}

// CreateForDay atomically retires every group from days before day and
// inserts a new active, unlocked group for day. Both statements run in one
// transaction, so a failure leaves no partial state. An insert that loses a
// race to a concurrent request returns ErrDuplicateGroupDay via the
// UNIQUE (user_id, day) constraint.
func (r *TodoGroupRepository) CreateForDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.TodoGroup, error) {
	day = models.DayOf(day)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rollover: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Idempotent: already-inactive groups are unaffected.
	deactivate := `
		UPDATE todo_groups
		SET status = $3, updated_at = $4
		WHERE user_id = $1 AND day < $2 AND status = $5
	`
	now := time.Now()
	if _, err := tx.ExecContext(ctx, deactivate, userID, day, models.GroupStatusInactive, now, models.GroupStatusActive); err != nil {
		return nil, fmt.Errorf("failed to deactivate prior todo groups: %w", err)
	}

	insert := `
		INSERT INTO todo_groups (id, user_id, status, is_locked, day, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $5, $6)
		RETURNING ` + todoGroupColumns + `
	`
	group, err := scanTodoGroup(tx.QueryRowContext(ctx, insert, uuid.New(), userID, models.GroupStatusActive, day, now, now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateGroupDay
		}
		return nil, fmt.Errorf("failed to create todo group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rollover: %w", err)
	}

	return group, nil
}

// SetLocked sets the lock flag on a group, scoped to its owner
func (r *TodoGroupRepository) SetLocked(ctx context.Context, id, userID uuid.UUID, locked bool) (*models.TodoGroup, error) {
	query := `
		UPDATE todo_groups
		SET is_locked = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoGroupColumns + `
	`

	group, err := scanTodoGroup(r.db.QueryRowContext(ctx, query, id, userID, locked, time.Now()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock todo group: %w", err)
	}

	return group, nil
}
