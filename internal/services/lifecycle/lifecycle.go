// Package lifecycle owns the daily todo group rollover rule: for each user,
// at most one active group at any time, and it is the group for the current
// UTC calendar day. Rollover is computed lazily on demand; there is no
// background sweep.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/todopalm/todopalm-api/internal/database"
	"github.com/todopalm/todopalm-api/internal/models"
	"go.uber.org/zap"
)

// ErrPersistence wraps any store failure during resolution. The transition is
// transactional underneath, so a failed resolution leaves no partial state.
var ErrPersistence = errors.New("todo group persistence failure")

// GroupStore is the slice of the todo group repository the manager needs.
type GroupStore interface {
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*models.TodoGroup, error)
	GetByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.TodoGroup, error)
	CreateForDay(ctx context.Context, userID uuid.UUID, day time.Time) (*models.TodoGroup, error)
	SetLocked(ctx context.Context, id, userID uuid.UUID, locked bool) (*models.TodoGroup, error)
}

// Manager resolves a user's current daily group
type Manager struct {
	groups GroupStore
	logger *zap.Logger
}

// NewManager creates a lifecycle manager
func NewManager(groups GroupStore, logger *zap.Logger) *Manager {
	return &Manager{groups: groups, logger: logger}
}

// Resolve returns the user's group for now's UTC calendar date, creating it
// and retiring stale groups if the day has advanced. Repeated calls within
// one day return the same group without further writes. A concurrent request
// winning the creation race is not an error: the unique (user, day)
// constraint surfaces it and the winning row is re-fetched.
func (m *Manager) Resolve(ctx context.Context, userID uuid.UUID, now time.Time) (*models.TodoGroup, error) {
	latest, err := m.groups.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Common case: today's group already exists.
	if latest != nil && models.SameDay(latest.Day, now) {
		return latest, nil
	}

	group, err := m.groups.CreateForDay(ctx, userID, now)
	if err == nil {
		m.logger.Info("todo_group_rolled_over",
			zap.String("user_id", userID.String()),
			zap.String("day", group.Day.Format("2006-01-02")),
		)
		return group, nil
	}

	if errors.Is(err, database.ErrDuplicateGroupDay) {
		group, err := m.groups.GetByUserAndDay(ctx, userID, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if group == nil {
			// The winning row should exist; its absence means the store is
			// inconsistent mid-flight.
			return nil, fmt.Errorf("%w: todays group vanished after duplicate insert", ErrPersistence)
		}
		return group, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
}

// Lock sets the lock flag on a group. Locking is an explicit action, never a
// side effect of rollover, and is independent of active/inactive status.
// Returns (nil, nil) when the group does not exist for the user.
func (m *Manager) Lock(ctx context.Context, groupID, userID uuid.UUID) (*models.TodoGroup, error) {
	group, err := m.groups.SetLocked(ctx, groupID, userID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return group, nil
}
