package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupStatus represents the lifecycle state of a todo group
type GroupStatus string

const (
	GroupStatusActive   GroupStatus = "active"
	GroupStatusInactive GroupStatus = "inactive"
)

// TodoGroup is the daily container holding a user's todos for one calendar
// date. For any user at most one group is active, and it is the group for the
// current UTC day. IsLocked is independent of status: a locked group rejects
// todo mutation even while active.
type TodoGroup struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Status    GroupStatus `json:"status"`
	IsLocked  bool        `json:"isLocked"`
	Day       time.Time   `json:"day"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Todos     []*Todo     `json:"todos,omitempty"`
}

// DayOf truncates t to its UTC calendar date. All rollover decisions and the
// todo_groups day column use this anchor.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
