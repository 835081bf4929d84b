package models

import (
	"time"

	"github.com/google/uuid"
)

// Todo represents a single task. Every todo belongs to exactly one daily todo
// group. CategoryID is a weak reference: deleting the category clears it but
// never deletes the todo.
//
// Invariant: CompletedAt is set if and only if IsCompleted is true.
type Todo struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	TodoGroupID uuid.UUID  `json:"todoGroupId"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	IsCompleted bool       `json:"isCompleted"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Category    *Category  `json:"category,omitempty"`
}

// SetCompleted flips the completion flag and keeps CompletedAt consistent
// with it: set on the false→true transition, cleared on true→false.
func (t *Todo) SetCompleted(completed bool, now time.Time) {
	if completed == t.IsCompleted {
		return
	}
	t.IsCompleted = completed
	if completed {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
}
