package models

import (
	"testing"
	"time"
)

func TestSetCompleted(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	todo := &Todo{}
	todo.SetCompleted(true, now)
	if !todo.IsCompleted {
		t.Fatal("IsCompleted = false after completing")
	}
	if todo.CompletedAt == nil || !todo.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", todo.CompletedAt, now)
	}

	// Completing an already completed todo keeps the original timestamp.
	later := now.Add(time.Hour)
	todo.SetCompleted(true, later)
	if !todo.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt changed on repeat completion: %v", todo.CompletedAt)
	}

	todo.SetCompleted(false, later)
	if todo.IsCompleted {
		t.Fatal("IsCompleted = true after uncompleting")
	}
	if todo.CompletedAt != nil {
		t.Errorf("CompletedAt = %v after uncompleting, want nil", todo.CompletedAt)
	}
}

func TestDayOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "utc afternoon",
			in:   time.Date(2024, 1, 1, 15, 30, 45, 123, time.UTC),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "utc midnight is unchanged",
			in:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "eastern offset crosses to next utc day",
			in:   time.Date(2024, 1, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "western offset stays on previous utc day",
			in:   time.Date(2024, 1, 2, 1, 30, 0, 0, time.FixedZone("UTC+9", 9*3600)),
			want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DayOf(tt.in); !got.Equal(tt.want) {
				t.Errorf("DayOf(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)
	b := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	c := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("SameDay() = false for two times on the same UTC date")
	}
	if SameDay(b, c) {
		t.Error("SameDay() = true across midnight")
	}
}
