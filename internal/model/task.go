package model

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus accepts only the exact enum spelling.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask is a validated create payload.
type NewTask struct {
	Title       string
	Description *string
}

// TaskPatch is a validated partial update. Nil pointers and unset optionals
// leave the stored column untouched.
type TaskPatch struct {
	Title       *string
	Description Optional[string]
	Status      *Status
}

type TaskFilter struct {
	Status *Status
}

// StatusParam returns the filter status as a plain nullable string for SQL drivers.
func (f TaskFilter) StatusParam() *string {
	if f.Status == nil {
		return nil
	}
	s := string(*f.Status)
	return &s
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type ListOptions struct {
	Filter TaskFilter
	Limit  int
	Offset int
}
