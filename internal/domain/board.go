package domain

import "time"

type Board struct {
	ID          int
	UUID        string
	Name        string
	Description *string
	Position    int
	Done        bool
	DoneAt      *time.Time
	UserID      int
	TeamID      int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
