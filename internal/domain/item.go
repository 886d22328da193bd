package domain

import "time"

type Item struct {
	ID          int
	UUID        string
	Title       string
	Description *string
	Position    int
	Done        bool
	DoneAt      *time.Time
	ListID      int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
