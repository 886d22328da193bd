package domain

import "time"

type List struct {
	ID          int
	UUID        string
	Name        string
	Description *string
	Position    int
	Done        bool
	DoneAt      *time.Time
	UserID      int
	TeamID      int
	BoardID     int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
