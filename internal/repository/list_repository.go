package repository

import (
	"context"

	"github.com/bagdasarian/task-lists/internal/domain"
)

type ListRepository interface {
	Create(ctx context.Context, list *domain.List) error
	GetByID(ctx context.Context, id int) (*domain.List, error)
	ListByBoard(ctx context.Context, boardID int, opts QueryOptions) ([]*domain.List, error)
	CountByBoard(ctx context.Context, boardID int) (int, error)
	Update(ctx context.Context, list *domain.List) error
	Delete(ctx context.Context, id int) error
	Reorder(ctx context.Context, boardID int, assignments []PositionAssignment) error
}
