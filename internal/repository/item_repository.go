package repository

import (
	"context"

	"github.com/bagdasarian/task-lists/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int) (*domain.Item, error)
	ListByList(ctx context.Context, listID int, opts QueryOptions) ([]*domain.Item, error)
	CountByList(ctx context.Context, listID int) (int, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int) error
	Reorder(ctx context.Context, listID int, assignments []PositionAssignment) error
}
