package repository

import (
	"context"

	"github.com/bagdasarian/task-lists/internal/domain"
)

type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	GetByID(ctx context.Context, id int) (*domain.Board, error)
	ListByTeam(ctx context.Context, teamID int, opts QueryOptions) ([]*domain.Board, error)
	Update(ctx context.Context, board *domain.Board) error
	Delete(ctx context.Context, id int) error
	Reorder(ctx context.Context, teamID int, assignments []PositionAssignment) error
}
