package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/repository"
)

// boardColumns - допустимые поля списочных запросов по доскам
var boardColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"done":        "done",
	"position":    "position",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

const boardFields = `id, uuid, name, description, position, done, done_at, user_id, team_id, created_at, updated_at`

type boardRepository struct {
	db *sql.DB
}

func NewBoardRepository(db *sql.DB) *boardRepository {
	return &boardRepository{db: db}
}

// Create сохраняет новую доску: генерирует uuid, вычисляет позицию
// в рамках команды непосредственно перед вставкой
func (r *boardRepository) Create(ctx context.Context, board *domain.Board) error {
	uid, err := generateUUID(ctx, r.db, "boards")
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	position, err := nextPosition(ctx, tx, "boards", "team_id", board.TeamID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO boards (uuid, name, description, position, done, user_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		uid,
		board.Name,
		board.Description,
		position,
		board.Done,
		board.UserID,
		board.TeamID,
	).Scan(&board.ID, &board.CreatedAt)
	if err != nil {
		return err
	}

	board.UUID = uid
	board.Position = position

	return tx.Commit()
}

func (r *boardRepository) GetByID(ctx context.Context, id int) (*domain.Board, error) {
	query := `SELECT ` + boardFields + ` FROM boards WHERE id = $1`

	board, err := scanBoard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBoardNotFound
		}
		return nil, err
	}
	return board, nil
}

func (r *boardRepository) ListByTeam(ctx context.Context, teamID int, opts repository.QueryOptions) ([]*domain.Board, error) {
	query := `SELECT ` + boardFields + ` FROM boards WHERE team_id = $1`
	query, args := appendQueryOptions(query, []any{teamID}, opts, boardColumns, "name")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*domain.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

func (r *boardRepository) Update(ctx context.Context, board *domain.Board) error {
	query := `
		UPDATE boards
		SET name = $2, description = $3, done = $4, done_at = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		board.ID,
		board.Name,
		board.Description,
		board.Done,
		board.DoneAt,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

// Delete удаляет доску; ее списки и их элементы удаляются каскадно
// на уровне внешних ключей
func (r *boardRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

func (r *boardRepository) Reorder(ctx context.Context, teamID int, assignments []repository.PositionAssignment) error {
	return reorderWithinScope(ctx, r.db, "boards", "team_id", teamID, assignments)
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(row rowScanner) (*domain.Board, error) {
	board := &domain.Board{}
	var description sql.NullString
	var doneAt, updatedAt sql.NullTime

	err := row.Scan(
		&board.ID,
		&board.UUID,
		&board.Name,
		&description,
		&board.Position,
		&board.Done,
		&doneAt,
		&board.UserID,
		&board.TeamID,
		&board.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		board.Description = &description.String
	}
	if doneAt.Valid {
		board.DoneAt = &doneAt.Time
	}
	if updatedAt.Valid {
		board.UpdatedAt = &updatedAt.Time
	}
	return board, nil
}
