package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/repository"
)

// listColumns - допустимые поля списочных запросов по спискам
var listColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"done":        "done",
	"position":    "position",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

const listFields = `id, uuid, name, description, position, done, done_at, user_id, team_id, board_id, created_at, updated_at`

type listRepository struct {
	db *sql.DB
}

func NewListRepository(db *sql.DB) *listRepository {
	return &listRepository{db: db}
}

// Create сохраняет новый список: генерирует uuid, вычисляет позицию
// в рамках доски непосредственно перед вставкой
func (r *listRepository) Create(ctx context.Context, list *domain.List) error {
	uid, err := generateUUID(ctx, r.db, "lists")
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	position, err := nextPosition(ctx, tx, "lists", "board_id", list.BoardID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lists (uuid, name, description, position, done, user_id, team_id, board_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		uid,
		list.Name,
		list.Description,
		position,
		list.Done,
		list.UserID,
		list.TeamID,
		list.BoardID,
	).Scan(&list.ID, &list.CreatedAt)
	if err != nil {
		return err
	}

	list.UUID = uid
	list.Position = position

	return tx.Commit()
}

func (r *listRepository) GetByID(ctx context.Context, id int) (*domain.List, error) {
	query := `SELECT ` + listFields + ` FROM lists WHERE id = $1`

	list, err := scanList(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, err
	}
	return list, nil
}

func (r *listRepository) ListByBoard(ctx context.Context, boardID int, opts repository.QueryOptions) ([]*domain.List, error) {
	query := `SELECT ` + listFields + ` FROM lists WHERE board_id = $1`
	query, args := appendQueryOptions(query, []any{boardID}, opts, listColumns, "position")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*domain.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

func (r *listRepository) CountByBoard(ctx context.Context, boardID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lists WHERE board_id = $1`, boardID).Scan(&count)
	return count, err
}

func (r *listRepository) Update(ctx context.Context, list *domain.List) error {
	query := `
		UPDATE lists
		SET name = $2, description = $3, done = $4, done_at = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		list.ID,
		list.Name,
		list.Description,
		list.Done,
		list.DoneAt,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

// Delete удаляет список; его элементы удаляются каскадно
func (r *listRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func (r *listRepository) Reorder(ctx context.Context, boardID int, assignments []repository.PositionAssignment) error {
	return reorderWithinScope(ctx, r.db, "lists", "board_id", boardID, assignments)
}

func scanList(row rowScanner) (*domain.List, error) {
	list := &domain.List{}
	var description sql.NullString
	var doneAt, updatedAt sql.NullTime

	err := row.Scan(
		&list.ID,
		&list.UUID,
		&list.Name,
		&description,
		&list.Position,
		&list.Done,
		&doneAt,
		&list.UserID,
		&list.TeamID,
		&list.BoardID,
		&list.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		list.Description = &description.String
	}
	if doneAt.Valid {
		list.DoneAt = &doneAt.Time
	}
	if updatedAt.Valid {
		list.UpdatedAt = &updatedAt.Time
	}
	return list, nil
}
