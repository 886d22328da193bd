package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/repository"
)

// itemColumns - допустимые поля списочных запросов по элементам
var itemColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"done":        "done",
	"position":    "position",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

const itemFields = `id, uuid, title, description, position, done, done_at, list_id, created_at, updated_at`

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *itemRepository {
	return &itemRepository{db: db}
}

// Create сохраняет новый элемент: генерирует uuid, вычисляет позицию
// в рамках списка непосредственно перед вставкой
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	uid, err := generateUUID(ctx, r.db, "list_items")
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	position, err := nextPosition(ctx, tx, "list_items", "list_id", item.ListID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO list_items (uuid, title, description, position, done, list_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(ctx, query,
		uid,
		item.Title,
		item.Description,
		position,
		item.Done,
		item.ListID,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return err
	}

	item.UUID = uid
	item.Position = position

	return tx.Commit()
}

func (r *itemRepository) GetByID(ctx context.Context, id int) (*domain.Item, error) {
	query := `SELECT ` + itemFields + ` FROM list_items WHERE id = $1`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) ListByList(ctx context.Context, listID int, opts repository.QueryOptions) ([]*domain.Item, error) {
	query := `SELECT ` + itemFields + ` FROM list_items WHERE list_id = $1`
	query, args := appendQueryOptions(query, []any{listID}, opts, itemColumns, "position")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepository) CountByList(ctx context.Context, listID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM list_items WHERE list_id = $1`, listID).Scan(&count)
	return count, err
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE list_items
		SET title = $2, description = $3, done = $4, done_at = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Done,
		item.DoneAt,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM list_items WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) Reorder(ctx context.Context, listID int, assignments []repository.PositionAssignment) error {
	return reorderWithinScope(ctx, r.db, "list_items", "list_id", listID, assignments)
}

func scanItem(row rowScanner) (*domain.Item, error) {
	item := &domain.Item{}
	var description sql.NullString
	var doneAt, updatedAt sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.UUID,
		&item.Title,
		&description,
		&item.Position,
		&item.Done,
		&doneAt,
		&item.ListID,
		&item.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		item.Description = &description.String
	}
	if doneAt.Valid {
		item.DoneAt = &doneAt.Time
	}
	if updatedAt.Valid {
		item.UpdatedAt = &updatedAt.Time
	}
	return item, nil
}
