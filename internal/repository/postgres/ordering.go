package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bagdasarian/task-lists/internal/repository"
)

// querier покрывает и *sql.DB, и *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// nextPosition вычисляет позицию для новой записи в рамках родительской
// области: max(position)+1 по живым соседям, 0 для пустой области.
// Выполняется одним агрегатным запросом непосредственно перед INSERT -
// без сериализующей блокировки, гонка двух конкурентных вставок
// допускается осознанно (дубликат позиции не ломает отображение).
func nextPosition(ctx context.Context, q querier, table, scopeColumn string, scopeID int) (int, error) {
	query := fmt.Sprintf(
		`SELECT COALESCE(MAX(position) + 1, 0) FROM %s WHERE %s = $1`,
		table, scopeColumn,
	)

	var position int
	if err := q.QueryRowContext(ctx, query, scopeID).Scan(&position); err != nil {
		return 0, fmt.Errorf("failed to compute next position: %w", err)
	}
	return position, nil
}

// reorderWithinScope применяет список назначений (id, position) к детям
// одной родительской области. Записи, не принадлежащие области
// (чужой или устаревший id), молча пропускаются: условие по scopeColumn
// просто не затронет ни одной строки. Все назначения применяются
// в одной транзакции.
func reorderWithinScope(ctx context.Context, db *sql.DB, table, scopeColumn string, scopeID int, assignments []repository.PositionAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(
		`UPDATE %s SET position = $1, updated_at = $2 WHERE id = $3 AND %s = $4`,
		table, scopeColumn,
	)

	now := time.Now()
	for _, a := range assignments {
		if _, err := tx.ExecContext(ctx, query, a.Position, now, a.ChildID, scopeID); err != nil {
			return fmt.Errorf("failed to update position of %d: %w", a.ChildID, err)
		}
	}

	return tx.Commit()
}
