package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// generateUUID выдает глобально уникальный внешний идентификатор (UUIDv7)
// для записи в таблице table. Коллизия маловероятна, но проверяется:
// при совпадении идентификатор генерируется заново.
func generateUUID(ctx context.Context, q querier, table string) (string, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE uuid = $1)`, table)

	for {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("failed to generate uuid: %w", err)
		}

		var exists bool
		if err := q.QueryRowContext(ctx, query, id.String()).Scan(&exists); err != nil {
			return "", fmt.Errorf("failed to check uuid uniqueness: %w", err)
		}
		if !exists {
			return id.String(), nil
		}
	}
}
