package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/repository"
)

// setupListRepo создает мок БД и репозиторий для List
func setupListRepo(t *testing.T) (*listRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewListRepository(db), mock
}

// TestListRepository_Create - позиция списка считается в рамках доски
func TestListRepository_Create(t *testing.T) {
	t.Run("успешное создание: позиция в рамках доски", func(t *testing.T) {
		repo, mock := setupListRepo(t)
		ctx := context.Background()
		now := time.Now()

		list := &domain.List{Name: "Backlog", UserID: 7, TeamID: 3, BoardID: 5}

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		mock.ExpectBegin()

		// Область видимости позиции - board_id, не team_id
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(1))

		mock.ExpectQuery("INSERT INTO lists").
			WithArgs(sqlmock.AnyArg(), "Backlog", nil, 1, false, 7, 3, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))

		mock.ExpectCommit()

		err := repo.Create(ctx, list)

		require.NoError(t, err)
		assert.Equal(t, 11, list.ID)
		assert.Equal(t, 1, list.Position)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListRepository_GetByID(t *testing.T) {
	t.Run("ошибка: список не найден", func(t *testing.T) {
		repo, mock := setupListRepo(t)
		ctx := context.Background()

		mock.ExpectQuery("SELECT id, uuid, name").
			WithArgs(404).
			WillReturnError(sql.ErrNoRows)

		list, err := repo.GetByID(ctx, 404)

		require.Error(t, err)
		assert.Nil(t, list)
		assert.True(t, errors.Is(err, domain.ErrListNotFound))
	})

	t.Run("done_at и updated_at читаются как nullable", func(t *testing.T) {
		repo, mock := setupListRepo(t)
		ctx := context.Background()
		now := time.Now()
		doneAt := now.Add(-time.Hour)

		rows := sqlmock.NewRows([]string{
			"id", "uuid", "name", "description", "position", "done", "done_at", "user_id", "team_id", "board_id", "created_at", "updated_at",
		}).AddRow(11, "u-11", "Backlog", nil, 0, true, doneAt, 7, 3, 5, now, now)

		mock.ExpectQuery("SELECT id, uuid, name").
			WithArgs(11).
			WillReturnRows(rows)

		list, err := repo.GetByID(ctx, 11)

		require.NoError(t, err)
		assert.True(t, list.Done)
		require.NotNil(t, list.DoneAt)
		require.NotNil(t, list.UpdatedAt)
		assert.Nil(t, list.Description)
	})
}

func TestListRepository_CountByBoard(t *testing.T) {
	t.Run("успешный подсчет", func(t *testing.T) {
		repo, mock := setupListRepo(t)
		ctx := context.Background()

		mock.ExpectQuery("SELECT COUNT").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountByBoard(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}

func TestListRepository_ListByBoard(t *testing.T) {
	t.Run("сортировка по позиции по умолчанию", func(t *testing.T) {
		repo, mock := setupListRepo(t)
		ctx := context.Background()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "uuid", "name", "description", "position", "done", "done_at", "user_id", "team_id", "board_id", "created_at", "updated_at",
		}).
			AddRow(11, "u-11", "Backlog", nil, 0, false, nil, 7, 3, 5, now, nil).
			AddRow(12, "u-12", "Doing", nil, 1, false, nil, 7, 3, 5, now, nil)

		mock.ExpectQuery(`ORDER BY position ASC`).
			WithArgs(5, 50).
			WillReturnRows(rows)

		lists, err := repo.ListByBoard(ctx, 5, repository.QueryOptions{})

		require.NoError(t, err)
		require.Len(t, lists, 2)
		assert.Equal(t, 0, lists[0].Position)
		assert.Equal(t, 1, lists[1].Position)
	})
}

func TestListRepository_Reorder(t *testing.T) {
	t.Run("область видимости - board_id", func(t *testing.T) {
		repo, mock := setupListRepo(t)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE lists SET position").
			WithArgs(0, sqlmock.AnyArg(), 12, 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Reorder(ctx, 5, []repository.PositionAssignment{
			{ChildID: 12, Position: 0},
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
