package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/policy"
	"github.com/bagdasarian/task-lists/internal/repository"
)

// contextWithTeam собирает контекст вызова: пользователь с текущей командой
func contextWithTeam(teamID int) Context {
	return Context{Actor: &domain.Actor{ID: 7, Username: "alice", CurrentTeamID: &teamID}}
}

// contextWithoutTeam - пользователь без команды
func contextWithoutTeam() Context {
	return Context{Actor: &domain.Actor{ID: 7, Username: "alice"}}
}

func TestCreateBoardTool_Execute(t *testing.T) {
	t.Run("успешное создание с именем по умолчанию", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewCreateBoardTool(boards, policy.NewGate())

		created := &domain.Board{
			ID:        1,
			UUID:      "0190a000-0000-7000-8000-000000000001",
			Name:      "New Board",
			Position:  0,
			UserID:    7,
			TeamID:    3,
			CreatedAt: time.Now(),
		}

		boards.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Board) bool {
			return b.Name == "New Board" && b.TeamID == 3 && b.UserID == 7
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Board).ID = 1
		}).Return(nil).Once()
		boards.On("GetByID", mock.Anything, 1).Return(created, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{}, contextWithTeam(3))

		require.True(t, result.OK, result.ErrorMessage)
		assert.Equal(t, "New Board", result.Payload["name"])
		assert.Equal(t, 0, result.Payload["position"])
		assert.Equal(t, "Board 'New Board' created successfully.", result.Payload["message"])
		boards.AssertExpectations(t)
	})

	t.Run("явное имя и описание сохраняются", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewCreateBoardTool(boards, policy.NewGate())

		description := "Q3 planning"
		created := &domain.Board{
			ID:          2,
			Name:        "Roadmap",
			Description: &description,
			Position:    4,
			UserID:      7,
			TeamID:      3,
			CreatedAt:   time.Now(),
		}

		boards.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Board) bool {
			return b.Name == "Roadmap" && b.Description != nil && *b.Description == "Q3 planning"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Board).ID = 2
		}).Return(nil).Once()
		boards.On("GetByID", mock.Anything, 2).Return(created, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{
			"name":        "Roadmap",
			"description": "Q3 planning",
		}, contextWithTeam(3))

		require.True(t, result.OK, result.ErrorMessage)
		assert.Equal(t, "Roadmap", result.Payload["name"])
		assert.Equal(t, 4, result.Payload["position"])
		boards.AssertExpectations(t)
	})

	t.Run("ошибка: нет пользователя в контексте", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewCreateBoardTool(boards, policy.NewGate())

		result := tool.Execute(context.Background(), map[string]any{}, Context{})

		require.False(t, result.OK)
		assert.Equal(t, "AUTH_ERROR", result.ErrorKind)
		boards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ошибка: у пользователя нет текущей команды", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewCreateBoardTool(boards, policy.NewGate())

		result := tool.Execute(context.Background(), map[string]any{"name": "X"}, contextWithoutTeam())

		require.False(t, result.OK)
		assert.Equal(t, "MISSING_TEAM", result.ErrorKind)
		boards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ошибка: явная команда без команды у пользователя", func(t *testing.T) {
		// Команда переопределена в контексте, но политика create
		// требует членства в команде
		boards := new(MockBoardRepository)
		tool := NewCreateBoardTool(boards, policy.NewGate())

		teamID := 3
		tc := Context{Actor: &domain.Actor{ID: 7, Username: "alice"}, TeamID: &teamID}

		result := tool.Execute(context.Background(), map[string]any{}, tc)

		require.False(t, result.OK)
		assert.Equal(t, "ACCESS_DENIED", result.ErrorKind)
		boards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestGetBoardTool_Execute(t *testing.T) {
	t.Run("успешное получение доски со счетчиком списков", func(t *testing.T) {
		boards := new(MockBoardRepository)
		lists := new(MockListRepository)
		tool := NewGetBoardTool(boards, lists, policy.NewGate())

		board := &domain.Board{ID: 5, Name: "Roadmap", TeamID: 3, CreatedAt: time.Now()}
		boards.On("GetByID", mock.Anything, 5).Return(board, nil).Once()
		lists.On("CountByBoard", mock.Anything, 5).Return(2, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{"id": float64(5)}, contextWithTeam(3))

		require.True(t, result.OK, result.ErrorMessage)
		assert.Equal(t, 2, result.Payload["lists_count"])
		assert.Nil(t, result.Payload["done_at"])
		boards.AssertExpectations(t)
		lists.AssertExpectations(t)
	})

	t.Run("ошибка: доска не найдена", func(t *testing.T) {
		boards := new(MockBoardRepository)
		lists := new(MockListRepository)
		tool := NewGetBoardTool(boards, lists, policy.NewGate())

		boards.On("GetByID", mock.Anything, 404).Return(nil, domain.ErrBoardNotFound).Once()

		result := tool.Execute(context.Background(), map[string]any{"id": float64(404)}, contextWithTeam(3))

		require.False(t, result.OK)
		assert.Equal(t, "BOARD_NOT_FOUND", result.ErrorKind)
	})

	t.Run("ошибка: доска чужой команды", func(t *testing.T) {
		// Не найдено проверяется раньше авторизации: существующая
		// чужая доска дает ACCESS_DENIED, а не NOT_FOUND
		boards := new(MockBoardRepository)
		lists := new(MockListRepository)
		tool := NewGetBoardTool(boards, lists, policy.NewGate())

		board := &domain.Board{ID: 5, Name: "Secret", TeamID: 99}
		boards.On("GetByID", mock.Anything, 5).Return(board, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{"id": float64(5)}, contextWithTeam(3))

		require.False(t, result.OK)
		assert.Equal(t, "ACCESS_DENIED", result.ErrorKind)
		lists.AssertNotCalled(t, "CountByBoard", mock.Anything, mock.Anything)
	})

	t.Run("ошибка: id не передан", func(t *testing.T) {
		boards := new(MockBoardRepository)
		lists := new(MockListRepository)
		tool := NewGetBoardTool(boards, lists, policy.NewGate())

		result := tool.Execute(context.Background(), map[string]any{}, contextWithTeam(3))

		require.False(t, result.OK)
		assert.Equal(t, "VALIDATION_ERROR", result.ErrorKind)
	})
}

func TestListBoardsTool_Execute(t *testing.T) {
	t.Run("успешный список с командой из контекста", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewListBoardsTool(boards, policy.NewGate())

		rows := []*domain.Board{
			{ID: 1, Name: "Alpha", TeamID: 3, CreatedAt: time.Now()},
			{ID: 2, Name: "Beta", TeamID: 3, CreatedAt: time.Now()},
		}
		boards.On("ListByTeam", mock.Anything, 3, mock.Anything).Return(rows, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{}, contextWithTeam(3))

		require.True(t, result.OK, result.ErrorMessage)
		assert.Equal(t, 2, result.Payload["count"])
		assert.Equal(t, "2 board(s) found.", result.Payload["message"])
		boards.AssertExpectations(t)
	})

	t.Run("доски чужой команды ужимаются построчной проверкой view", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewListBoardsTool(boards, policy.NewGate())

		// Запрошена чужая команда: строки возвращаются из хранилища,
		// но проверка view отбрасывает каждую
		rows := []*domain.Board{
			{ID: 10, Name: "Foreign", TeamID: 99, CreatedAt: time.Now()},
		}
		boards.On("ListByTeam", mock.Anything, 99, mock.Anything).Return(rows, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{"team_id": float64(99)}, contextWithTeam(3))

		require.True(t, result.OK)
		assert.Equal(t, 0, result.Payload["count"])
		assert.Equal(t, "No boards found.", result.Payload["message"])
	})

	t.Run("стандартные параметры пробрасываются в запрос", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewListBoardsTool(boards, policy.NewGate())

		boards.On("ListByTeam", mock.Anything, 3, mock.MatchedBy(func(opts repository.QueryOptions) bool {
			return opts.Search == "road" && opts.SortBy == "created_at" && opts.SortDesc && opts.Limit == 10
		})).Return([]*domain.Board{}, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{
			"search":   "road",
			"sort_by":  "created_at",
			"sort_dir": "desc",
			"limit":    float64(10),
		}, contextWithTeam(3))

		require.True(t, result.OK)
		boards.AssertExpectations(t)
	})

	t.Run("ошибка: нет команды ни в аргументах, ни в контексте", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewListBoardsTool(boards, policy.NewGate())

		result := tool.Execute(context.Background(), map[string]any{}, contextWithoutTeam())

		require.False(t, result.OK)
		assert.Equal(t, "MISSING_TEAM", result.ErrorKind)
	})
}

func TestUpdateBoardTool_Execute(t *testing.T) {
	t.Run("done=true атомарно выставляет done_at", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewUpdateBoardTool(boards, policy.NewGate())

		board := &domain.Board{ID: 5, Name: "Roadmap", TeamID: 3, CreatedAt: time.Now()}
		boards.On("GetByID", mock.Anything, 5).Return(board, nil).Once()
		boards.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Board) bool {
			return b.Done && b.DoneAt != nil
		})).Return(nil).Once()

		now := time.Now()
		updated := &domain.Board{ID: 5, Name: "Roadmap", TeamID: 3, Done: true, DoneAt: &now, UpdatedAt: &now, CreatedAt: time.Now()}
		boards.On("GetByID", mock.Anything, 5).Return(updated, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{
			"board_id": float64(5),
			"done":     true,
		}, contextWithTeam(3))

		require.True(t, result.OK, result.ErrorMessage)
		assert.Equal(t, true, result.Payload["done"])
		assert.NotNil(t, result.Payload["done_at"])
		boards.AssertExpectations(t)
	})

	t.Run("done=false сбрасывает done_at", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewUpdateBoardTool(boards, policy.NewGate())

		was := time.Now().Add(-time.Hour)
		board := &domain.Board{ID: 5, Name: "Roadmap", TeamID: 3, Done: true, DoneAt: &was, CreatedAt: time.Now()}
		boards.On("GetByID", mock.Anything, 5).Return(board, nil).Once()
		boards.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Board) bool {
			return !b.Done && b.DoneAt == nil
		})).Return(nil).Once()

		reloaded := &domain.Board{ID: 5, Name: "Roadmap", TeamID: 3, CreatedAt: time.Now()}
		boards.On("GetByID", mock.Anything, 5).Return(reloaded, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{
			"board_id": float64(5),
			"done":     false,
		}, contextWithTeam(3))

		require.True(t, result.OK, result.ErrorMessage)
		assert.Equal(t, false, result.Payload["done"])
		assert.Nil(t, result.Payload["done_at"])
		boards.AssertExpectations(t)
	})

	t.Run("ошибка: чужая доска не изменяется", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewUpdateBoardTool(boards, policy.NewGate())

		board := &domain.Board{ID: 5, Name: "Secret", TeamID: 99}
		boards.On("GetByID", mock.Anything, 5).Return(board, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{
			"board_id": float64(5),
			"name":     "Hacked",
		}, contextWithTeam(3))

		require.False(t, result.OK)
		assert.Equal(t, "ACCESS_DENIED", result.ErrorKind)
		boards.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDeleteBoardTool_Execute(t *testing.T) {
	t.Run("успешное удаление с именем в подтверждении", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewDeleteBoardTool(boards, policy.NewGate())

		board := &domain.Board{ID: 5, Name: "Roadmap", TeamID: 3}
		boards.On("GetByID", mock.Anything, 5).Return(board, nil).Once()
		boards.On("Delete", mock.Anything, 5).Return(nil).Once()

		result := tool.Execute(context.Background(), map[string]any{"board_id": float64(5)}, contextWithTeam(3))

		require.True(t, result.OK, result.ErrorMessage)
		assert.Equal(t, "Roadmap", result.Payload["board_name"])
		assert.Equal(t, "Board 'Roadmap' was deleted successfully.", result.Payload["message"])
		boards.AssertExpectations(t)
	})

	t.Run("ошибка: доска не найдена", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewDeleteBoardTool(boards, policy.NewGate())

		boards.On("GetByID", mock.Anything, 404).Return(nil, domain.ErrBoardNotFound).Once()

		result := tool.Execute(context.Background(), map[string]any{"board_id": float64(404)}, contextWithTeam(3))

		require.False(t, result.OK)
		assert.Equal(t, "BOARD_NOT_FOUND", result.ErrorKind)
		boards.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("ошибка: чужая доска не удаляется", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewDeleteBoardTool(boards, policy.NewGate())

		board := &domain.Board{ID: 5, Name: "Secret", TeamID: 99}
		boards.On("GetByID", mock.Anything, 5).Return(board, nil).Once()

		result := tool.Execute(context.Background(), map[string]any{"board_id": float64(5)}, contextWithTeam(3))

		require.False(t, result.OK)
		assert.Equal(t, "ACCESS_DENIED", result.ErrorKind)
		boards.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestReorderBoardsTool_Execute(t *testing.T) {
	t.Run("успешное применение назначений", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewReorderBoardsTool(boards, policy.NewGate())

		expected := []repository.PositionAssignment{
			{ChildID: 2, Position: 0},
			{ChildID: 1, Position: 1},
		}
		boards.On("Reorder", mock.Anything, 3, expected).Return(nil).Once()

		result := tool.Execute(context.Background(), map[string]any{
			"assignments": []any{
				map[string]any{"board_id": float64(2), "position": float64(0)},
				map[string]any{"board_id": float64(1), "position": float64(1)},
			},
		}, contextWithTeam(3))

		require.True(t, result.OK, result.ErrorMessage)
		assert.Equal(t, 2, result.Payload["count"])
		boards.AssertExpectations(t)
	})

	t.Run("ошибка: пустой список назначений", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewReorderBoardsTool(boards, policy.NewGate())

		result := tool.Execute(context.Background(), map[string]any{
			"assignments": []any{},
		}, contextWithTeam(3))

		require.False(t, result.OK)
		assert.Equal(t, "VALIDATION_ERROR", result.ErrorKind)
		boards.AssertNotCalled(t, "Reorder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ошибка: отрицательная позиция", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewReorderBoardsTool(boards, policy.NewGate())

		result := tool.Execute(context.Background(), map[string]any{
			"assignments": []any{
				map[string]any{"board_id": float64(1), "position": float64(-1)},
			},
		}, contextWithTeam(3))

		require.False(t, result.OK)
		assert.Equal(t, "VALIDATION_ERROR", result.ErrorKind)
	})

	t.Run("ошибка: нет текущей команды", func(t *testing.T) {
		boards := new(MockBoardRepository)
		tool := NewReorderBoardsTool(boards, policy.NewGate())

		result := tool.Execute(context.Background(), map[string]any{
			"assignments": []any{
				map[string]any{"board_id": float64(1), "position": float64(0)},
			},
		}, contextWithoutTeam())

		require.False(t, result.OK)
		assert.Equal(t, "MISSING_TEAM", result.ErrorKind)
	})
}
