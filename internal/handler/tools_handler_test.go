package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/policy"
	"github.com/bagdasarian/task-lists/internal/tool"
)

func setupHandler() (*Handler, *tool.MockBoardRepository, *tool.MockListRepository, *tool.MockItemRepository) {
	boards := new(tool.MockBoardRepository)
	lists := new(tool.MockListRepository)
	items := new(tool.MockItemRepository)
	registry := tool.NewDefaultRegistry(boards, lists, items, policy.NewGate())
	return NewHandler(registry), boards, lists, items
}

func setupMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tools", h.ListTools)
	mux.HandleFunc("POST /tools/{name}", h.ExecuteTool)
	return mux
}

func TestHandler_ListTools(t *testing.T) {
	t.Run("возвращает все инструменты со схемами", func(t *testing.T) {
		h, _, _, _ := setupHandler()
		mux := setupMux(h)

		req := httptest.NewRequest(http.MethodGet, "/tools", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp ListToolsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 18, resp.Count)
		assert.Equal(t, "lists.boards.POST", resp.Tools[0].Name)
		assert.Equal(t, "object", resp.Tools[0].InputSchema.Type)
	})
}

func TestHandler_ExecuteTool(t *testing.T) {
	t.Run("успешный вызов с контекстом из заголовков", func(t *testing.T) {
		h, boards, _, _ := setupHandler()
		mux := setupMux(h)

		created := &domain.Board{
			ID: 1, Name: "Roadmap", TeamID: 3, UserID: 7, CreatedAt: time.Now(),
		}
		boards.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Board) bool {
			return b.Name == "Roadmap" && b.TeamID == 3 && b.UserID == 7
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Board).ID = 1
		}).Return(nil).Once()
		boards.On("GetByID", mock.Anything, 1).Return(created, nil).Once()

		body := strings.NewReader(`{"name": "Roadmap"}`)
		req := httptest.NewRequest(http.MethodPost, "/tools/lists.boards.POST", body)
		req.Header.Set("X-User-ID", "7")
		req.Header.Set("X-Username", "alice")
		req.Header.Set("X-Current-Team-ID", "3")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "Roadmap", payload["name"])
		boards.AssertExpectations(t)
	})

	t.Run("пустое тело трактуется как пустые аргументы", func(t *testing.T) {
		h, boards, _, _ := setupHandler()
		mux := setupMux(h)

		created := &domain.Board{ID: 1, Name: "New Board", TeamID: 3, CreatedAt: time.Now()}
		boards.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Board).ID = 1
		}).Return(nil).Once()
		boards.On("GetByID", mock.Anything, 1).Return(created, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/tools/lists.boards.POST", nil)
		req.Header.Set("X-User-ID", "7")
		req.Header.Set("X-Current-Team-ID", "3")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("без X-User-ID - 401 AUTH_ERROR", func(t *testing.T) {
		h, _, _, _ := setupHandler()
		mux := setupMux(h)

		req := httptest.NewRequest(http.MethodPost, "/tools/lists.boards.POST", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "AUTH_ERROR", resp.Error.Code)
	})

	t.Run("неизвестный инструмент - 404 TOOL_NOT_FOUND", func(t *testing.T) {
		h, _, _, _ := setupHandler()
		mux := setupMux(h)

		req := httptest.NewRequest(http.MethodPost, "/tools/lists.unknown", strings.NewReader(`{}`))
		req.Header.Set("X-User-ID", "7")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "TOOL_NOT_FOUND", resp.Error.Code)
	})

	t.Run("битый JSON - 400 BAD_REQUEST", func(t *testing.T) {
		h, _, _, _ := setupHandler()
		mux := setupMux(h)

		req := httptest.NewRequest(http.MethodPost, "/tools/lists.boards.POST", strings.NewReader(`{not json`))
		req.Header.Set("X-User-ID", "7")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("чужая сущность - 403 ACCESS_DENIED", func(t *testing.T) {
		h, boards, _, _ := setupHandler()
		mux := setupMux(h)

		board := &domain.Board{ID: 5, Name: "Secret", TeamID: 99}
		boards.On("GetByID", mock.Anything, 5).Return(board, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/tools/lists.board.GET", strings.NewReader(`{"id": 5}`))
		req.Header.Set("X-User-ID", "7")
		req.Header.Set("X-Current-Team-ID", "3")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("X-Team-ID переопределяет команду вызова", func(t *testing.T) {
		h, boards, _, _ := setupHandler()
		mux := setupMux(h)

		boards.On("ListByTeam", mock.Anything, 42, mock.Anything).Return([]*domain.Board{}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/tools/lists.boards.GET", strings.NewReader(`{}`))
		req.Header.Set("X-User-ID", "7")
		req.Header.Set("X-Current-Team-ID", "3")
		req.Header.Set("X-Team-ID", "42")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		boards.AssertExpectations(t)
	})
}

func TestGetStatusCode(t *testing.T) {
	t.Run("коды ошибок отображаются на статусы", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, getStatusCode("AUTH_ERROR"))
		assert.Equal(t, http.StatusForbidden, getStatusCode("ACCESS_DENIED"))
		assert.Equal(t, http.StatusBadRequest, getStatusCode("VALIDATION_ERROR"))
		assert.Equal(t, http.StatusBadRequest, getStatusCode("MISSING_TEAM"))
		assert.Equal(t, http.StatusNotFound, getStatusCode("BOARD_NOT_FOUND"))
		assert.Equal(t, http.StatusNotFound, getStatusCode("LIST_NOT_FOUND"))
		assert.Equal(t, http.StatusNotFound, getStatusCode("ITEM_NOT_FOUND"))
		assert.Equal(t, http.StatusNotFound, getStatusCode("TOOL_NOT_FOUND"))
		assert.Equal(t, http.StatusInternalServerError, getStatusCode("EXECUTION_ERROR"))
	})
}
