package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/tool"
)

// ListTools возвращает все зарегистрированные инструменты
// с их описаниями и схемами
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	tools := h.registry.Tools()

	descriptors := make([]ToolDescriptor, 0, len(tools))
	for _, t := range tools {
		descriptors = append(descriptors, ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Schema(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListToolsResponse{
		Tools: descriptors,
		Count: len(descriptors),
	})
}

// ExecuteTool выполняет инструмент по имени из пути.
// Тело запроса - JSON-объект аргументов, контекст вызова приходит
// в заголовках X-User-ID / X-Username / X-Team-ID.
func (h *Handler) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	args, err := decodeArguments(r.Body)
	if err != nil {
		h.writeError(w, "BAD_REQUEST", "request body must be a JSON object")
		return
	}

	result := h.registry.Execute(r.Context(), name, args, actorContext(r))
	if !result.OK {
		h.writeError(w, result.ErrorKind, result.ErrorMessage)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result.Payload)
}

// decodeArguments разбирает тело запроса; пустое тело - пустые аргументы
func decodeArguments(body io.Reader) (map[string]any, error) {
	args := map[string]any{}
	if err := json.NewDecoder(body).Decode(&args); err != nil {
		if errors.Is(err, io.EOF) {
			return args, nil
		}
		return nil, err
	}
	return args, nil
}

// actorContext собирает контекст вызова из заголовков запроса.
// Идентификацию пользователя обеспечивает внешний слой (out of scope),
// сюда приходит уже проверенная личность.
func actorContext(r *http.Request) tool.Context {
	tc := tool.Context{}

	if userID, err := strconv.Atoi(r.Header.Get("X-User-ID")); err == nil {
		actor := &domain.Actor{
			ID:       userID,
			Username: r.Header.Get("X-Username"),
		}
		if teamID, err := strconv.Atoi(r.Header.Get("X-Current-Team-ID")); err == nil {
			actor.CurrentTeamID = &teamID
		}
		tc.Actor = actor
	}

	if teamID, err := strconv.Atoi(r.Header.Get("X-Team-ID")); err == nil {
		tc.TeamID = &teamID
	}

	return tc
}
