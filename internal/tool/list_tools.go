package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/policy"
	"github.com/bagdasarian/task-lists/internal/repository"
)

const defaultListName = "New List"

var (
	listFilterFields = []string{"name", "description", "done", "created_at", "updated_at"}
	listSearchFields = []string{"name", "description"}
	listSortFields   = []string{"name", "position", "created_at", "updated_at"}
)

// CreateListTool - lists.lists.POST
type CreateListTool struct {
	lists  repository.ListRepository
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewCreateListTool(lists repository.ListRepository, boards repository.BoardRepository, gate policy.Gate) *CreateListTool {
	return &CreateListTool{lists: lists, boards: boards, gate: gate}
}

func (t *CreateListTool) Name() string {
	return "lists.lists.POST"
}

func (t *CreateListTool) Description() string {
	return "POST /lists/boards/{board_id}/lists - Creates a new list on a board. Parameters: board_id (required, integer) - board ID. name (optional, string) - list name. description (optional, string) - list description."
}

func (t *CreateListTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"board_id": {
			Type:        "integer",
			Description: "ID of the board the list belongs to (REQUIRED).",
		},
		"name": {
			Type:        "string",
			Description: "Name of the list. Defaults to \"New List\" when omitted.",
		},
		"description": {
			Type:        "string",
			Description: "Description of the list.",
		},
	}, "board_id")
}

func (t *CreateListTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	boardID, ok := intArg(args, "board_id")
	if !ok {
		return Error("VALIDATION_ERROR", "board_id is required.")
	}

	board, err := t.boards.GetByID(ctx, boardID)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionUpdate, policy.ForBoard(board)) {
		return Error("ACCESS_DENIED", "You are not allowed to create lists on this board.")
	}

	name, ok := stringArg(args, "name")
	if !ok || name == "" {
		name = defaultListName
	}

	// Команда списка всегда совпадает с командой доски
	list := &domain.List{
		Name:        name,
		Description: optionalString(args, "description"),
		UserID:      tc.Actor.ID,
		TeamID:      board.TeamID,
		BoardID:     board.ID,
	}

	if err := t.lists.Create(ctx, list); err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to create list: %v", err))
	}

	list, err = t.lists.GetByID(ctx, list.ID)
	if err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"id":          list.ID,
		"uuid":        list.UUID,
		"name":        list.Name,
		"description": list.Description,
		"position":    list.Position,
		"board_id":    list.BoardID,
		"board_name":  board.Name,
		"team_id":     list.TeamID,
		"created_at":  list.CreatedAt.Format(time.RFC3339),
		"message":     fmt.Sprintf("List '%s' created successfully on board '%s'.", list.Name, board.Name),
	})
}

// GetListTool - lists.list.GET
type GetListTool struct {
	lists  repository.ListRepository
	boards repository.BoardRepository
	items  repository.ItemRepository
	gate   policy.Gate
}

func NewGetListTool(lists repository.ListRepository, boards repository.BoardRepository, items repository.ItemRepository, gate policy.Gate) *GetListTool {
	return &GetListTool{lists: lists, boards: boards, items: items, gate: gate}
}

func (t *GetListTool) Name() string {
	return "lists.list.GET"
}

func (t *GetListTool) Description() string {
	return "GET /lists/lists/{id} - Fetches a single list. Parameters: id (required, integer) - list ID."
}

func (t *GetListTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"id": {
			Type:        "integer",
			Description: "ID of the list (REQUIRED).",
		},
	}, "id")
}

func (t *GetListTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "id")
	if !ok {
		return Error("VALIDATION_ERROR", "List ID is required.")
	}

	list, err := t.lists.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionView, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You do not have access to this list.")
	}

	board, err := t.boards.GetByID(ctx, list.BoardID)
	if err != nil {
		return ErrorFrom(err)
	}

	itemsCount, err := t.items.CountByList(ctx, list.ID)
	if err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to load list: %v", err))
	}

	return Success(map[string]any{
		"id":          list.ID,
		"uuid":        list.UUID,
		"name":        list.Name,
		"description": list.Description,
		"position":    list.Position,
		"board_id":    list.BoardID,
		"board_name":  board.Name,
		"team_id":     list.TeamID,
		"done":        list.Done,
		"done_at":     isoTime(list.DoneAt),
		"created_at":  list.CreatedAt.Format(time.RFC3339),
		"items_count": itemsCount,
	})
}

// ListListsTool - lists.lists.GET
type ListListsTool struct {
	lists  repository.ListRepository
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewListListsTool(lists repository.ListRepository, boards repository.BoardRepository, gate policy.Gate) *ListListsTool {
	return &ListListsTool{lists: lists, boards: boards, gate: gate}
}

func (t *ListListsTool) Name() string {
	return "lists.lists.GET"
}

func (t *ListListsTool) Description() string {
	return "GET /lists/boards/{board_id}/lists - Lists the lists of a board. Parameters: board_id (required, integer) - board ID. filters, search, sort_by/sort_dir, limit/offset (optional) - standard parameters."
}

func (t *ListListsTool) Schema() Schema {
	return ObjectSchema(withStandardQuery(map[string]Property{
		"board_id": {
			Type:        "integer",
			Description: "ID of the board (REQUIRED).",
		},
	}), "board_id")
}

func (t *ListListsTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	boardID, ok := intArg(args, "board_id")
	if !ok {
		return Error("VALIDATION_ERROR", "board_id is required.")
	}

	board, err := t.boards.GetByID(ctx, boardID)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionView, policy.ForBoard(board)) {
		return Error("ACCESS_DENIED", "You do not have access to this board.")
	}

	opts := parseQueryOptions(args, listFilterFields, listSearchFields, listSortFields, "position")

	lists, err := t.lists.ListByBoard(ctx, boardID, opts)
	if err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to load lists: %v", err))
	}

	payload := make([]map[string]any, 0, len(lists))
	for _, list := range lists {
		if !t.gate.Allows(tc.Actor, policy.ActionView, policy.ForList(list)) {
			continue
		}
		payload = append(payload, map[string]any{
			"id":          list.ID,
			"uuid":        list.UUID,
			"name":        list.Name,
			"description": list.Description,
			"position":    list.Position,
			"board_id":    list.BoardID,
			"done":        list.Done,
			"done_at":     isoTime(list.DoneAt),
			"created_at":  list.CreatedAt.Format(time.RFC3339),
		})
	}

	message := "No lists found."
	if len(payload) > 0 {
		message = fmt.Sprintf("%d list(s) found.", len(payload))
	}

	return Success(map[string]any{
		"lists":   payload,
		"count":   len(payload),
		"message": message,
	})
}

// UpdateListTool - lists.lists.PUT
type UpdateListTool struct {
	lists  repository.ListRepository
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewUpdateListTool(lists repository.ListRepository, boards repository.BoardRepository, gate policy.Gate) *UpdateListTool {
	return &UpdateListTool{lists: lists, boards: boards, gate: gate}
}

func (t *UpdateListTool) Name() string {
	return "lists.lists.PUT"
}

func (t *UpdateListTool) Description() string {
	return "PUT /lists/lists/{id} - Updates a list. Parameters: list_id (required, integer) - list ID. name, description, done (optional) - fields to update."
}

func (t *UpdateListTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"list_id": {
			Type:        "integer",
			Description: "ID of the list (REQUIRED).",
		},
		"name":        {Type: "string", Description: "Optional: new list name."},
		"description": {Type: "string", Description: "Optional: new list description."},
		"done":        {Type: "boolean", Description: "Optional: mark the list as done or open."},
	}, "list_id")
}

func (t *UpdateListTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "list_id")
	if !ok {
		return Error("VALIDATION_ERROR", "list_id is required.")
	}

	list, err := t.lists.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionUpdate, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You are not allowed to edit this list.")
	}

	if name, ok := stringArg(args, "name"); ok {
		list.Name = name
	}
	if description := optionalString(args, "description"); description != nil {
		list.Description = description
	}
	if done, ok := boolArg(args, "done"); ok {
		applyDone(&list.Done, &list.DoneAt, done)
	}

	if err := t.lists.Update(ctx, list); err != nil {
		return ErrorFrom(err)
	}

	list, err = t.lists.GetByID(ctx, list.ID)
	if err != nil {
		return ErrorFrom(err)
	}

	board, err := t.boards.GetByID(ctx, list.BoardID)
	if err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"id":          list.ID,
		"name":        list.Name,
		"description": list.Description,
		"board_id":    list.BoardID,
		"board_name":  board.Name,
		"done":        list.Done,
		"done_at":     isoTime(list.DoneAt),
		"updated_at":  isoTime(list.UpdatedAt),
		"message":     fmt.Sprintf("List '%s' updated successfully.", list.Name),
	})
}

// DeleteListTool - lists.lists.DELETE
type DeleteListTool struct {
	lists repository.ListRepository
	gate  policy.Gate
}

func NewDeleteListTool(lists repository.ListRepository, gate policy.Gate) *DeleteListTool {
	return &DeleteListTool{lists: lists, gate: gate}
}

func (t *DeleteListTool) Name() string {
	return "lists.lists.DELETE"
}

func (t *DeleteListTool) Description() string {
	return "DELETE /lists/lists/{id} - Deletes a list together with its items. Parameters: list_id (required, integer) - list ID."
}

func (t *DeleteListTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"list_id": {
			Type:        "integer",
			Description: "ID of the list to delete (REQUIRED).",
		},
	}, "list_id")
}

func (t *DeleteListTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "list_id")
	if !ok {
		return Error("VALIDATION_ERROR", "list_id is required.")
	}

	list, err := t.lists.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionDelete, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You are not allowed to delete this list.")
	}

	listID, listName := list.ID, list.Name

	if err := t.lists.Delete(ctx, id); err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"list_id":   listID,
		"list_name": listName,
		"message":   fmt.Sprintf("List '%s' was deleted successfully.", listName),
	})
}

// ReorderListsTool - lists.lists.reorder
type ReorderListsTool struct {
	lists  repository.ListRepository
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewReorderListsTool(lists repository.ListRepository, boards repository.BoardRepository, gate policy.Gate) *ReorderListsTool {
	return &ReorderListsTool{lists: lists, boards: boards, gate: gate}
}

func (t *ReorderListsTool) Name() string {
	return "lists.lists.reorder"
}

func (t *ReorderListsTool) Description() string {
	return "POST /lists/boards/{board_id}/lists/reorder - Reorders the lists of a board. Parameters: board_id (required, integer) - board ID. assignments (required, array) - entries of {list_id, position}. Lists outside the board are skipped."
}

func (t *ReorderListsTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"board_id": {
			Type:        "integer",
			Description: "ID of the board whose lists are reordered (REQUIRED).",
		},
		"assignments": {
			Type:        "array",
			Description: "New positions as {list_id, position} pairs, in the caller's display order.",
			Items: &Property{
				Type: "object",
				Properties: map[string]Property{
					"list_id":  {Type: "integer", Description: "ID of the list."},
					"position": {Type: "integer", Description: "New position within the board."},
				},
				Required: []string{"list_id", "position"},
			},
		},
	}, "board_id", "assignments")
}

func (t *ReorderListsTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	boardID, ok := intArg(args, "board_id")
	if !ok {
		return Error("VALIDATION_ERROR", "board_id is required.")
	}

	board, err := t.boards.GetByID(ctx, boardID)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionUpdate, policy.ForBoard(board)) {
		return Error("ACCESS_DENIED", "You are not allowed to reorder lists on this board.")
	}

	assignments, errResult := parseAssignments(args, "list_id")
	if errResult != nil {
		return *errResult
	}

	if err := t.lists.Reorder(ctx, boardID, assignments); err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to reorder lists: %v", err))
	}

	return Success(map[string]any{
		"board_id": boardID,
		"count":    len(assignments),
		"message":  "List order updated.",
	})
}
