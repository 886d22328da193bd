package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/policy"
	"github.com/bagdasarian/task-lists/internal/repository"
)

const defaultBoardName = "New Board"

var (
	boardFilterFields = []string{"name", "description", "done", "created_at", "updated_at"}
	boardSearchFields = []string{"name", "description"}
	boardSortFields   = []string{"name", "position", "created_at", "updated_at"}
)

// CreateBoardTool - lists.boards.POST
type CreateBoardTool struct {
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewCreateBoardTool(boards repository.BoardRepository, gate policy.Gate) *CreateBoardTool {
	return &CreateBoardTool{boards: boards, gate: gate}
}

func (t *CreateBoardTool) Name() string {
	return "lists.boards.POST"
}

func (t *CreateBoardTool) Description() string {
	return "POST /lists/boards - Creates a new task board. Parameters: name (optional, string) - board name. description (optional, string) - board description."
}

func (t *CreateBoardTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"name": {
			Type:        "string",
			Description: "Name of the board. Defaults to \"New Board\" when omitted.",
		},
		"description": {
			Type:        "string",
			Description: "Description of the board.",
		},
	})
}

func (t *CreateBoardTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	teamID, ok := tc.currentTeam()
	if !ok {
		return ErrorFrom(domain.ErrMissingTeam)
	}

	if !t.gate.AllowsCreate(tc.Actor, policy.KindBoard) {
		return Error("ACCESS_DENIED", "You are not allowed to create boards.")
	}

	name, ok := stringArg(args, "name")
	if !ok || name == "" {
		name = defaultBoardName
	}

	board := &domain.Board{
		Name:        name,
		Description: optionalString(args, "description"),
		UserID:      tc.Actor.ID,
		TeamID:      teamID,
	}

	if err := t.boards.Create(ctx, board); err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to create board: %v", err))
	}

	board, err := t.boards.GetByID(ctx, board.ID)
	if err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"id":          board.ID,
		"uuid":        board.UUID,
		"name":        board.Name,
		"description": board.Description,
		"position":    board.Position,
		"team_id":     board.TeamID,
		"created_at":  board.CreatedAt.Format(time.RFC3339),
		"message":     fmt.Sprintf("Board '%s' created successfully.", board.Name),
	})
}

// GetBoardTool - lists.board.GET
type GetBoardTool struct {
	boards repository.BoardRepository
	lists  repository.ListRepository
	gate   policy.Gate
}

func NewGetBoardTool(boards repository.BoardRepository, lists repository.ListRepository, gate policy.Gate) *GetBoardTool {
	return &GetBoardTool{boards: boards, lists: lists, gate: gate}
}

func (t *GetBoardTool) Name() string {
	return "lists.board.GET"
}

func (t *GetBoardTool) Description() string {
	return "GET /lists/boards/{id} - Fetches a single board. Parameters: id (required, integer) - board ID."
}

func (t *GetBoardTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"id": {
			Type:        "integer",
			Description: "ID of the board (REQUIRED).",
		},
	}, "id")
}

func (t *GetBoardTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "id")
	if !ok {
		return Error("VALIDATION_ERROR", "Board ID is required.")
	}

	board, err := t.boards.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionView, policy.ForBoard(board)) {
		return Error("ACCESS_DENIED", "You do not have access to this board.")
	}

	listsCount, err := t.lists.CountByBoard(ctx, board.ID)
	if err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to load board: %v", err))
	}

	return Success(map[string]any{
		"id":          board.ID,
		"uuid":        board.UUID,
		"name":        board.Name,
		"description": board.Description,
		"position":    board.Position,
		"team_id":     board.TeamID,
		"user_id":     board.UserID,
		"done":        board.Done,
		"done_at":     isoTime(board.DoneAt),
		"created_at":  board.CreatedAt.Format(time.RFC3339),
		"lists_count": listsCount,
	})
}

// ListBoardsTool - lists.boards.GET
type ListBoardsTool struct {
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewListBoardsTool(boards repository.BoardRepository, gate policy.Gate) *ListBoardsTool {
	return &ListBoardsTool{boards: boards, gate: gate}
}

func (t *ListBoardsTool) Name() string {
	return "lists.boards.GET"
}

func (t *ListBoardsTool) Description() string {
	return "GET /lists/boards - Lists task boards. Parameters: team_id (optional, integer) - filter by team ID, defaults to the current team. filters, search, sort_by/sort_dir, limit/offset (optional) - standard parameters."
}

func (t *ListBoardsTool) Schema() Schema {
	return ObjectSchema(withStandardQuery(map[string]Property{
		"team_id": {
			Type:        "integer",
			Description: "Optional team ID. Defaults to the current team from the call context.",
		},
	}))
}

func (t *ListBoardsTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	teamID, ok := intArg(args, "team_id")
	if !ok {
		teamID, ok = tc.currentTeam()
		if !ok {
			return ErrorFrom(domain.ErrMissingTeam)
		}
	}

	opts := parseQueryOptions(args, boardFilterFields, boardSearchFields, boardSortFields, "name")

	boards, err := t.boards.ListByTeam(ctx, teamID, opts)
	if err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to load boards: %v", err))
	}

	// Повторная проверка view по каждой строке: частично видимая
	// коллекция ужимается, а не падает
	payload := make([]map[string]any, 0, len(boards))
	for _, board := range boards {
		if !t.gate.Allows(tc.Actor, policy.ActionView, policy.ForBoard(board)) {
			continue
		}
		payload = append(payload, map[string]any{
			"id":          board.ID,
			"uuid":        board.UUID,
			"name":        board.Name,
			"description": board.Description,
			"position":    board.Position,
			"team_id":     board.TeamID,
			"user_id":     board.UserID,
			"done":        board.Done,
			"done_at":     isoTime(board.DoneAt),
			"created_at":  board.CreatedAt.Format(time.RFC3339),
		})
	}

	message := "No boards found."
	if len(payload) > 0 {
		message = fmt.Sprintf("%d board(s) found.", len(payload))
	}

	return Success(map[string]any{
		"boards":  payload,
		"count":   len(payload),
		"message": message,
	})
}

// UpdateBoardTool - lists.boards.PUT
type UpdateBoardTool struct {
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewUpdateBoardTool(boards repository.BoardRepository, gate policy.Gate) *UpdateBoardTool {
	return &UpdateBoardTool{boards: boards, gate: gate}
}

func (t *UpdateBoardTool) Name() string {
	return "lists.boards.PUT"
}

func (t *UpdateBoardTool) Description() string {
	return "PUT /lists/boards/{id} - Updates a board. Parameters: board_id (required, integer) - board ID. name, description, done (optional) - fields to update."
}

func (t *UpdateBoardTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"board_id": {
			Type:        "integer",
			Description: "ID of the board (REQUIRED).",
		},
		"name":        {Type: "string", Description: "Optional: new board name."},
		"description": {Type: "string", Description: "Optional: new board description."},
		"done":        {Type: "boolean", Description: "Optional: mark the board as done or open."},
	}, "board_id")
}

func (t *UpdateBoardTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "board_id")
	if !ok {
		return Error("VALIDATION_ERROR", "board_id is required.")
	}

	board, err := t.boards.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionUpdate, policy.ForBoard(board)) {
		return Error("ACCESS_DENIED", "You are not allowed to edit this board.")
	}

	if name, ok := stringArg(args, "name"); ok {
		board.Name = name
	}
	if description := optionalString(args, "description"); description != nil {
		board.Description = description
	}
	if done, ok := boolArg(args, "done"); ok {
		applyDone(&board.Done, &board.DoneAt, done)
	}

	if err := t.boards.Update(ctx, board); err != nil {
		return ErrorFrom(err)
	}

	board, err = t.boards.GetByID(ctx, board.ID)
	if err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"id":          board.ID,
		"uuid":        board.UUID,
		"name":        board.Name,
		"description": board.Description,
		"done":        board.Done,
		"done_at":     isoTime(board.DoneAt),
		"team_id":     board.TeamID,
		"updated_at":  isoTime(board.UpdatedAt),
		"message":     fmt.Sprintf("Board '%s' updated successfully.", board.Name),
	})
}

// DeleteBoardTool - lists.boards.DELETE
type DeleteBoardTool struct {
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewDeleteBoardTool(boards repository.BoardRepository, gate policy.Gate) *DeleteBoardTool {
	return &DeleteBoardTool{boards: boards, gate: gate}
}

func (t *DeleteBoardTool) Name() string {
	return "lists.boards.DELETE"
}

func (t *DeleteBoardTool) Description() string {
	return "DELETE /lists/boards/{id} - Deletes a board together with its lists and their items. Parameters: board_id (required, integer) - board ID."
}

func (t *DeleteBoardTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"board_id": {
			Type:        "integer",
			Description: "ID of the board to delete (REQUIRED).",
		},
	}, "board_id")
}

func (t *DeleteBoardTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "board_id")
	if !ok {
		return Error("VALIDATION_ERROR", "board_id is required.")
	}

	board, err := t.boards.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionDelete, policy.ForBoard(board)) {
		return Error("ACCESS_DENIED", "You are not allowed to delete this board.")
	}

	// Имя фиксируется до удаления, чтобы отчитаться после того,
	// как строки уже нет
	boardID, boardName := board.ID, board.Name

	if err := t.boards.Delete(ctx, id); err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"board_id":   boardID,
		"board_name": boardName,
		"message":    fmt.Sprintf("Board '%s' was deleted successfully.", boardName),
	})
}

// ReorderBoardsTool - lists.boards.reorder
type ReorderBoardsTool struct {
	boards repository.BoardRepository
	gate   policy.Gate
}

func NewReorderBoardsTool(boards repository.BoardRepository, gate policy.Gate) *ReorderBoardsTool {
	return &ReorderBoardsTool{boards: boards, gate: gate}
}

func (t *ReorderBoardsTool) Name() string {
	return "lists.boards.reorder"
}

func (t *ReorderBoardsTool) Description() string {
	return "POST /lists/boards/reorder - Reorders the current team's boards. Parameters: assignments (required, array) - entries of {board_id, position}. Boards outside the team are skipped."
}

func (t *ReorderBoardsTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"assignments": {
			Type:        "array",
			Description: "New positions as {board_id, position} pairs, in the caller's display order.",
			Items: &Property{
				Type: "object",
				Properties: map[string]Property{
					"board_id": {Type: "integer", Description: "ID of the board."},
					"position": {Type: "integer", Description: "New position within the team."},
				},
				Required: []string{"board_id", "position"},
			},
		},
	}, "assignments")
}

func (t *ReorderBoardsTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	teamID, ok := tc.currentTeam()
	if !ok {
		return ErrorFrom(domain.ErrMissingTeam)
	}

	assignments, result := parseAssignments(args, "board_id")
	if result != nil {
		return *result
	}

	if err := t.boards.Reorder(ctx, teamID, assignments); err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to reorder boards: %v", err))
	}

	return Success(map[string]any{
		"team_id": teamID,
		"count":   len(assignments),
		"message": "Board order updated.",
	})
}

// applyDone атомарно выставляет флаг и таймстемп завершения:
// done_at не nil тогда и только тогда, когда done=true
func applyDone(done *bool, doneAt **time.Time, value bool) {
	*done = value
	if value {
		now := time.Now()
		*doneAt = &now
	} else {
		*doneAt = nil
	}
}

// parseAssignments разбирает массив пар (id, position) для reorder-инструментов
func parseAssignments(args map[string]any, idKey string) ([]repository.PositionAssignment, *Result) {
	objects := objectSlice(args, "assignments")
	if len(objects) == 0 {
		result := Error("VALIDATION_ERROR", "assignments is required and must be a non-empty array.")
		return nil, &result
	}

	assignments := make([]repository.PositionAssignment, 0, len(objects))
	for _, obj := range objects {
		id, ok := intArg(obj, idKey)
		if !ok {
			result := Error("VALIDATION_ERROR", fmt.Sprintf("each assignment requires an integer %s.", idKey))
			return nil, &result
		}
		position, ok := intArg(obj, "position")
		if !ok || position < 0 {
			result := Error("VALIDATION_ERROR", "each assignment requires a non-negative integer position.")
			return nil, &result
		}
		assignments = append(assignments, repository.PositionAssignment{ChildID: id, Position: position})
	}
	return assignments, nil
}
