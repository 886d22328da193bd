package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/bagdasarian/task-lists/internal/domain"
	"github.com/bagdasarian/task-lists/internal/policy"
	"github.com/bagdasarian/task-lists/internal/repository"
)

const defaultItemTitle = "New Item"

var (
	itemFilterFields = []string{"title", "description", "done", "created_at", "updated_at"}
	itemSearchFields = []string{"title", "description"}
	itemSortFields   = []string{"title", "position", "done", "created_at", "updated_at"}
)

// CreateItemTool - lists.items.POST. Поддерживает два режима:
// одиночный (title/description) и bulk (массив items); в bulk-режиме
// одиночные поля верхнего уровня игнорируются целиком.
type CreateItemTool struct {
	items repository.ItemRepository
	lists repository.ListRepository
	gate  policy.Gate
}

func NewCreateItemTool(items repository.ItemRepository, lists repository.ListRepository, gate policy.Gate) *CreateItemTool {
	return &CreateItemTool{items: items, lists: lists, gate: gate}
}

func (t *CreateItemTool) Name() string {
	return "lists.items.POST"
}

func (t *CreateItemTool) Description() string {
	return "POST /lists/lists/{list_id}/items - Creates one or more items in a list. Parameters: list_id (required, integer) - list ID. title (optional, string) - item title. description (optional, string) - item description. items (optional, array) - bulk mode, each entry {title, description?}. Provide either title OR items."
}

func (t *CreateItemTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"list_id": {
			Type:        "integer",
			Description: "ID of the list the item belongs to (REQUIRED).",
		},
		"title": {
			Type:        "string",
			Description: "Title of the item. Defaults to \"New Item\" when omitted. Ignored when items is provided.",
		},
		"description": {
			Type:        "string",
			Description: "Description of the item. Ignored when items is provided.",
		},
		"items": {
			Type:        "array",
			Description: "Bulk mode: create several items at once. When provided, top-level title/description are ignored.",
			Items: &Property{
				Type: "object",
				Properties: map[string]Property{
					"title":       {Type: "string", Description: "Title of the item."},
					"description": {Type: "string", Description: "Description of the item."},
				},
				Required: []string{"title"},
			},
		},
	}, "list_id")
}

func (t *CreateItemTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	listID, ok := intArg(args, "list_id")
	if !ok {
		return Error("VALIDATION_ERROR", "list_id is required.")
	}

	list, err := t.lists.GetByID(ctx, listID)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionUpdate, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You are not allowed to create items in this list.")
	}

	// Bulk-режим: каждый дескриптор становится отдельной записью
	if descriptors := objectSlice(args, "items"); len(descriptors) > 0 {
		created := make([]map[string]any, 0, len(descriptors))
		for _, descriptor := range descriptors {
			title, ok := stringArg(descriptor, "title")
			if !ok || title == "" {
				title = defaultItemTitle
			}

			item := &domain.Item{
				Title:       title,
				Description: optionalString(descriptor, "description"),
				ListID:      list.ID,
			}
			if err := t.items.Create(ctx, item); err != nil {
				return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to create item: %v", err))
			}

			created = append(created, map[string]any{
				"id":          item.ID,
				"uuid":        item.UUID,
				"title":       item.Title,
				"description": item.Description,
				"position":    item.Position,
				"done":        item.Done,
			})
		}

		return Success(map[string]any{
			"items":     created,
			"count":     len(created),
			"list_id":   list.ID,
			"list_name": list.Name,
			"message":   fmt.Sprintf("%d item(s) created in list '%s'.", len(created), list.Name),
		})
	}

	// Одиночный режим
	title, ok := stringArg(args, "title")
	if !ok || title == "" {
		title = defaultItemTitle
	}

	item := &domain.Item{
		Title:       title,
		Description: optionalString(args, "description"),
		ListID:      list.ID,
	}
	if err := t.items.Create(ctx, item); err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to create item: %v", err))
	}

	item, err = t.items.GetByID(ctx, item.ID)
	if err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"id":          item.ID,
		"uuid":        item.UUID,
		"title":       item.Title,
		"description": item.Description,
		"position":    item.Position,
		"done":        item.Done,
		"done_at":     isoTime(item.DoneAt),
		"list_id":     list.ID,
		"list_name":   list.Name,
		"message":     fmt.Sprintf("Item '%s' created successfully in list '%s'.", item.Title, list.Name),
	})
}

// ListItemsTool - lists.items.GET
type ListItemsTool struct {
	items repository.ItemRepository
	lists repository.ListRepository
	gate  policy.Gate
}

func NewListItemsTool(items repository.ItemRepository, lists repository.ListRepository, gate policy.Gate) *ListItemsTool {
	return &ListItemsTool{items: items, lists: lists, gate: gate}
}

func (t *ListItemsTool) Name() string {
	return "lists.items.GET"
}

func (t *ListItemsTool) Description() string {
	return "GET /lists/lists/{list_id}/items - Lists the items of a list. Parameters: list_id (required, integer) - list ID. filters, search, sort_by/sort_dir, limit/offset (optional) - standard parameters."
}

func (t *ListItemsTool) Schema() Schema {
	return ObjectSchema(withStandardQuery(map[string]Property{
		"list_id": {
			Type:        "integer",
			Description: "ID of the list (REQUIRED).",
		},
	}), "list_id")
}

func (t *ListItemsTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	listID, ok := intArg(args, "list_id")
	if !ok {
		return Error("VALIDATION_ERROR", "list_id is required.")
	}

	list, err := t.lists.GetByID(ctx, listID)
	if err != nil {
		return ErrorFrom(err)
	}

	// У элементов нет собственной политики: решение view для каждой
	// строки наследуется от списка
	if !t.gate.Allows(tc.Actor, policy.ActionView, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You do not have access to this list.")
	}

	opts := parseQueryOptions(args, itemFilterFields, itemSearchFields, itemSortFields, "position")

	items, err := t.items.ListByList(ctx, listID, opts)
	if err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to load items: %v", err))
	}

	payload := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payload = append(payload, map[string]any{
			"id":          item.ID,
			"uuid":        item.UUID,
			"title":       item.Title,
			"description": item.Description,
			"position":    item.Position,
			"done":        item.Done,
			"done_at":     isoTime(item.DoneAt),
			"created_at":  item.CreatedAt.Format(time.RFC3339),
		})
	}

	message := "No items found."
	if len(payload) > 0 {
		message = fmt.Sprintf("%d item(s) found.", len(payload))
	}

	return Success(map[string]any{
		"items":     payload,
		"count":     len(payload),
		"list_id":   list.ID,
		"list_name": list.Name,
		"message":   message,
	})
}

// UpdateItemTool - lists.items.PUT
type UpdateItemTool struct {
	items repository.ItemRepository
	lists repository.ListRepository
	gate  policy.Gate
}

func NewUpdateItemTool(items repository.ItemRepository, lists repository.ListRepository, gate policy.Gate) *UpdateItemTool {
	return &UpdateItemTool{items: items, lists: lists, gate: gate}
}

func (t *UpdateItemTool) Name() string {
	return "lists.items.PUT"
}

func (t *UpdateItemTool) Description() string {
	return "PUT /lists/items/{id} - Updates a list item. Parameters: item_id (required, integer) - item ID. title, description, done (optional) - fields to update."
}

func (t *UpdateItemTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"item_id": {
			Type:        "integer",
			Description: "ID of the item (REQUIRED).",
		},
		"title":       {Type: "string", Description: "Optional: new item title."},
		"description": {Type: "string", Description: "Optional: new item description."},
		"done":        {Type: "boolean", Description: "Optional: mark the item as done or open."},
	}, "item_id")
}

func (t *UpdateItemTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "item_id")
	if !ok {
		return Error("VALIDATION_ERROR", "item_id is required.")
	}

	item, err := t.items.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	list, err := t.lists.GetByID(ctx, item.ListID)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionUpdate, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You are not allowed to edit this item.")
	}

	if title, ok := stringArg(args, "title"); ok {
		item.Title = title
	}
	if description := optionalString(args, "description"); description != nil {
		item.Description = description
	}
	if done, ok := boolArg(args, "done"); ok {
		applyDone(&item.Done, &item.DoneAt, done)
	}

	if err := t.items.Update(ctx, item); err != nil {
		return ErrorFrom(err)
	}

	item, err = t.items.GetByID(ctx, item.ID)
	if err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"id":          item.ID,
		"uuid":        item.UUID,
		"title":       item.Title,
		"description": item.Description,
		"done":        item.Done,
		"done_at":     isoTime(item.DoneAt),
		"list_id":     item.ListID,
		"list_name":   list.Name,
		"updated_at":  isoTime(item.UpdatedAt),
		"message":     fmt.Sprintf("Item '%s' updated successfully.", item.Title),
	})
}

// DeleteItemTool - lists.items.DELETE
type DeleteItemTool struct {
	items repository.ItemRepository
	lists repository.ListRepository
	gate  policy.Gate
}

func NewDeleteItemTool(items repository.ItemRepository, lists repository.ListRepository, gate policy.Gate) *DeleteItemTool {
	return &DeleteItemTool{items: items, lists: lists, gate: gate}
}

func (t *DeleteItemTool) Name() string {
	return "lists.items.DELETE"
}

func (t *DeleteItemTool) Description() string {
	return "DELETE /lists/items/{id} - Deletes a list item. Parameters: item_id (required, integer) - item ID."
}

func (t *DeleteItemTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"item_id": {
			Type:        "integer",
			Description: "ID of the item to delete (REQUIRED).",
		},
	}, "item_id")
}

func (t *DeleteItemTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "item_id")
	if !ok {
		return Error("VALIDATION_ERROR", "item_id is required.")
	}

	item, err := t.items.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	list, err := t.lists.GetByID(ctx, item.ListID)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionDelete, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You are not allowed to delete this item.")
	}

	itemID, itemTitle := item.ID, item.Title

	if err := t.items.Delete(ctx, id); err != nil {
		return ErrorFrom(err)
	}

	return Success(map[string]any{
		"item_id":    itemID,
		"item_title": itemTitle,
		"list_id":    list.ID,
		"message":    fmt.Sprintf("Item '%s' was deleted successfully.", itemTitle),
	})
}

// ToggleItemTool - lists.items.toggle
type ToggleItemTool struct {
	items repository.ItemRepository
	lists repository.ListRepository
	gate  policy.Gate
}

func NewToggleItemTool(items repository.ItemRepository, lists repository.ListRepository, gate policy.Gate) *ToggleItemTool {
	return &ToggleItemTool{items: items, lists: lists, gate: gate}
}

func (t *ToggleItemTool) Name() string {
	return "lists.items.toggle"
}

func (t *ToggleItemTool) Description() string {
	return "POST /lists/items/{id}/toggle - Marks a list item as done or open. Parameters: item_id (required, integer) - item ID. done (optional, boolean) - set explicitly instead of toggling."
}

func (t *ToggleItemTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"item_id": {
			Type:        "integer",
			Description: "ID of the item (REQUIRED).",
		},
		"done": {
			Type:        "boolean",
			Description: "Optional: set to done (true) or open (false) explicitly. When omitted, the current state is toggled.",
		},
	}, "item_id")
}

func (t *ToggleItemTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	id, ok := intArg(args, "item_id")
	if !ok {
		return Error("VALIDATION_ERROR", "item_id is required.")
	}

	item, err := t.items.GetByID(ctx, id)
	if err != nil {
		return ErrorFrom(err)
	}

	list, err := t.lists.GetByID(ctx, item.ListID)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionUpdate, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You are not allowed to change this item.")
	}

	// Явное значение или переключение текущего состояния
	newDone, explicit := boolArg(args, "done")
	if !explicit {
		newDone = !item.Done
	}
	applyDone(&item.Done, &item.DoneAt, newDone)

	if err := t.items.Update(ctx, item); err != nil {
		return ErrorFrom(err)
	}

	item, err = t.items.GetByID(ctx, item.ID)
	if err != nil {
		return ErrorFrom(err)
	}

	status := "open"
	if item.Done {
		status = "done"
	}

	return Success(map[string]any{
		"id":        item.ID,
		"uuid":      item.UUID,
		"title":     item.Title,
		"done":      item.Done,
		"done_at":   isoTime(item.DoneAt),
		"list_id":   item.ListID,
		"list_name": list.Name,
		"message":   fmt.Sprintf("Item '%s' is now %s.", item.Title, status),
	})
}

// ReorderItemsTool - lists.items.reorder
type ReorderItemsTool struct {
	items repository.ItemRepository
	lists repository.ListRepository
	gate  policy.Gate
}

func NewReorderItemsTool(items repository.ItemRepository, lists repository.ListRepository, gate policy.Gate) *ReorderItemsTool {
	return &ReorderItemsTool{items: items, lists: lists, gate: gate}
}

func (t *ReorderItemsTool) Name() string {
	return "lists.items.reorder"
}

func (t *ReorderItemsTool) Description() string {
	return "POST /lists/lists/{list_id}/items/reorder - Reorders the items of a list. Parameters: list_id (required, integer) - list ID. assignments (required, array) - entries of {item_id, position}. Items outside the list are skipped."
}

func (t *ReorderItemsTool) Schema() Schema {
	return ObjectSchema(map[string]Property{
		"list_id": {
			Type:        "integer",
			Description: "ID of the list whose items are reordered (REQUIRED).",
		},
		"assignments": {
			Type:        "array",
			Description: "New positions as {item_id, position} pairs, in the caller's display order.",
			Items: &Property{
				Type: "object",
				Properties: map[string]Property{
					"item_id":  {Type: "integer", Description: "ID of the item."},
					"position": {Type: "integer", Description: "New position within the list."},
				},
				Required: []string{"item_id", "position"},
			},
		},
	}, "list_id", "assignments")
}

func (t *ReorderItemsTool) Execute(ctx context.Context, args map[string]any, tc Context) Result {
	if tc.Actor == nil {
		return ErrorFrom(domain.ErrNoActor)
	}

	listID, ok := intArg(args, "list_id")
	if !ok {
		return Error("VALIDATION_ERROR", "list_id is required.")
	}

	list, err := t.lists.GetByID(ctx, listID)
	if err != nil {
		return ErrorFrom(err)
	}

	if !t.gate.Allows(tc.Actor, policy.ActionUpdate, policy.ForList(list)) {
		return Error("ACCESS_DENIED", "You are not allowed to reorder items in this list.")
	}

	assignments, errResult := parseAssignments(args, "item_id")
	if errResult != nil {
		return *errResult
	}

	if err := t.items.Reorder(ctx, listID, assignments); err != nil {
		return Error("EXECUTION_ERROR", fmt.Sprintf("Failed to reorder items: %v", err))
	}

	return Success(map[string]any{
		"list_id": listID,
		"count":   len(assignments),
		"message": "Item order updated.",
	})
}
