package tool

import (
	"github.com/bagdasarian/task-lists/internal/policy"
	"github.com/bagdasarian/task-lists/internal/repository"
)

// NewDefaultRegistry собирает реестр со всеми инструментами модуля.
// Перечисление явное и проверяется компилятором - никакого
// сканирования директорий на старте.
func NewDefaultRegistry(
	boards repository.BoardRepository,
	lists repository.ListRepository,
	items repository.ItemRepository,
	gate policy.Gate,
) *Registry {
	r := NewRegistry()
	r.MustRegister(
		NewCreateBoardTool(boards, gate),
		NewGetBoardTool(boards, lists, gate),
		NewListBoardsTool(boards, gate),
		NewUpdateBoardTool(boards, gate),
		NewDeleteBoardTool(boards, gate),
		NewReorderBoardsTool(boards, gate),

		NewCreateListTool(lists, boards, gate),
		NewGetListTool(lists, boards, items, gate),
		NewListListsTool(lists, boards, gate),
		NewUpdateListTool(lists, boards, gate),
		NewDeleteListTool(lists, gate),
		NewReorderListsTool(lists, boards, gate),

		NewCreateItemTool(items, lists, gate),
		NewListItemsTool(items, lists, gate),
		NewUpdateItemTool(items, lists, gate),
		NewDeleteItemTool(items, lists, gate),
		NewToggleItemTool(items, lists, gate),
		NewReorderItemsTool(items, lists, gate),
	)
	return r
}
