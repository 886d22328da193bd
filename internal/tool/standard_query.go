package tool

import (
	"slices"
	"strings"

	"github.com/bagdasarian/task-lists/internal/repository"
)

// Стандартный миксин списочных запросов: каждая GET-коллекция
// принимает filters/search/sort_by/sort_dir/limit/offset и применяет
// их в этом порядке.

// withStandardQuery добавляет стандартные свойства к схеме инструмента
func withStandardQuery(properties map[string]Property) map[string]Property {
	merged := make(map[string]Property, len(properties)+6)
	for name, p := range properties {
		merged[name] = p
	}
	merged["filters"] = Property{
		Type:        "object",
		Description: "Exact-match filters as field/value pairs. Unknown fields are ignored.",
	}
	merged["search"] = Property{
		Type:        "string",
		Description: "Case-insensitive substring search across the tool's declared search fields.",
	}
	merged["sort_by"] = Property{
		Type:        "string",
		Description: "Sort field. Only fields from the tool's sortable set are accepted.",
	}
	merged["sort_dir"] = Property{
		Type:        "string",
		Description: "Sort direction: asc (default) or desc.",
	}
	merged["limit"] = Property{
		Type:        "integer",
		Description: "Page size, defaults to 50, capped at 200.",
	}
	merged["offset"] = Property{
		Type:        "integer",
		Description: "Number of rows to skip.",
	}
	return merged
}

// parseQueryOptions разбирает стандартные аргументы с учетом allow-списков
// конкретного инструмента. Недопустимые поля фильтра и сортировки
// отбрасываются, а не приводят к ошибке.
func parseQueryOptions(args map[string]any, filterFields, searchFields, sortFields []string, defaultSort string) repository.QueryOptions {
	opts := repository.QueryOptions{
		SearchFields: searchFields,
		SortBy:       defaultSort,
	}

	if filters, ok := args["filters"].(map[string]any); ok {
		allowed := make(map[string]any, len(filters))
		for field, value := range filters {
			if slices.Contains(filterFields, field) {
				allowed[field] = value
			}
		}
		if len(allowed) > 0 {
			opts.Filters = allowed
		}
	}

	if search, ok := stringArg(args, "search"); ok {
		opts.Search = strings.TrimSpace(search)
	}

	if sortBy, ok := stringArg(args, "sort_by"); ok && slices.Contains(sortFields, sortBy) {
		opts.SortBy = sortBy
	}
	if dir, ok := stringArg(args, "sort_dir"); ok && strings.EqualFold(dir, "desc") {
		opts.SortDesc = true
	}

	if limit, ok := intArg(args, "limit"); ok && limit > 0 {
		opts.Limit = limit
	}
	if offset, ok := intArg(args, "offset"); ok && offset > 0 {
		opts.Offset = offset
	}

	return opts
}
