package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bagdasarian/task-lists/internal/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// appendQueryOptions дополняет базовый списочный запрос стандартными
// параметрами в фиксированном порядке: фильтры -> поиск -> сортировка ->
// пагинация. columns отображает имена полей на колонки; поля вне columns
// игнорируются, поэтому в SQL попадают только известные колонки.
func appendQueryOptions(query string, args []any, opts repository.QueryOptions, columns map[string]string, defaultSort string) (string, []any) {
	var sb strings.Builder
	sb.WriteString(query)

	// Фильтры точного совпадения; ключи обходим в детерминированном порядке
	fields := make([]string, 0, len(opts.Filters))
	for field := range opts.Filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		column, ok := columns[field]
		if !ok {
			continue
		}
		args = append(args, opts.Filters[field])
		fmt.Fprintf(&sb, " AND %s = $%d", column, len(args))
	}

	// Поиск подстроки по объявленному набору полей
	if opts.Search != "" && len(opts.SearchFields) > 0 {
		var parts []string
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		for _, field := range opts.SearchFields {
			if column, ok := columns[field]; ok {
				parts = append(parts, fmt.Sprintf("%s ILIKE $%d", column, n))
			}
		}
		if len(parts) > 0 {
			sb.WriteString(" AND (" + strings.Join(parts, " OR ") + ")")
		} else {
			args = args[:n-1]
		}
	}

	// Сортировка
	sortColumn := defaultSort
	if column, ok := columns[opts.SortBy]; ok && opts.SortBy != "" {
		sortColumn = column
	}
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", sortColumn, direction)

	// Пагинация
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))

	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}
