package repository

// QueryOptions - стандартные параметры списочных запросов.
// Применяются строго в порядке: фильтры -> поиск -> сортировка -> пагинация.
// Допустимые поля проверяются на уровне инструмента, сюда попадают
// уже отвалидированные значения.
type QueryOptions struct {
	// Filters - точные совпадения поле=значение
	Filters map[string]any
	// Search - подстрока, ищется по SearchFields без учета регистра
	Search       string
	SearchFields []string
	// SortBy - поле сортировки, SortDesc - направление
	SortBy   string
	SortDesc bool
	// Limit/Offset - пагинация; Limit <= 0 означает лимит по умолчанию
	Limit  int
	Offset int
}

// PositionAssignment - пара (ребенок, новая позиция) для переупорядочивания
type PositionAssignment struct {
	ChildID  int
	Position int
}
