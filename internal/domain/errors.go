package domain

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Это позволяет использовать errors.Is()
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrNoActor - в контексте вызова нет пользователя
	ErrNoActor = &DomainError{
		Code:    "AUTH_ERROR",
		Message: "no user found in context",
	}

	// ErrMissingTeam - не указана команда и нет текущей команды
	ErrMissingTeam = &DomainError{
		Code:    "MISSING_TEAM",
		Message: "no team specified and no current team in context",
	}

	// ErrAccessDenied - политика доступа запретила операцию
	ErrAccessDenied = &DomainError{
		Code:    "ACCESS_DENIED",
		Message: "access denied",
	}

	// ErrBoardNotFound - доска не найдена
	ErrBoardNotFound = &DomainError{
		Code:    "BOARD_NOT_FOUND",
		Message: "the requested board was not found",
	}

	// ErrListNotFound - список не найден
	ErrListNotFound = &DomainError{
		Code:    "LIST_NOT_FOUND",
		Message: "the requested list was not found",
	}

	// ErrItemNotFound - элемент не найден
	ErrItemNotFound = &DomainError{
		Code:    "ITEM_NOT_FOUND",
		Message: "the requested item was not found",
	}

	// ErrToolNotFound - инструмент с таким именем не зарегистрирован
	ErrToolNotFound = &DomainError{
		Code:    "TOOL_NOT_FOUND",
		Message: "the requested tool is not registered",
	}
)

// NewValidationError создает ошибку VALIDATION_ERROR для отсутствующего
// или некорректного аргумента
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewExecutionError оборачивает неожиданную ошибку исполнения
func NewExecutionError(context string, err error) *DomainError {
	return &DomainError{
		Code:    "EXECUTION_ERROR",
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}
