package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/bagdasarian/task-lists/internal/domain"
)

// Context - контекст вызова инструмента: пользователь и опциональное
// явное переопределение команды
type Context struct {
	Actor  *domain.Actor
	TeamID *int
}

// currentTeam возвращает команду вызова: явную из контекста
// или текущую команду пользователя
func (c Context) currentTeam() (int, bool) {
	if c.TeamID != nil {
		return *c.TeamID, true
	}
	if c.Actor != nil && c.Actor.CurrentTeamID != nil {
		return *c.Actor.CurrentTeamID, true
	}
	return 0, false
}

// Result - стандартный конверт результата: либо успешный payload,
// либо тегированная ошибка (kind + человекочитаемое сообщение)
type Result struct {
	OK           bool
	Payload      map[string]any
	ErrorKind    string
	ErrorMessage string
}

func Success(payload map[string]any) Result {
	return Result{OK: true, Payload: payload}
}

func Error(kind, message string) Result {
	return Result{ErrorKind: kind, ErrorMessage: message}
}

// ErrorFrom переводит ошибку в конверт: DomainError сохраняет свой код,
// все остальное становится EXECUTION_ERROR
func ErrorFrom(err error) Result {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return Error(domainErr.Code, domainErr.Message)
	}
	return Error("EXECUTION_ERROR", err.Error())
}

// Tool - самоописывающая команда: имя, описание, схема входных
// аргументов и исполнение
type Tool interface {
	Name() string
	Description() string
	Schema() Schema
	Execute(ctx context.Context, args map[string]any, tc Context) Result
}

// Registry - статический реестр инструментов. Собирается один раз
// на старте процесса явными вызовами Register, без сканирования
// директорий
type Registry struct {
	tools map[string]Tool
	names []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}
	r.tools[name] = t
	r.names = append(r.names, name)
	return nil
}

// MustRegister регистрирует набор инструментов при сборке реестра;
// дубликат имени - ошибка программиста, поэтому panic
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools возвращает инструменты в порядке регистрации
func (r *Registry) Tools() []Tool {
	tools := make([]Tool, 0, len(r.names))
	for _, name := range r.names {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Execute находит инструмент по имени и выполняет его. Паника обработчика
// не покидает диспетчер - она превращается в EXECUTION_ERROR
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any, tc Context) (result Result) {
	t, ok := r.tools[name]
	if !ok {
		return ErrorFrom(domain.ErrToolNotFound)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = Error("EXECUTION_ERROR", fmt.Sprintf("tool %s panicked: %v", name, rec))
		}
	}()

	return t.Execute(ctx, args, tc)
}
