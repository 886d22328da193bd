package policy

import "github.com/bagdasarian/task-lists/internal/domain"

type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionCreate Action = "create"
)

type Kind string

const (
	KindBoard Kind = "board"
	KindList  Kind = "list"
	KindItem  Kind = "item"
)

// Ref - типизированная ссылка на сущность для проверки политики.
// Item не имеет собственной команды: доступ к нему проверяется
// через список, которому он принадлежит.
type Ref struct {
	Kind   Kind
	TeamID int
}

func ForBoard(b *domain.Board) Ref {
	return Ref{Kind: KindBoard, TeamID: b.TeamID}
}

func ForList(l *domain.List) Ref {
	return Ref{Kind: KindList, TeamID: l.TeamID}
}

// rules - набор предикатов для одного вида сущностей
type rules struct {
	view   func(actor *domain.Actor, ref Ref) bool
	update func(actor *domain.Actor, ref Ref) bool
	delete func(actor *domain.Actor, ref Ref) bool
	create func(actor *domain.Actor) bool
}

func sameTeam(actor *domain.Actor, ref Ref) bool {
	return actor.HasTeam() && *actor.CurrentTeamID == ref.TeamID
}

func hasTeam(actor *domain.Actor) bool {
	return actor.HasTeam()
}

// Таблица политик по видам сущностей. Закрытое множество: Board и List
// несут team_id, Item наследует решение своего списка.
var policies = map[Kind]rules{
	KindBoard: {view: sameTeam, update: sameTeam, delete: sameTeam, create: hasTeam},
	KindList:  {view: sameTeam, update: sameTeam, delete: sameTeam, create: hasTeam},
}

type Gate struct{}

func NewGate() Gate {
	return Gate{}
}

// Allows возвращает булево решение политики. Используется там,
// где нужен фильтр по строкам коллекции.
func (Gate) Allows(actor *domain.Actor, action Action, ref Ref) bool {
	r, ok := policies[ref.Kind]
	if !ok {
		return false
	}
	if actor == nil {
		return false
	}

	switch action {
	case ActionView:
		return r.view(actor, ref)
	case ActionUpdate:
		return r.update(actor, ref)
	case ActionDelete:
		return r.delete(actor, ref)
	case ActionCreate:
		return r.create(actor)
	default:
		return false
	}
}

// AllowsCreate проверяет право на создание сущностей вида kind
func (g Gate) AllowsCreate(actor *domain.Actor, kind Kind) bool {
	return g.Allows(actor, ActionCreate, Ref{Kind: kind})
}

// Authorize - жесткий вариант: возвращает ErrAccessDenied при отказе
func (g Gate) Authorize(actor *domain.Actor, action Action, ref Ref) error {
	if !g.Allows(actor, action, ref) {
		return domain.ErrAccessDenied
	}
	return nil
}
