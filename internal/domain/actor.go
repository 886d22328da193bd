package domain

// Actor - вызывающий пользователь. CurrentTeamID равен nil,
// если пользователь не состоит ни в одной команде.
type Actor struct {
	ID            int
	Username      string
	CurrentTeamID *int
}

// HasTeam сообщает, выбрана ли у пользователя текущая команда
func (a *Actor) HasTeam() bool {
	return a != nil && a.CurrentTeamID != nil
}
