package dialog

import (
	"maps"

	"github.com/google/uuid"

	"github.com/Spok95/shelf-timer/internal/domain/analytics"
	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

type State string

const (
	StateIdle          State = "idle"
	StateAwaitQuestion State = "await_question" // следующий текст — вопрос помощнику
	StateAwaitUse      State = "await_use"      // следующий текст — "продукт | бренд | кол-во"
)

// Session — состояние одного чата. Overrides — локальные версии строк после /use,
// в реестр они не пишутся и пропадают при /logout.
type Session struct {
	ChatID    int64
	Username  string
	State     State
	Grocery   []analytics.Recommendation
	Overrides map[uuid.UUID]pantry.Row
}

func (s Session) LoggedIn() bool { return s.Username != "" }

// View — реестр с наложенными локальными версиями строк.
func (s Session) View(l pantry.Ledger) pantry.Ledger {
	return l.Apply(s.Overrides)
}

func (s Session) clone() Session {
	s.Grocery = append([]analytics.Recommendation(nil), s.Grocery...)
	s.Overrides = maps.Clone(s.Overrides)
	return s
}
