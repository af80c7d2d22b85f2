// Package analytics — чистые функции над реестром: классификация отходов,
// окно истечения сроков, рекомендации закупок и метрики устойчивости.
// Ни одна функция не меняет входные строки и не возвращает ошибок:
// неизвестные даты и числа деградируют до пустых/нулевых результатов.
package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

// Day нормализует момент до полуночи в его часовом поясе.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today — опорная дата «сегодня» в поясе loc.
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(time.Now().In(loc))
}

// Partition делит строки на отходы и «использованное».
// Used включает всё, что не Wasted, в том числе ещё не тронутые продукты в кладовой.
type Partition struct {
	Wasted []pantry.Row
	Used   []pantry.Row
	wasted map[uuid.UUID]struct{}
}

func (p Partition) IsWasted(id uuid.UUID) bool {
	_, ok := p.wasted[id]
	return ok
}

// Classify: wasted = выброшено вручную ∪ просрочено на ref (по идентичности строки),
// used = остальное. Порядок входа сохраняется в обеих частях.
func Classify(rows []pantry.Row, ref time.Time) Partition {
	p := Partition{wasted: make(map[uuid.UUID]struct{})}
	for _, r := range rows {
		if r.Trashed() || r.ExpiryDate.Before(ref) {
			p.wasted[r.ID] = struct{}{}
		}
	}
	emitted := make(map[uuid.UUID]struct{}, len(p.wasted))
	for _, r := range rows {
		if _, ok := p.wasted[r.ID]; !ok {
			p.Used = append(p.Used, r)
			continue
		}
		// строка, попавшая в оба множества, учитывается один раз
		if _, dup := emitted[r.ID]; dup {
			continue
		}
		emitted[r.ID] = struct{}{}
		p.Wasted = append(p.Wasted, r)
	}
	return p
}
