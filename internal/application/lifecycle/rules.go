// Package lifecycle описывает стадии призвания и допустимые переходы между ними.
// Пакет чистый: без состояния и ввода-вывода.
package lifecycle

import (
	"fmt"
	"strings"
)

type Stage string

const (
	StageProposed  Stage = "proposed"
	StageExtended  Stage = "extended"
	StageSustained Stage = "sustained"
	StageSetApart  Stage = "set_apart"
)

// порядок стадий; переход разрешён только на следующую
var order = []Stage{StageProposed, StageExtended, StageSustained, StageSetApart}

// Stages возвращает стадии в порядке прохождения
func Stages() []Stage {
	out := make([]Stage, len(order))
	copy(out, order)
	return out
}

func (s Stage) String() string { return string(s) }

func (s Stage) Valid() bool {
	return s.index() >= 0
}

func (s Stage) index() int {
	for i, st := range order {
		if st == s {
			return i
		}
	}
	return -1
}

func ParseStage(raw string) (Stage, error) {
	s := Stage(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown calling stage %q", raw)
	}
	return s, nil
}

// Initial - стадия, с которой создаётся любое назначение
func Initial() Stage { return order[0] }

// Next возвращает следующую стадию; ok=false для терминальной или неизвестной
func Next(s Stage) (Stage, bool) {
	i := s.index()
	if i < 0 || i == len(order)-1 {
		return "", false
	}
	return order[i+1], true
}

func IsTerminal(s Stage) bool {
	return s.Valid() && s.index() == len(order)-1
}

// CanTransition: только строго на один шаг вперёд. Пропуск стадии, шаг назад
// и переход в ту же стадию запрещены.
func CanTransition(from, to Stage) bool {
	next, ok := Next(from)
	return ok && next == to
}

// IsSustained: назначение поддержано на собрании (sustained или позже), только такое можно освободить
func IsSustained(s Stage) bool {
	return s.Valid() && s.index() >= StageSustained.index()
}
