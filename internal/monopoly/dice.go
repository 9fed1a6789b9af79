package monopoly

import (
	"math/rand"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

const dieFaces = 6

// Roller produces dice throws.
type Roller interface {
	Roll() entity.Roll
}

type randomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller rolls two uniform dice from rng.
func NewRandomRoller(rng *rand.Rand) Roller {
	return &randomRoller{rng: rng}
}

func (that *randomRoller) Roll() entity.Roll {
	return entity.Roll{
		First:  that.rng.Intn(dieFaces) + 1,
		Second: that.rng.Intn(dieFaces) + 1,
	}
}

// ScriptedRoller replays fixed throws in order and then repeats the last one.
type ScriptedRoller struct {
	rolls []entity.Roll
	next  int
}

func NewScriptedRoller(rolls ...entity.Roll) *ScriptedRoller {
	return &ScriptedRoller{rolls: rolls}
}

func (that *ScriptedRoller) Push(rolls ...entity.Roll) {
	that.rolls = append(that.rolls, rolls...)
}

func (that *ScriptedRoller) Roll() entity.Roll {
	if len(that.rolls) == 0 {
		return entity.Roll{First: 1, Second: 2}
	}

	idx := min(that.next, len(that.rolls)-1)
	that.next++

	return that.rolls[idx]
}
