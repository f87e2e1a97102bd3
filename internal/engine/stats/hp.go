package stats

import (
	"strconv"

	"github.com/KirkDiggler/rpg-sheet/internal/engine/dice"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// ApplyDamage removes temporary HP first, then current HP, floored at 0.
// Non-positive amounts change nothing.
func ApplyDamage(hp dnd5e.HP, amount int) dnd5e.HP {
	if amount <= 0 {
		return hp
	}

	absorbed := min(hp.Temporary, amount)
	hp.Temporary -= absorbed
	amount -= absorbed

	hp.Current = max(hp.Current-amount, 0)
	return hp
}

// ApplyHealing raises current HP, capped at max.
// Non-positive amounts change nothing.
func ApplyHealing(hp dnd5e.HP, amount int) dnd5e.HP {
	if amount <= 0 {
		return hp
	}
	hp.Current = min(hp.Current+amount, hp.Max)
	return hp
}

// SetTemporaryHP replaces temporary HP; it never stacks
func SetTemporaryHP(hp dnd5e.HP, amount int) dnd5e.HP {
	hp.Temporary = max(amount, 0)
	return hp
}

// SetCurrentHP sets current HP clamped to [0, max]
func SetCurrentHP(hp dnd5e.HP, current int) dnd5e.HP {
	hp.Current = max(min(current, hp.Max), 0)
	return hp
}

// HitDieRoll is the outcome of spending one hit die
type HitDieRoll struct {
	Roll   dice.Result
	Healed int
}

// SpendHitDie rolls one hit die plus the constitution modifier and heals by
// the total, floored at 0 and capped at max HP. One die is consumed.
// Returns FailedPrecondition when every die for the level is already spent.
func SpendHitDie(c *dnd5e.Character, ev *dice.Evaluator) (*HitDieRoll, error) {
	if c.HitDice.Used >= c.Level {
		return nil, errors.FailedPreconditionf("no hit dice remaining (%d/%d used)", c.HitDice.Used, c.Level)
	}

	size := c.HitDieSize()
	if size <= 0 {
		return nil, errors.InvalidArgumentf("invalid hit dice expression: %q", c.HitDice.Total)
	}

	expr := "1d" + strconv.Itoa(size) + FormatModifier(Modifier(c, dnd5e.AbilityConstitution))
	roll := ev.Evaluate(expr)
	if !roll.Valid {
		return nil, errors.InvalidArgumentf("invalid hit dice expression: %q", c.HitDice.Total)
	}

	before := c.HP.Current
	c.HP = ApplyHealing(c.HP, max(roll.Total, 0))
	c.HitDice.Used++

	return &HitDieRoll{Roll: roll, Healed: c.HP.Current - before}, nil
}
