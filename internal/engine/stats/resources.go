package stats

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// UseSpellSlot spends one slot of the given level
func UseSpellSlot(c *dnd5e.Character, level int) error {
	if level < 1 || level > dnd5e.MaxSpellLevel {
		return errors.InvalidArgumentf("spell level must be between 1 and %d, got %d", dnd5e.MaxSpellLevel, level)
	}

	pool := c.SpellSlots[level]
	if pool.Available() == 0 {
		return errors.FailedPreconditionf("no level %d spell slots available", level)
	}

	pool.Used++
	c.SpellSlots[level] = pool
	return nil
}

// RestoreSpellSlot returns one spent slot of the given level. Restoring when
// nothing is spent is a no-op.
func RestoreSpellSlot(c *dnd5e.Character, level int) error {
	if level < 1 || level > dnd5e.MaxSpellLevel {
		return errors.InvalidArgumentf("spell level must be between 1 and %d, got %d", dnd5e.MaxSpellLevel, level)
	}

	pool, ok := c.SpellSlots[level]
	if !ok || pool.Used == 0 {
		return nil
	}

	pool.Used--
	c.SpellSlots[level] = pool
	return nil
}

// UseResource spends one use of a custom resource, found by ID or name
func UseResource(c *dnd5e.Character, key string) error {
	idx, ok := c.FindResourceIndex(key)
	if !ok {
		return errors.NotFoundf("resource %s not found", key)
	}

	res := &c.CustomResources[idx]
	if res.Used >= res.Max {
		return errors.FailedPreconditionf("resource %s has no uses remaining", res.Name)
	}
	res.Used++
	return nil
}

// RestoreResource returns one use of a custom resource
func RestoreResource(c *dnd5e.Character, key string) error {
	idx, ok := c.FindResourceIndex(key)
	if !ok {
		return errors.NotFoundf("resource %s not found", key)
	}

	res := &c.CustomResources[idx]
	if res.Used > 0 {
		res.Used--
	}
	return nil
}

// LongRest restores HP to max, clears temporary HP and death saves, restores
// every spell slot and resource, and recovers half the level in hit dice
// (minimum one).
func LongRest(c *dnd5e.Character) {
	c.HP.Current = c.HP.Max
	c.HP.Temporary = 0
	c.DeathSaves = ResetDeathSaves()

	for level, pool := range c.SpellSlots {
		pool.Used = 0
		c.SpellSlots[level] = pool
	}
	for i := range c.CustomResources {
		c.CustomResources[i].Used = 0
	}

	recovered := max(c.Level/2, 1)
	c.HitDice.Used = max(c.HitDice.Used-recovered, 0)
}

// ShortRest restores resources that recharge on a short rest. Hit dice are
// spent separately through SpendHitDie.
func ShortRest(c *dnd5e.Character) {
	for i := range c.CustomResources {
		if c.CustomResources[i].RechargeOnShortRest {
			c.CustomResources[i].Used = 0
		}
	}
}
