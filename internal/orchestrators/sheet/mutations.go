package sheet

import (
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/engine/stats"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Damage applies damage, temporary HP first
func Damage(amount int) Mutation {
	return func(c *dnd5e.Character) error {
		if amount < 0 {
			return errors.InvalidArgumentf("damage must not be negative: %d", amount)
		}
		c.HP = stats.ApplyDamage(c.HP, amount)
		return nil
	}
}

// Heal restores HP up to max
func Heal(amount int) Mutation {
	return func(c *dnd5e.Character) error {
		if amount < 0 {
			return errors.InvalidArgumentf("healing must not be negative: %d", amount)
		}
		c.HP = stats.ApplyHealing(c.HP, amount)
		return nil
	}
}

// SetTemporaryHP replaces temporary HP
func SetTemporaryHP(amount int) Mutation {
	return func(c *dnd5e.Character) error {
		c.HP = stats.SetTemporaryHP(c.HP, amount)
		return nil
	}
}

// SetMaxHP changes max HP and clamps current HP to it
func SetMaxHP(maxHP int) Mutation {
	return func(c *dnd5e.Character) error {
		if maxHP < 0 {
			return errors.InvalidArgumentf("max HP must not be negative: %d", maxHP)
		}
		c.HP.Max = maxHP
		c.HP = stats.SetCurrentHP(c.HP, c.HP.Current)
		return nil
	}
}

// SetAbilityScore sets one ability score
func SetAbilityScore(a dnd5e.Ability, score int) Mutation {
	return func(c *dnd5e.Character) error {
		if !a.IsValid() {
			return errors.InvalidArgumentf("unknown ability: %q", a)
		}
		c.AbilityScores.Set(a, score)
		return nil
	}
}

// SetLevel changes level within [1,20]. Spent hit dice are clamped to the
// new level.
func SetLevel(level int) Mutation {
	return func(c *dnd5e.Character) error {
		if level < dnd5e.MinLevel || level > dnd5e.MaxLevel {
			return errors.InvalidArgumentf("level must be between %d and %d: %d", dnd5e.MinLevel, dnd5e.MaxLevel, level)
		}
		c.Level = level
		c.HitDice.Used = min(c.HitDice.Used, level)
		return nil
	}
}

// Rename sets the character name
func Rename(name string) Mutation {
	return func(c *dnd5e.Character) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return errors.InvalidArgument("name is required")
		}
		c.Name = name
		return nil
	}
}

// ToggleEquipped flips an item's equipped flag, unequipping conflicting armor
func ToggleEquipped(itemID string) Mutation {
	return func(c *dnd5e.Character) error {
		items, err := stats.ToggleEquipped(c.Equipment, itemID)
		if err != nil {
			return err
		}
		c.Equipment = items
		return nil
	}
}

// ToggleSkillProficiency flips proficiency in a skill
func ToggleSkillProficiency(name string) Mutation {
	return func(c *dnd5e.Character) error {
		return stats.ToggleSkillProficiency(c, name)
	}
}

// ToggleSkillExpertise flips expertise in a skill
func ToggleSkillExpertise(name string) Mutation {
	return func(c *dnd5e.Character) error {
		return stats.ToggleSkillExpertise(c, name)
	}
}

// ToggleSavingThrow flips proficiency in a saving throw
func ToggleSavingThrow(a dnd5e.Ability) Mutation {
	return func(c *dnd5e.Character) error {
		return stats.ToggleSavingThrow(c, a)
	}
}

// RecordDeathSave adds a success or failure. Ignored once the state is
// stabilized or dead.
func RecordDeathSave(success, critical bool) Mutation {
	return func(c *dnd5e.Character) error {
		c.DeathSaves = stats.RecordDeathSave(c.DeathSaves, success, critical)
		return nil
	}
}

// ResetDeathSaves zeroes both counters, unlocking a terminal state
func ResetDeathSaves() Mutation {
	return func(c *dnd5e.Character) error {
		c.DeathSaves = stats.ResetDeathSaves()
		return nil
	}
}

// UseSpellSlot spends a slot of the given level
func UseSpellSlot(level int) Mutation {
	return func(c *dnd5e.Character) error {
		return stats.UseSpellSlot(c, level)
	}
}

// RestoreSpellSlot returns a slot of the given level
func RestoreSpellSlot(level int) Mutation {
	return func(c *dnd5e.Character) error {
		return stats.RestoreSpellSlot(c, level)
	}
}

// UseResource spends one use of a custom resource
func UseResource(key string) Mutation {
	return func(c *dnd5e.Character) error {
		return stats.UseResource(c, key)
	}
}

// RestoreResource returns one use of a custom resource
func RestoreResource(key string) Mutation {
	return func(c *dnd5e.Character) error {
		return stats.RestoreResource(c, key)
	}
}

// LongRest restores HP, slots, resources and hit dice
func LongRest() Mutation {
	return func(c *dnd5e.Character) error {
		stats.LongRest(c)
		return nil
	}
}

// ShortRest recharges short-rest resources
func ShortRest() Mutation {
	return func(c *dnd5e.Character) error {
		stats.ShortRest(c)
		return nil
	}
}

// Combine applies mutations in order, stopping at the first error
func Combine(ms ...Mutation) Mutation {
	return func(c *dnd5e.Character) error {
		for _, m := range ms {
			if err := m(c); err != nil {
				return err
			}
		}
		return nil
	}
}
