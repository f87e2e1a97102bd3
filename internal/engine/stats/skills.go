package stats

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// ToggleSkillProficiency flips proficiency for the named skill. Removing
// proficiency also removes expertise.
func ToggleSkillProficiency(c *dnd5e.Character, name string) error {
	idx, ok := c.FindSkillIndex(name)
	if !ok {
		return errors.NotFoundf("skill %s not found", name)
	}

	skill := &c.Skills[idx]
	skill.Proficient = !skill.Proficient
	if !skill.Proficient {
		skill.Expertise = false
	}
	return nil
}

// ToggleSkillExpertise flips expertise for the named skill. Gaining
// expertise also grants proficiency.
func ToggleSkillExpertise(c *dnd5e.Character, name string) error {
	idx, ok := c.FindSkillIndex(name)
	if !ok {
		return errors.NotFoundf("skill %s not found", name)
	}

	skill := &c.Skills[idx]
	skill.Expertise = !skill.Expertise
	if skill.Expertise {
		skill.Proficient = true
	}
	return nil
}

// ToggleSavingThrow flips saving throw proficiency for an ability
func ToggleSavingThrow(c *dnd5e.Character, a dnd5e.Ability) error {
	if !a.IsValid() {
		return errors.InvalidArgumentf("unknown ability %q", a)
	}
	c.SavingThrows.Set(a, !c.SavingThrows.Proficient(a))
	return nil
}
