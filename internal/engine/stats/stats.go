// Package stats computes derived character statistics.
//
// Every function here is pure: it reads a record and returns numbers or new
// values. The mutators in hp.go, equipment.go and resources.go that take a
// *dnd5e.Character change only that record and perform no I/O.
package stats

import (
	"fmt"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/equipment"
)

// AbilityModifier returns floor((score - 10) / 2). Scores below 10 round
// toward negative infinity: 9 gives -1, not 0.
func AbilityModifier(score int) int {
	delta := score - 10
	if delta < 0 {
		return (delta - 1) / 2
	}
	return delta / 2
}

// FormatModifier renders a modifier with an explicit sign: "+3", "+0", "-2"
func FormatModifier(mod int) string {
	if mod >= 0 {
		return fmt.Sprintf("+%d", mod)
	}
	return fmt.Sprintf("%d", mod)
}

// ProficiencyBonus returns ceil(level / 4) + 1: +2 at levels 1-4 up to +6
// at 17-20. Levels below 1 are treated as 1.
func ProficiencyBonus(level int) int {
	if level < dnd5e.MinLevel {
		level = dnd5e.MinLevel
	}
	return (level+3)/4 + 1
}

// Modifier returns the character's modifier for an ability
func Modifier(c *dnd5e.Character, a dnd5e.Ability) int {
	return AbilityModifier(c.AbilityScores.Get(a))
}

// SavingThrowBonus is the ability modifier plus proficiency when proficient
func SavingThrowBonus(c *dnd5e.Character, a dnd5e.Ability) int {
	bonus := Modifier(c, a)
	if c.SavingThrows.Proficient(a) {
		bonus += ProficiencyBonus(c.Level)
	}
	return bonus
}

// SkillBonus is the governing ability modifier, plus proficiency when
// proficient, plus proficiency again with expertise.
func SkillBonus(c *dnd5e.Character, s dnd5e.Skill) int {
	bonus := Modifier(c, s.Ability)
	prof := ProficiencyBonus(c.Level)
	if s.Proficient {
		bonus += prof
	}
	if s.Expertise {
		bonus += prof
	}
	return bonus
}

// PassivePerception is 10 plus the Perception skill bonus, or 10 plus the
// wisdom modifier when the sheet has no Perception entry.
func PassivePerception(c *dnd5e.Character) int {
	if idx, ok := c.FindSkillIndex("Perception"); ok {
		return 10 + SkillBonus(c, c.Skills[idx])
	}
	return 10 + Modifier(c, dnd5e.AbilityWisdom)
}

// Initiative is the dexterity modifier
func Initiative(c *dnd5e.Character) int {
	return Modifier(c, dnd5e.AbilityDexterity)
}

// EquippedArmor returns the first equipped body armor and shield, if any
func EquippedArmor(items []dnd5e.Item) (armor, shield *dnd5e.Item) {
	for i := range items {
		item := &items[i]
		if !item.Equipped {
			continue
		}
		switch {
		case item.ArmorType.IsBodyArmor() && armor == nil:
			armor = item
		case item.ArmorType == equipment.ArmorShield && shield == nil:
			shield = item
		}
	}
	return armor, shield
}

// ArmorClass computes AC from equipped armor, falling back to the unarmored
// defense rule, plus any equipped shield.
//
//	light:     base + dex
//	medium:    base + min(dex, 2)
//	heavy:     base
//	unarmored: unarmoredDefense.base + sum of listed ability modifiers
func ArmorClass(c *dnd5e.Character) int {
	dex := Modifier(c, dnd5e.AbilityDexterity)
	armor, shield := EquippedArmor(c.Equipment)

	var ac int
	if armor != nil {
		ac = armor.ArmorClass
		switch armor.ArmorType {
		case equipment.ArmorLight:
			ac += dex
		case equipment.ArmorMedium:
			ac += min(dex, equipment.MediumArmorDexCap)
		}
	} else {
		ac = c.UnarmoredDefense.Base
		for _, a := range c.UnarmoredDefense.Abilities {
			ac += Modifier(c, a)
		}
	}

	if shield != nil {
		bonus := shield.ArmorClass
		if bonus == 0 {
			bonus = equipment.DefaultShieldBonus
		}
		ac += bonus
	}

	return ac
}

// SpellSaveDC is 8 + proficiency + spellcasting modifier.
// ok is false when the character has no spellcasting ability.
func SpellSaveDC(c *dnd5e.Character) (dc int, ok bool) {
	if !c.SpellcastingAbility.IsValid() {
		return 0, false
	}
	return 8 + ProficiencyBonus(c.Level) + Modifier(c, c.SpellcastingAbility), true
}

// SpellAttackBonus is proficiency + spellcasting modifier.
// ok is false when the character has no spellcasting ability.
func SpellAttackBonus(c *dnd5e.Character) (bonus int, ok bool) {
	if !c.SpellcastingAbility.IsValid() {
		return 0, false
	}
	return ProficiencyBonus(c.Level) + Modifier(c, c.SpellcastingAbility), true
}

// HitDiceRemaining is level minus dice spent, never negative
func HitDiceRemaining(c *dnd5e.Character) int {
	return max(c.Level-c.HitDice.Used, 0)
}

// SkillLine is a derived skill row
type SkillLine struct {
	Name       string
	Ability    dnd5e.Ability
	Bonus      int
	Proficient bool
	Expertise  bool
}

// Sheet is every derived value for one character at one point in time
type Sheet struct {
	Modifiers         map[dnd5e.Ability]int
	SavingThrows      map[dnd5e.Ability]int
	Skills            []SkillLine
	ProficiencyBonus  int
	PassivePerception int
	Initiative        int
	ArmorClass        int
	HasSpellcasting   bool
	SpellSaveDC       int
	SpellAttackBonus  int
	HitDiceRemaining  int
	DeathState        DeathState
}

// Derive computes the full derived sheet for c
func Derive(c *dnd5e.Character) Sheet {
	sheet := Sheet{
		Modifiers:         make(map[dnd5e.Ability]int, 6),
		SavingThrows:      make(map[dnd5e.Ability]int, 6),
		Skills:            make([]SkillLine, 0, len(c.Skills)),
		ProficiencyBonus:  ProficiencyBonus(c.Level),
		PassivePerception: PassivePerception(c),
		Initiative:        Initiative(c),
		ArmorClass:        ArmorClass(c),
		HitDiceRemaining:  HitDiceRemaining(c),
		DeathState:        DeathSaveState(c.DeathSaves),
	}

	for _, a := range dnd5e.AllAbilities() {
		sheet.Modifiers[a] = Modifier(c, a)
		sheet.SavingThrows[a] = SavingThrowBonus(c, a)
	}

	for _, s := range c.Skills {
		sheet.Skills = append(sheet.Skills, SkillLine{
			Name:       s.Name,
			Ability:    s.Ability,
			Bonus:      SkillBonus(c, s),
			Proficient: s.Proficient,
			Expertise:  s.Expertise,
		})
	}

	sheet.SpellSaveDC, sheet.HasSpellcasting = SpellSaveDC(c)
	sheet.SpellAttackBonus, _ = SpellAttackBonus(c)

	return sheet
}
