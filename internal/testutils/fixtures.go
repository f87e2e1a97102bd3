package testutils

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/equipment"
)

const (
	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "Thorin Oakenshield"

	// TestOwner is the default signed-in owner for test fixtures
	TestOwner = "user-test-001"
)

// CreateTestCharacter creates a level 1 wizard with the standard array
func CreateTestCharacter(id string) *dnd5e.Character {
	c := dnd5e.NewCharacter(id, 1_000)
	c.Name = "Gandalf the Grey"
	c.Class = "Wizard"
	c.Race = "Human"
	c.Background = "Sage"
	c.Alignment = "Neutral Good"
	c.AbilityScores = dnd5e.AbilityScores{
		Strength:     8,
		Dexterity:    14,
		Constitution: 13,
		Intelligence: 16,
		Wisdom:       15,
		Charisma:     12,
	}
	c.SpellcastingAbility = dnd5e.AbilityIntelligence
	c.SavingThrows.Intelligence = true
	c.SavingThrows.Wisdom = true
	c.HP = dnd5e.HP{Current: 7, Max: 7} // 6 (wizard d6) + 1 (CON mod)
	c.HitDice.Total = "1d6"
	c.SpellSlots[1] = dnd5e.SlotPool{Max: 2}
	return c
}

// CreateTestFighter creates a level 5 fighter in chain mail with a shield
func CreateTestFighter(id string) *dnd5e.Character {
	c := dnd5e.NewCharacter(id, 1_000)
	c.Name = TestCharacterName
	c.Class = "Fighter"
	c.Race = "Dwarf"
	c.Level = 5
	c.AbilityScores = *CreateTestAbilityScores()
	c.SavingThrows.Strength = true
	c.SavingThrows.Constitution = true
	c.HP = dnd5e.HP{Current: 44, Max: 44}
	c.HitDice.Total = "5d10"
	c.Equipment = []dnd5e.Item{
		{ID: "chain-mail", Name: "Chain Mail", Quantity: 1, Weight: 55, Equipped: true, ArmorType: equipment.ArmorHeavy, ArmorClass: 16},
		{ID: "leather", Name: "Leather Armor", Quantity: 1, Weight: 10, ArmorType: equipment.ArmorLight, ArmorClass: 11},
		{ID: "shield", Name: "Shield", Quantity: 1, Weight: 6, Equipped: true, ArmorType: equipment.ArmorShield, ArmorClass: 2},
	}
	c.CustomResources = []dnd5e.Resource{
		{ID: "second-wind", Name: "Second Wind", Max: 1, RechargeOnShortRest: true},
		{ID: "action-surge", Name: "Action Surge", Max: 1, RechargeOnShortRest: true},
	}
	return c
}

// CreateTestAbilityScores creates standard array ability scores
func CreateTestAbilityScores() *dnd5e.AbilityScores {
	return &dnd5e.AbilityScores{
		Strength:     15,
		Dexterity:    14,
		Constitution: 13,
		Intelligence: 12,
		Wisdom:       10,
		Charisma:     8,
	}
}

// LegacyRecordJSON is a schema v1 record: no unarmoredDefense,
// customResources, companions, deathSaves or dmNotes.
const LegacyRecordJSON = `{
	"id": "legacy-001",
	"lastUpdated": 500,
	"name": "Old Timer",
	"class": "Rogue",
	"level": 3,
	"abilityScores": {"dexterity": 16},
	"skills": [{"name": "Stealth", "ability": "dexterity", "proficient": true, "expertise": true}],
	"hp": {"current": 18, "max": 21}
}`
