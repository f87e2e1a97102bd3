package dnd5e_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/equipment"
)

type HealTestSuite struct {
	suite.Suite
}

func TestHealSuite(t *testing.T) {
	suite.Run(t, new(HealTestSuite))
}

func (s *HealTestSuite) TestNewCharacterIsFullyPopulated() {
	c := dnd5e.NewCharacter("char_1", 42)

	s.Equal("char_1", c.ID)
	s.Equal(int64(42), c.LastUpdated)
	s.Equal(1, c.Level)
	s.Len(c.Skills, 18)
	s.Len(c.SpellSlots, dnd5e.MaxSpellLevel)
	s.NotNil(c.Equipment)
	s.NotNil(c.Spells)
	s.NotNil(c.CustomResources)
	s.NotNil(c.Attacks)
	s.NotNil(c.FeaturesAndTraits)
	s.NotNil(c.Companions)
	s.Len(c.Currency, 5)
	s.Equal(dnd5e.UnarmoredDefense{Base: 10, Abilities: []dnd5e.Ability{dnd5e.AbilityDexterity}}, c.UnarmoredDefense)
}

func (s *HealTestSuite) TestPartialOldRecordKeepsProvidedFields() {
	old := `{
		"id": "abc",
		"lastUpdated": 1700000000000,
		"name": "Brakka",
		"class": "Barbarian",
		"level": 5,
		"abilityScores": {"strength": 18, "dexterity": 14},
		"hp": {"current": 30, "max": 55, "temporary": 0},
		"equipment": [{"id": "i1", "name": "Greataxe", "equipped": true}],
		"notes": "owes the guild 40gp"
	}`

	c, err := dnd5e.Decode([]byte(old))
	s.Require().NoError(err)

	s.Equal("abc", c.ID)
	s.Equal(int64(1700000000000), c.LastUpdated)
	s.Equal("Brakka", c.Name)
	s.Equal("Barbarian", c.Class)
	s.Equal(5, c.Level)
	s.Equal(18, c.AbilityScores.Strength)
	s.Equal(14, c.AbilityScores.Dexterity)
	s.Equal(dnd5e.HP{Current: 30, Max: 55}, c.HP)
	s.Equal("owes the guild 40gp", c.Notes)

	// defaults under the provided object
	s.Equal(10, c.AbilityScores.Constitution)
	s.Equal(dnd5e.UnarmoredDefense{Base: 10, Abilities: []dnd5e.Ability{dnd5e.AbilityDexterity}}, c.UnarmoredDefense)
	s.Equal("1d8", c.HitDice.Total)
	s.Len(c.Skills, 18)
	s.Len(c.SpellSlots, dnd5e.MaxSpellLevel)
	s.Equal(dnd5e.SchemaVersion, c.SchemaVersion)

	// equipment entries merge against item defaults
	s.Require().Len(c.Equipment, 1)
	s.Equal(1, c.Equipment[0].Quantity)
	s.True(c.Equipment[0].Equipped)
}

func (s *HealTestSuite) TestNullCollectionsAreBackfilled() {
	c, err := dnd5e.Decode([]byte(`{"id":"x","spells":null,"currency":{"gp":12}}`))
	s.Require().NoError(err)

	s.NotNil(c.Spells)
	s.Equal(12, c.Currency[dnd5e.CurrencyGold])
	s.Equal(0, c.Currency[dnd5e.CurrencyCopper])
}

func (s *HealTestSuite) TestCompanionsHealedIndividually() {
	c, err := dnd5e.Decode([]byte(`{"id":"x","companions":[{"id":"c1","name":"Owl","hp":{"max":3}}]}`))
	s.Require().NoError(err)

	s.Require().Len(c.Companions, 1)
	owl := c.Companions[0]
	s.Equal("Owl", owl.Name)
	s.Equal(3, owl.HP.Max)
	s.Equal(1, owl.HP.Current)
	s.Equal(10, owl.ArmorClass)
	s.NotNil(owl.Attacks)
}

func (s *HealTestSuite) TestInvariantsRestored() {
	c, err := dnd5e.Decode([]byte(`{
		"id": "x",
		"level": 0,
		"skills": [{"name": "Stealth", "ability": "dexterity", "expertise": true}],
		"deathSaves": {"successes": 5, "failures": -1},
		"hitDice": {"total": "1d10", "used": 4},
		"spellSlots": {"1": {"max": 2, "used": 7}}
	}`))
	s.Require().NoError(err)

	s.Equal(1, c.Level)
	idx, ok := c.FindSkillIndex("stealth")
	s.Require().True(ok)
	s.True(c.Skills[idx].Proficient)
	s.Len(c.Skills, 18)
	s.Equal(dnd5e.DeathSaves{Successes: 3, Failures: 0}, c.DeathSaves)
	s.Equal(1, c.HitDice.Used)
	s.Equal(dnd5e.SlotPool{Max: 2, Used: 2}, c.SpellSlots[1])
	s.Equal(dnd5e.SlotPool{}, c.SpellSlots[9])
}

func (s *HealTestSuite) TestDecodeRejectsGarbage() {
	_, err := dnd5e.Decode([]byte(`not json`))
	s.Error(err)

	_, err = dnd5e.Decode([]byte(`null`))
	s.Error(err)
}

func TestHealCharacter_RoundTrip(t *testing.T) {
	c := dnd5e.NewCharacter("char_9", 100)
	c.Name = "Vex"
	c.Equipment = append(c.Equipment, dnd5e.Item{
		ID: "shield", Name: "Shield", Quantity: 1, Equipped: true, ArmorType: equipment.ArmorShield, ArmorClass: 2,
	})
	c.SpellSlots[3] = dnd5e.SlotPool{Max: 2, Used: 1}

	healed, err := dnd5e.HealCharacter(c)
	require.NoError(t, err)
	assert.Equal(t, c, healed)

	tree, err := dnd5e.ToTree(healed)
	require.NoError(t, err)
	assert.Equal(t, "Vex", tree["name"])

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	again, err := dnd5e.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestCharacter_Lookups(t *testing.T) {
	c := dnd5e.NewCharacter("x", 0)
	c.Class = "Fighter"
	c.HitDice.Total = "3d10"
	c.CustomResources = []dnd5e.Resource{{ID: "r1", Name: "Second Wind", Max: 1}}
	c.Companions = []dnd5e.Companion{dnd5e.NewCompanion("pet")}

	assert.Equal(t, 10, c.HitDieSize())
	assert.Equal(t, "d10", dnd5e.HitDieFor(c.Class))
	assert.Equal(t, "d8", dnd5e.HitDieFor("artificer"))

	idx, ok := c.FindResourceIndex("second wind")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	pet, ok := c.FindCompanion("pet")
	require.True(t, ok)
	assert.Equal(t, dnd5e.EntityTypeCompanion, pet.GetType())
	assert.Equal(t, dnd5e.EntityTypeCharacter, c.GetType())

	_, ok = c.FindItemIndex("missing")
	assert.False(t, ok)
}
