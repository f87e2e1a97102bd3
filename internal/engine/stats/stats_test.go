package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/engine/stats"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/equipment"
)

func TestAbilityModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{3, -4},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{12, 1},
		{15, 2},
		{20, 5},
		{30, 10},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, stats.AbilityModifier(tc.score), "score %d", tc.score)
	}
}

func TestFormatModifier(t *testing.T) {
	assert.Equal(t, "+3", stats.FormatModifier(3))
	assert.Equal(t, "+0", stats.FormatModifier(0))
	assert.Equal(t, "-2", stats.FormatModifier(-2))
}

func TestProficiencyBonus(t *testing.T) {
	want := map[int]int{
		0: 2, 1: 2, 4: 2, 5: 3, 8: 3, 9: 4, 12: 4, 13: 5, 16: 5, 17: 6, 20: 6,
	}
	for level, bonus := range want {
		assert.Equal(t, bonus, stats.ProficiencyBonus(level), "level %d", level)
	}
}

type StatsTestSuite struct {
	suite.Suite
	char *dnd5e.Character
}

func (s *StatsTestSuite) SetupTest() {
	s.char = dnd5e.NewCharacter("char-1", 1000)
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}

func (s *StatsTestSuite) TestSavingThrowBonus() {
	s.char.AbilityScores.Wisdom = 14
	s.char.Level = 5

	s.Equal(2, stats.SavingThrowBonus(s.char, dnd5e.AbilityWisdom))

	s.char.SavingThrows.Wisdom = true
	s.Equal(5, stats.SavingThrowBonus(s.char, dnd5e.AbilityWisdom))
}

func (s *StatsTestSuite) TestSkillBonus() {
	s.char.AbilityScores.Dexterity = 16
	skill := dnd5e.Skill{Name: "Stealth", Ability: dnd5e.AbilityDexterity}

	s.Equal(3, stats.SkillBonus(s.char, skill))

	skill.Proficient = true
	s.Equal(5, stats.SkillBonus(s.char, skill))

	skill.Expertise = true
	s.Equal(7, stats.SkillBonus(s.char, skill))
}

func (s *StatsTestSuite) TestPassivePerception() {
	s.char.AbilityScores.Wisdom = 12
	s.Equal(11, stats.PassivePerception(s.char))

	s.Require().NoError(stats.ToggleSkillProficiency(s.char, "perception"))
	s.Equal(13, stats.PassivePerception(s.char))
}

func (s *StatsTestSuite) TestInitiative() {
	s.char.AbilityScores.Dexterity = 7
	s.Equal(-2, stats.Initiative(s.char))
}

func (s *StatsTestSuite) TestArmorClass() {

	tests := []struct {
		name   string
		armor  *dnd5e.Item
		shield bool
		dex    int
		want   int
	}{
		{
			name:  "light armor adds full dex",
			armor: &dnd5e.Item{ID: "a", ArmorType: equipment.ArmorLight, ArmorClass: 12, Equipped: true},
			want:  16,
		},
		{
			name:  "medium armor caps dex at two",
			armor: &dnd5e.Item{ID: "a", ArmorType: equipment.ArmorMedium, ArmorClass: 14, Equipped: true},
			want:  16,
		},
		{
			name:  "heavy armor ignores dex",
			armor: &dnd5e.Item{ID: "a", ArmorType: equipment.ArmorHeavy, ArmorClass: 18, Equipped: true},
			want:  18,
		},
		{
			name: "unarmored uses listed abilities",
			dex:  16,
			want: 13,
		},
		{
			name:   "shield stacks on light armor",
			armor:  &dnd5e.Item{ID: "a", ArmorType: equipment.ArmorLight, ArmorClass: 12, Equipped: true},
			shield: true,
			want:   18,
		},
		{
			name:   "shield stacks on unarmored",
			dex:    16,
			shield: true,
			want:   15,
		},
		{
			name:  "unequipped armor is ignored",
			armor: &dnd5e.Item{ID: "a", ArmorType: equipment.ArmorHeavy, ArmorClass: 18},
			dex:   16,
			want:  13,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			c := dnd5e.NewCharacter("ac", 1)
			c.AbilityScores.Dexterity = 18
			if tc.dex != 0 {
				c.AbilityScores.Dexterity = tc.dex
			}
			if tc.armor != nil {
				c.Equipment = append(c.Equipment, *tc.armor)
			}
			if tc.shield {
				// zero AC falls back to the default +2
				c.Equipment = append(c.Equipment, dnd5e.Item{ID: "s", ArmorType: equipment.ArmorShield, Equipped: true})
			}
			s.Equal(tc.want, stats.ArmorClass(c))
		})
	}
}

func (s *StatsTestSuite) TestArmorClass_MultipleUnarmoredAbilities() {
	s.char.AbilityScores.Dexterity = 16
	s.char.AbilityScores.Wisdom = 14
	s.char.UnarmoredDefense.Abilities = []dnd5e.Ability{dnd5e.AbilityDexterity, dnd5e.AbilityWisdom}

	s.Equal(15, stats.ArmorClass(s.char))
}

func (s *StatsTestSuite) TestSpellcasting() {
	_, ok := stats.SpellSaveDC(s.char)
	s.False(ok)
	_, ok = stats.SpellAttackBonus(s.char)
	s.False(ok)

	s.char.SpellcastingAbility = dnd5e.AbilityIntelligence
	s.char.AbilityScores.Intelligence = 17
	s.char.Level = 9

	dc, ok := stats.SpellSaveDC(s.char)
	s.True(ok)
	s.Equal(15, dc)

	bonus, ok := stats.SpellAttackBonus(s.char)
	s.True(ok)
	s.Equal(7, bonus)
}

func (s *StatsTestSuite) TestDerive() {
	s.char.AbilityScores.Dexterity = 14
	s.char.SpellcastingAbility = dnd5e.AbilityCharisma
	s.char.AbilityScores.Charisma = 16

	sheet := stats.Derive(s.char)

	s.Equal(2, sheet.ProficiencyBonus)
	s.Equal(2, sheet.Initiative)
	s.Equal(12, sheet.ArmorClass)
	s.Equal(2, sheet.Modifiers[dnd5e.AbilityDexterity])
	s.Len(sheet.Skills, len(s.char.Skills))
	s.True(sheet.HasSpellcasting)
	s.Equal(13, sheet.SpellSaveDC)
	s.Equal(5, sheet.SpellAttackBonus)
	s.Equal(1, sheet.HitDiceRemaining)
	s.Equal(stats.DeathPending, sheet.DeathState)
}

func TestToggleEquipped(t *testing.T) {
	items := []dnd5e.Item{
		{ID: "plate", ArmorType: equipment.ArmorHeavy, ArmorClass: 18},
		{ID: "chain", ArmorType: equipment.ArmorHeavy, ArmorClass: 16},
		{ID: "shield-1", ArmorType: equipment.ArmorShield, ArmorClass: 2},
		{ID: "shield-2", ArmorType: equipment.ArmorShield, ArmorClass: 3},
		{ID: "rope"},
	}

	t.Run("second heavy armor replaces the first", func(t *testing.T) {
		out, err := stats.ToggleEquipped(items, "plate")
		require.NoError(t, err)
		out, err = stats.ToggleEquipped(out, "chain")
		require.NoError(t, err)

		assert.False(t, out[0].Equipped)
		assert.True(t, out[1].Equipped)
	})

	t.Run("second shield replaces the first", func(t *testing.T) {
		out, err := stats.ToggleEquipped(items, "shield-1")
		require.NoError(t, err)
		out, err = stats.ToggleEquipped(out, "shield-2")
		require.NoError(t, err)

		assert.False(t, out[2].Equipped)
		assert.True(t, out[3].Equipped)
	})

	t.Run("armor and shield coexist", func(t *testing.T) {
		out, err := stats.ToggleEquipped(items, "plate")
		require.NoError(t, err)
		out, err = stats.ToggleEquipped(out, "shield-1")
		require.NoError(t, err)
		out, err = stats.ToggleEquipped(out, "rope")
		require.NoError(t, err)

		assert.True(t, out[0].Equipped)
		assert.True(t, out[2].Equipped)
		assert.True(t, out[4].Equipped)
	})

	t.Run("toggle off", func(t *testing.T) {
		out, err := stats.ToggleEquipped(items, "plate")
		require.NoError(t, err)
		out, err = stats.ToggleEquipped(out, "plate")
		require.NoError(t, err)
		assert.False(t, out[0].Equipped)
	})

	t.Run("input is not modified", func(t *testing.T) {
		_, err := stats.ToggleEquipped(items, "plate")
		require.NoError(t, err)
		assert.False(t, items[0].Equipped)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := stats.ToggleEquipped(items, "missing")
		require.Error(t, err)
	})
}

func TestToggleSkills(t *testing.T) {
	c := dnd5e.NewCharacter("skills", 1)

	require.NoError(t, stats.ToggleSkillExpertise(c, "Stealth"))
	idx, ok := c.FindSkillIndex("Stealth")
	require.True(t, ok)
	assert.True(t, c.Skills[idx].Expertise)
	assert.True(t, c.Skills[idx].Proficient, "expertise grants proficiency")

	require.NoError(t, stats.ToggleSkillProficiency(c, "Stealth"))
	assert.False(t, c.Skills[idx].Proficient)
	assert.False(t, c.Skills[idx].Expertise, "losing proficiency drops expertise")

	assert.Error(t, stats.ToggleSkillProficiency(c, "Basket Weaving"))
	assert.Error(t, stats.ToggleSkillExpertise(c, "Basket Weaving"))
}

func TestToggleSavingThrow(t *testing.T) {
	c := dnd5e.NewCharacter("saves", 1)

	require.NoError(t, stats.ToggleSavingThrow(c, dnd5e.AbilityConstitution))
	assert.True(t, c.SavingThrows.Constitution)

	assert.Error(t, stats.ToggleSavingThrow(c, dnd5e.Ability("luck")))
}
