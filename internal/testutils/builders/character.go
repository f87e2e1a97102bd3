// Package builders provides test data builders for creating test fixtures
package builders

import (
	"strconv"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/equipment"
)

// CharacterBuilder provides a fluent interface for building test Character instances
type CharacterBuilder struct {
	char *dnd5e.Character
}

// NewCharacterBuilder creates a new builder starting from the default record
func NewCharacterBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		char: dnd5e.NewCharacter("char-test-123", 1_000),
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.char.ID = id
	return b
}

// WithLastUpdated sets the record timestamp in unix milliseconds
func (b *CharacterBuilder) WithLastUpdated(ms int64) *CharacterBuilder {
	b.char.LastUpdated = ms
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.char.Name = name
	return b
}

// WithClass sets the class and the matching hit die for the current level
func (b *CharacterBuilder) WithClass(class string) *CharacterBuilder {
	b.char.Class = class
	b.char.HitDice.Total = hitDice(b.char.Level, class)
	return b
}

// WithLevel sets the level, keeping the hit dice count in step
func (b *CharacterBuilder) WithLevel(level int) *CharacterBuilder {
	b.char.Level = level
	b.char.HitDice.Total = hitDice(level, b.char.Class)
	return b
}

// WithAbility sets a single ability score
func (b *CharacterBuilder) WithAbility(a dnd5e.Ability, score int) *CharacterBuilder {
	b.char.AbilityScores.Set(a, score)
	return b
}

// WithAbilityScores replaces all six scores
func (b *CharacterBuilder) WithAbilityScores(scores dnd5e.AbilityScores) *CharacterBuilder {
	b.char.AbilityScores = scores
	return b
}

// WithHP sets current, max and temporary HP
func (b *CharacterBuilder) WithHP(current, maxHP, temporary int) *CharacterBuilder {
	b.char.HP = dnd5e.HP{Current: current, Max: maxHP, Temporary: temporary}
	return b
}

// WithSpellcasting sets the spellcasting ability
func (b *CharacterBuilder) WithSpellcasting(a dnd5e.Ability) *CharacterBuilder {
	b.char.SpellcastingAbility = a
	return b
}

// WithSpellSlots sets the slot pool for a spell level
func (b *CharacterBuilder) WithSpellSlots(level, maxSlots, used int) *CharacterBuilder {
	b.char.SpellSlots[level] = dnd5e.SlotPool{Max: maxSlots, Used: used}
	return b
}

// WithArmor adds an armor item, equipped or not
func (b *CharacterBuilder) WithArmor(id string, armorType equipment.ArmorType, ac int, equipped bool) *CharacterBuilder {
	b.char.Equipment = append(b.char.Equipment, dnd5e.Item{
		ID:         id,
		Name:       id,
		Quantity:   1,
		Equipped:   equipped,
		ArmorType:  armorType,
		ArmorClass: ac,
	})
	return b
}

// WithResource adds a custom resource
func (b *CharacterBuilder) WithResource(id string, maxUses, used int, shortRest bool) *CharacterBuilder {
	b.char.CustomResources = append(b.char.CustomResources, dnd5e.Resource{
		ID:                  id,
		Name:                id,
		Max:                 maxUses,
		Used:                used,
		RechargeOnShortRest: shortRest,
	})
	return b
}

// WithImage sets the character image reference
func (b *CharacterBuilder) WithImage(image string) *CharacterBuilder {
	b.char.ImageURL = image
	return b
}

// WithCompanion adds a default companion carrying image
func (b *CharacterBuilder) WithCompanion(id, image string) *CharacterBuilder {
	companion := dnd5e.NewCompanion(id)
	companion.ImageURL = image
	b.char.Companions = append(b.char.Companions, companion)
	return b
}

// Build returns a copy of the built character
func (b *CharacterBuilder) Build() *dnd5e.Character {
	return b.char.Clone()
}

func hitDice(level int, class string) string {
	return strconv.Itoa(level) + dnd5e.HitDieFor(class)
}
