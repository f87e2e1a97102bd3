// Package dnd5e holds the character sheet record and its defaults
package dnd5e

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Character is the aggregate root of a character sheet.
// NOTE: This is a data-only struct. Derived values (modifiers, AC, spell DC)
// are computed by engine/stats and never stored.
type Character struct {
	ID            string `json:"id"`
	LastUpdated   int64  `json:"lastUpdated"`
	SchemaVersion int    `json:"schemaVersion"`

	Name       string   `json:"name"`
	Class      string   `json:"class"`
	Subclass   string   `json:"subclass"`
	Level      int      `json:"level"`
	Race       string   `json:"race"`
	Alignment  string   `json:"alignment"`
	Background string   `json:"background"`
	Languages  []string `json:"languages"`
	ImageURL   string   `json:"image"`
	Speed      int      `json:"speed"`

	AbilityScores    AbilityScores    `json:"abilityScores"`
	SavingThrows     SavingThrows     `json:"savingThrows"`
	Skills           []Skill          `json:"skills"`
	UnarmoredDefense UnarmoredDefense `json:"unarmoredDefense"`
	HP               HP               `json:"hp"`
	HitDice          HitDice          `json:"hitDice"`
	DeathSaves       DeathSaves       `json:"deathSaves"`

	Equipment           []Item           `json:"equipment"`
	Spells              []Spell          `json:"spells"`
	SpellcastingAbility Ability          `json:"spellcastingAbility"`
	SpellSlots          map[int]SlotPool `json:"spellSlots"`
	CustomResources     []Resource       `json:"customResources"`
	Attacks             []Attack         `json:"attacks"`
	FeaturesAndTraits   []Feature        `json:"featuresAndTraits"`
	Companions          []Companion      `json:"companions"`
	Currency            map[string]int   `json:"currency"`

	Personality string `json:"personality"`
	Ideals      string `json:"ideals"`
	Bonds       string `json:"bonds"`
	Flaws       string `json:"flaws"`
	Notes       string `json:"notes"`
	DMNotes     string `json:"dmNotes"`
}

// GetID returns the character's ID
func (c *Character) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *Character) GetType() string {
	return EntityTypeCharacter
}

// Clone returns a deep copy of the record
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	// Character holds only JSON-safe values, so the round trip cannot fail
	data, _ := json.Marshal(c)
	var out Character
	_ = json.Unmarshal(data, &out)
	return &out
}

// FindItemIndex finds an item by ID
// Returns the index and whether it was found
func (c *Character) FindItemIndex(itemID string) (int, bool) {
	for i := range c.Equipment {
		if c.Equipment[i].ID == itemID {
			return i, true
		}
	}
	return -1, false
}

// FindSkillIndex finds a skill by case-insensitive name
func (c *Character) FindSkillIndex(name string) (int, bool) {
	for i := range c.Skills {
		if strings.EqualFold(c.Skills[i].Name, name) {
			return i, true
		}
	}
	return -1, false
}

// FindResourceIndex finds a custom resource by ID or case-insensitive name
func (c *Character) FindResourceIndex(key string) (int, bool) {
	for i := range c.CustomResources {
		if c.CustomResources[i].ID == key || strings.EqualFold(c.CustomResources[i].Name, key) {
			return i, true
		}
	}
	return -1, false
}

// FindCompanion returns the companion with the given ID
func (c *Character) FindCompanion(companionID string) (*Companion, bool) {
	for i := range c.Companions {
		if c.Companions[i].ID == companionID {
			return &c.Companions[i], true
		}
	}
	return nil, false
}

// HitDieSize returns the die size of the hit dice expression, e.g. 8 for "3d8".
// Returns 0 when the expression has no die.
func (c *Character) HitDieSize() int {
	_, size, ok := strings.Cut(strings.ToLower(c.HitDice.Total), "d")
	if !ok {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(size, "%d", &n); err != nil {
		return 0
	}
	return n
}

// HitDieFor returns the hit die ("d10") for a class name, "d8" when unknown
func HitDieFor(class string) string {
	if die, ok := classHitDie[strings.ToLower(strings.TrimSpace(class))]; ok {
		return die
	}
	return "d8"
}
