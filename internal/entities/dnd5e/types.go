package dnd5e

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/equipment"
)

// Ability names one of the six ability scores
type Ability string

// Abilities
const (
	AbilityStrength     Ability = "strength"
	AbilityDexterity    Ability = "dexterity"
	AbilityConstitution Ability = "constitution"
	AbilityIntelligence Ability = "intelligence"
	AbilityWisdom       Ability = "wisdom"
	AbilityCharisma     Ability = "charisma"
)

// IsValid checks if the ability is one of the six
func (a Ability) IsValid() bool {
	switch a {
	case AbilityStrength, AbilityDexterity, AbilityConstitution,
		AbilityIntelligence, AbilityWisdom, AbilityCharisma:
		return true
	default:
		return false
	}
}

// Short returns the three letter abbreviation, e.g. "DEX"
func (a Ability) Short() string {
	switch a {
	case AbilityStrength:
		return "STR"
	case AbilityDexterity:
		return "DEX"
	case AbilityConstitution:
		return "CON"
	case AbilityIntelligence:
		return "INT"
	case AbilityWisdom:
		return "WIS"
	case AbilityCharisma:
		return "CHA"
	default:
		return ""
	}
}

// AbilityScores holds the six core ability scores
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Get returns the score for an ability, 0 for unknown abilities
func (s AbilityScores) Get(a Ability) int {
	switch a {
	case AbilityStrength:
		return s.Strength
	case AbilityDexterity:
		return s.Dexterity
	case AbilityConstitution:
		return s.Constitution
	case AbilityIntelligence:
		return s.Intelligence
	case AbilityWisdom:
		return s.Wisdom
	case AbilityCharisma:
		return s.Charisma
	default:
		return 0
	}
}

// Set updates the score for an ability; unknown abilities are ignored
func (s *AbilityScores) Set(a Ability, score int) {
	switch a {
	case AbilityStrength:
		s.Strength = score
	case AbilityDexterity:
		s.Dexterity = score
	case AbilityConstitution:
		s.Constitution = score
	case AbilityIntelligence:
		s.Intelligence = score
	case AbilityWisdom:
		s.Wisdom = score
	case AbilityCharisma:
		s.Charisma = score
	}
}

// SavingThrows records saving throw proficiency per ability
type SavingThrows struct {
	Strength     bool `json:"strength"`
	Dexterity    bool `json:"dexterity"`
	Constitution bool `json:"constitution"`
	Intelligence bool `json:"intelligence"`
	Wisdom       bool `json:"wisdom"`
	Charisma     bool `json:"charisma"`
}

// Proficient reports whether the character is proficient in the save
func (s SavingThrows) Proficient(a Ability) bool {
	switch a {
	case AbilityStrength:
		return s.Strength
	case AbilityDexterity:
		return s.Dexterity
	case AbilityConstitution:
		return s.Constitution
	case AbilityIntelligence:
		return s.Intelligence
	case AbilityWisdom:
		return s.Wisdom
	case AbilityCharisma:
		return s.Charisma
	default:
		return false
	}
}

// Set updates proficiency for a save
func (s *SavingThrows) Set(a Ability, proficient bool) {
	switch a {
	case AbilityStrength:
		s.Strength = proficient
	case AbilityDexterity:
		s.Dexterity = proficient
	case AbilityConstitution:
		s.Constitution = proficient
	case AbilityIntelligence:
		s.Intelligence = proficient
	case AbilityWisdom:
		s.Wisdom = proficient
	case AbilityCharisma:
		s.Charisma = proficient
	}
}

// Skill is one entry of the ordered skill list.
// Expertise implies Proficient; the mutators in engine/stats keep that true.
type Skill struct {
	Name       string  `json:"name"`
	Ability    Ability `json:"ability"`
	Proficient bool    `json:"proficient"`
	Expertise  bool    `json:"expertise"`
}

// UnarmoredDefense is the AC rule used when no body armor is equipped
type UnarmoredDefense struct {
	Base      int       `json:"base"`
	Abilities []Ability `json:"abilities"`
}

// HP tracks hit points. Temporary is absorbed before Current on damage.
type HP struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// HitDice tracks the hit die expression and how many dice were spent
type HitDice struct {
	Total string `json:"total"`
	Used  int    `json:"used"`
}

// DeathSaves counts death saving throws, each in [0,3]
type DeathSaves struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// Item is a piece of equipment. Items with an ArmorType participate in AC
// calculation while Equipped.
type Item struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Quantity    int                 `json:"quantity"`
	Weight      float64             `json:"weight"`
	Equipped    bool                `json:"equipped"`
	ArmorType   equipment.ArmorType `json:"armorType,omitempty"`
	ArmorClass  int                 `json:"armorClass,omitempty"`
	Description string              `json:"description,omitempty"`
}

// Spell is a known or prepared spell
type Spell struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	School      string `json:"school,omitempty"`
	Prepared    bool   `json:"prepared"`
	Description string `json:"description,omitempty"`
}

// SlotPool is a spell slot level: Used never exceeds Max
type SlotPool struct {
	Max  int `json:"max"`
	Used int `json:"used"`
}

// Available returns the slots left at this level
func (p SlotPool) Available() int {
	if p.Used >= p.Max {
		return 0
	}
	return p.Max - p.Used
}

// Resource is a named, limited-use class or custom resource (ki, rage...)
type Resource struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Max                 int    `json:"max"`
	Used                int    `json:"used"`
	RechargeOnShortRest bool   `json:"rechargeOnShortRest"`
}

// Attack is an attack or weapon line on the sheet
type Attack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AttackBonus string `json:"attackBonus"`
	Damage      string `json:"damage"`
	DamageType  string `json:"damageType,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Feature is a class feature, racial trait or feat
type Feature struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Source      string `json:"source,omitempty"`
	Description string `json:"description"`
}

// Companion is a familiar, mount or pet tracked alongside the character
type Companion struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Kind          string        `json:"kind"`
	ImageURL      string        `json:"image"`
	HP            HP            `json:"hp"`
	ArmorClass    int           `json:"armorClass"`
	Speed         int           `json:"speed"`
	AbilityScores AbilityScores `json:"abilityScores"`
	Attacks       []Attack      `json:"attacks"`
	Spells        []Spell       `json:"spells"`
	Notes         string        `json:"notes"`
}

// GetID returns the companion's ID
func (c *Companion) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *Companion) GetType() string {
	return EntityTypeCompanion
}
