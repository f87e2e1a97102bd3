package dnd5e

// Default values for a fresh sheet
const (
	DefaultAbilityScore = 10
	DefaultMaxHP        = 10
	DefaultSpeed        = 30
	DefaultUnarmoredAC  = 10
)

// NewCharacter returns a fully populated default record: every collection is
// non-nil and every value the calculator reads is present. The same record
// is used as the default layer when healing stored data.
func NewCharacter(id string, lastUpdated int64) *Character {
	slots := make(map[int]SlotPool, MaxSpellLevel)
	for level := 1; level <= MaxSpellLevel; level++ {
		slots[level] = SlotPool{}
	}

	currency := make(map[string]int, len(AllCurrencies()))
	for _, denom := range AllCurrencies() {
		currency[denom] = 0
	}

	return &Character{
		ID:            id,
		LastUpdated:   lastUpdated,
		SchemaVersion: SchemaVersion,
		Name:          "New Character",
		Level:         MinLevel,
		Languages:     []string{"Common"},
		Speed:         DefaultSpeed,
		AbilityScores: AbilityScores{
			Strength:     DefaultAbilityScore,
			Dexterity:    DefaultAbilityScore,
			Constitution: DefaultAbilityScore,
			Intelligence: DefaultAbilityScore,
			Wisdom:       DefaultAbilityScore,
			Charisma:     DefaultAbilityScore,
		},
		Skills: StandardSkills(),
		UnarmoredDefense: UnarmoredDefense{
			Base:      DefaultUnarmoredAC,
			Abilities: []Ability{AbilityDexterity},
		},
		HP:                HP{Current: DefaultMaxHP, Max: DefaultMaxHP},
		HitDice:           HitDice{Total: "1d8"},
		Equipment:         []Item{},
		Spells:            []Spell{},
		SpellSlots:        slots,
		CustomResources:   []Resource{},
		Attacks:           []Attack{},
		FeaturesAndTraits: []Feature{},
		Companions:        []Companion{},
		Currency:          currency,
	}
}

// NewCompanion returns a default companion record
func NewCompanion(id string) Companion {
	return Companion{
		ID:         id,
		Name:       "New Companion",
		HP:         HP{Current: 1, Max: 1},
		ArmorClass: DefaultUnarmoredAC,
		Speed:      DefaultSpeed,
		AbilityScores: AbilityScores{
			Strength:     DefaultAbilityScore,
			Dexterity:    DefaultAbilityScore,
			Constitution: DefaultAbilityScore,
			Intelligence: DefaultAbilityScore,
			Wisdom:       DefaultAbilityScore,
			Charisma:     DefaultAbilityScore,
		},
		Attacks: []Attack{},
		Spells:  []Spell{},
	}
}

// newItemDefaults is the default layer for a single equipment entry
func newItemDefaults() Item {
	return Item{Quantity: 1}
}
