package dnd5e

// SchemaVersion is the current record shape. Records stored with an older
// version are healed on load.
//
// Versions:
//
//	1 - initial sheet
//	2 - unarmoredDefense, customResources
//	3 - companions, deathSaves, dmNotes
const SchemaVersion = 3

// Entity types reported through core.Entity
const (
	EntityTypeCharacter = "character"
	EntityTypeCompanion = "companion"
)

// Level bounds
const (
	MinLevel = 1
	MaxLevel = 20
)

// MaxDeathSaves is where a death save counter becomes terminal
const MaxDeathSaves = 3

// MaxSpellLevel is the highest spell slot level
const MaxSpellLevel = 9

// Currency denominations
const (
	CurrencyCopper   = "cp"
	CurrencySilver   = "sp"
	CurrencyElectrum = "ep"
	CurrencyGold     = "gp"
	CurrencyPlatinum = "pp"
)

// AllAbilities returns the six abilities in sheet order
func AllAbilities() []Ability {
	return []Ability{
		AbilityStrength,
		AbilityDexterity,
		AbilityConstitution,
		AbilityIntelligence,
		AbilityWisdom,
		AbilityCharisma,
	}
}

// AllCurrencies returns the denominations in ascending value
func AllCurrencies() []string {
	return []string{CurrencyCopper, CurrencySilver, CurrencyElectrum, CurrencyGold, CurrencyPlatinum}
}

// StandardSkills returns the 18 skills with their governing abilities, in
// sheet order. Each call returns a fresh slice.
func StandardSkills() []Skill {
	return []Skill{
		{Name: "Acrobatics", Ability: AbilityDexterity},
		{Name: "Animal Handling", Ability: AbilityWisdom},
		{Name: "Arcana", Ability: AbilityIntelligence},
		{Name: "Athletics", Ability: AbilityStrength},
		{Name: "Deception", Ability: AbilityCharisma},
		{Name: "History", Ability: AbilityIntelligence},
		{Name: "Insight", Ability: AbilityWisdom},
		{Name: "Intimidation", Ability: AbilityCharisma},
		{Name: "Investigation", Ability: AbilityIntelligence},
		{Name: "Medicine", Ability: AbilityWisdom},
		{Name: "Nature", Ability: AbilityIntelligence},
		{Name: "Perception", Ability: AbilityWisdom},
		{Name: "Performance", Ability: AbilityCharisma},
		{Name: "Persuasion", Ability: AbilityCharisma},
		{Name: "Religion", Ability: AbilityIntelligence},
		{Name: "Sleight of Hand", Ability: AbilityDexterity},
		{Name: "Stealth", Ability: AbilityDexterity},
		{Name: "Survival", Ability: AbilityWisdom},
	}
}

// classHitDie maps lower-case class names to their hit die
var classHitDie = map[string]string{
	"barbarian": "d12",
	"bard":      "d8",
	"cleric":    "d8",
	"druid":     "d8",
	"fighter":   "d10",
	"monk":      "d8",
	"paladin":   "d10",
	"ranger":    "d10",
	"rogue":     "d8",
	"sorcerer":  "d6",
	"warlock":   "d8",
	"wizard":    "d6",
}
