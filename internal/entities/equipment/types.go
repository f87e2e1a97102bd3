// Package equipment defines armor categories and how they interact with AC
package equipment

// ArmorType is the armor category of an item. Items without one never
// participate in armor class calculation.
type ArmorType string

// Armor categories
const (
	ArmorNone   ArmorType = ""
	ArmorLight  ArmorType = "light"
	ArmorMedium ArmorType = "medium"
	ArmorHeavy  ArmorType = "heavy"
	ArmorShield ArmorType = "shield"
)

// DefaultShieldBonus is the AC a shield grants when the item does not say
const DefaultShieldBonus = 2

// MediumArmorDexCap is the most dexterity medium armor lets through
const MediumArmorDexCap = 2

// String returns the string representation of the armor type
func (a ArmorType) String() string {
	return string(a)
}

// IsValid checks if the armor type is a known category (or none)
func (a ArmorType) IsValid() bool {
	switch a {
	case ArmorNone, ArmorLight, ArmorMedium, ArmorHeavy, ArmorShield:
		return true
	default:
		return false
	}
}

// IsArmor reports whether the item is armor of any kind, shields included
func (a ArmorType) IsArmor() bool {
	return a != ArmorNone
}

// IsBodyArmor reports whether the type occupies the body slot.
// At most one body armor piece may be equipped at a time.
func (a ArmorType) IsBodyArmor() bool {
	return a == ArmorLight || a == ArmorMedium || a == ArmorHeavy
}

// Conflicts reports whether equipping a forces b off
func (a ArmorType) Conflicts(b ArmorType) bool {
	if a.IsBodyArmor() && b.IsBodyArmor() {
		return true
	}
	return a == ArmorShield && b == ArmorShield
}

// AllArmorTypes returns every armor category
func AllArmorTypes() []ArmorType {
	return []ArmorType{ArmorLight, ArmorMedium, ArmorHeavy, ArmorShield}
}

// ArmorTypeFromString converts a string to an ArmorType
// Returns the type and true if valid, empty type and false if invalid
func ArmorTypeFromString(s string) (ArmorType, bool) {
	a := ArmorType(s)
	if a.IsValid() {
		return a, true
	}
	return ArmorNone, false
}
