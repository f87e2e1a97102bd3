package equipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/equipment"
)

func TestArmorType_Conflicts(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     equipment.ArmorType
		expected bool
	}{
		{"heavy vs heavy", equipment.ArmorHeavy, equipment.ArmorHeavy, true},
		{"light vs medium", equipment.ArmorLight, equipment.ArmorMedium, true},
		{"shield vs shield", equipment.ArmorShield, equipment.ArmorShield, true},
		{"shield vs heavy", equipment.ArmorShield, equipment.ArmorHeavy, false},
		{"none vs none", equipment.ArmorNone, equipment.ArmorNone, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Conflicts(tc.b))
		})
	}
}

func TestArmorTypeFromString(t *testing.T) {
	a, ok := equipment.ArmorTypeFromString("medium")
	assert.True(t, ok)
	assert.Equal(t, equipment.ArmorMedium, a)

	_, ok = equipment.ArmorTypeFromString("chainmail")
	assert.False(t, ok)
}
