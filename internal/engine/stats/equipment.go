package stats

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// ToggleEquipped flips the equipped flag of the item with itemID. Equipping
// body armor unequips any other body armor; equipping a shield unequips any
// other shield. Returns a new slice; the input is not modified.
func ToggleEquipped(items []dnd5e.Item, itemID string) ([]dnd5e.Item, error) {
	target := -1
	for i := range items {
		if items[i].ID == itemID {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, errors.NotFoundf("item %s not found", itemID)
	}

	out := make([]dnd5e.Item, len(items))
	copy(out, items)

	equipping := !out[target].Equipped
	out[target].Equipped = equipping

	if equipping && out[target].ArmorType.IsArmor() {
		for i := range out {
			if i == target || !out[i].Equipped {
				continue
			}
			if out[i].ArmorType.Conflicts(out[target].ArmorType) {
				out[i].Equipped = false
			}
		}
	}

	return out, nil
}
