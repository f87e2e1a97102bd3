package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/engine/dice"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/stats"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// CalculateSheetInput contains the character to derive stats for
type CalculateSheetInput struct {
	Character *dnd5e.Character
}

// CalculateSheetOutput contains the derived sheet
type CalculateSheetOutput struct {
	Sheet stats.Sheet
}

// RollDiceInput contains the expression to roll
type RollDiceInput struct {
	Expression string
}

// RollDiceOutput contains the roll result. Malformed expressions are not an
// error: Result.Valid is false and Result.Breakdown is "invalid".
type RollDiceOutput struct {
	Result dice.Result
}

// SpendHitDieInput contains the character spending a hit die
type SpendHitDieInput struct {
	Character *dnd5e.Character
}

// SpendHitDieOutput contains the roll and the HP actually restored
type SpendHitDieOutput struct {
	Roll   dice.Result
	Healed int
}
