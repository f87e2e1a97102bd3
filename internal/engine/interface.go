// Package engine exposes the game mechanics the sheet relies on
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/rpg-sheet/internal/engine Engine

import (
	"context"
)

// Engine provides rules calculations and dice rolls for a character sheet
type Engine interface {
	// CalculateSheet derives every computed value for a character
	CalculateSheet(ctx context.Context, input *CalculateSheetInput) (*CalculateSheetOutput, error)

	// RollDice evaluates a dice expression such as "2d6+3"
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// SpendHitDie rolls one hit die and heals the character in place
	SpendHitDie(ctx context.Context, input *SpendHitDieInput) (*SpendHitDieOutput, error)
}
